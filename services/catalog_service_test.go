package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalogListFiltersInactiveAndFeatured(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	shirt := testutil.CreateProduct(t, db, "Shirt", "29.99")
	mug := testutil.CreateProduct(t, db, "Mug", "19.99")
	gone := testutil.CreateProduct(t, db, "Gone", "5.00")
	testutil.Deactivate(t, db, gone)
	require.NoError(t, db.Model(mug).Updates(map[string]interface{}{"is_featured": true, "category": "drinkware"}).Error)

	all, err := svc.List(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, shirt.ID, all[0].ID)
	assert.Equal(t, mug.ID, all[1].ID)

	featured, err := svc.List(ctx, ProductFilter{Featured: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Mug", featured[0].Name)

	byCategory, err := svc.List(ctx, ProductFilter{Category: "apparel"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Shirt", byCategory[0].Name)
}

func TestCatalogGetHidesInactive(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	product := testutil.CreateProduct(t, db, "Shirt", "29.99")
	got, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", got.Name)

	testutil.Deactivate(t, db, product)
	_, err = svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   ProductInput
		wantErr error
		check   func(t *testing.T, p *models.Product)
	}{
		{
			name:  "defaults applied",
			input: ProductInput{Name: strPtr("Mug"), Price: decPtr("19.99")},
			check: func(t *testing.T, p *models.Product) {
				assert.Equal(t, models.DefaultCategory, p.Category)
				assert.Equal(t, 0, p.StockQuantity)
				assert.False(t, p.IsFeatured)
				assert.True(t, p.IsActive)
				assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))
			},
		},
		{
			name:  "created inactive",
			input: ProductInput{Name: strPtr("Draft"), Price: decPtr("1"), IsActive: boolPtr(false)},
			check: func(t *testing.T, p *models.Product) {
				var stored models.Product
				require.NoError(t, db.First(&stored, p.ID).Error)
				assert.False(t, stored.IsActive)
			},
		},
		{name: "missing name", input: ProductInput{Price: decPtr("1")}, wantErr: ErrValidation},
		{name: "missing price", input: ProductInput{Name: strPtr("Mug")}, wantErr: ErrValidation},
		{name: "negative price", input: ProductInput{Name: strPtr("Mug"), Price: decPtr("-1")}, wantErr: ErrValidation},
		{name: "negative stock", input: ProductInput{Name: strPtr("Mug"), Price: decPtr("1"), StockQuantity: intPtr(-1)}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestCatalogUpdateIsPartialAndReactivates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	product := testutil.CreateProduct(t, db, "Shirt", "29.99")
	testutil.Deactivate(t, db, product)

	updated, err := svc.Update(ctx, product.ID, ProductInput{Price: decPtr("24.50"), IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Shirt", updated.Name, "absent fields must be left alone")
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("24.50")))
	assert.True(t, updated.IsActive)

	_, err = svc.Update(ctx, product.ID, ProductInput{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 9999, ProductInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogDeleteIsSoft(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	product := testutil.CreateProduct(t, db, "Shirt", "29.99")
	require.NoError(t, svc.Delete(ctx, product.ID))

	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error, "row must still exist")
	assert.False(t, stored.IsActive)

	assert.ErrorIs(t, svc.Delete(ctx, 9999), ErrNotFound)
}

func TestCatalogCategories(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	a := testutil.CreateProduct(t, db, "A", "1")
	b := testutil.CreateProduct(t, db, "B", "1")
	c := testutil.CreateProduct(t, db, "C", "1")
	testutil.CreateProduct(t, db, "D", "1")
	require.NoError(t, db.Model(a).Update("category", "prints").Error)
	require.NoError(t, db.Model(b).Update("category", "home").Error)
	require.NoError(t, db.Model(c).Update("category", "hidden").Error)
	testutil.Deactivate(t, db, c)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apparel", "home", "prints"}, categories)
}

func TestCatalogAdminListSearchesAndPaginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	for _, name := range []string{"Pet Mug", "Pet Pillow", "Canvas Print", "100% Cotton Tee"} {
		testutil.CreateProduct(t, db, name, "10")
	}
	hidden := testutil.CreateProduct(t, db, "Old Pet Mug", "10")
	testutil.Deactivate(t, db, hidden)

	page, err := svc.AdminList(ctx, AdminProductQuery{PageRequest: PageRequest{Page: 1, PerPage: 2, Search: "PET"}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total, "search is case-insensitive and includes inactive products")
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 2)

	second, err := svc.AdminList(ctx, AdminProductQuery{PageRequest: PageRequest{Page: 2, PerPage: 2, Search: "pet"}})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Old Pet Mug", second.Items[0].Name)

	percent, err := svc.AdminList(ctx, AdminProductQuery{PageRequest: PageRequest{Search: "100%"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, percent.Total, "LIKE metacharacters are matched literally")

	none, err := svc.AdminList(ctx, AdminProductQuery{Category: "prints"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, none.Total)
	assert.Empty(t, none.Items)
}

func TestCatalogExport(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	testutil.CreateProduct(t, db, "Shirt", "29.99")
	gone := testutil.CreateProduct(t, db, "Gone", "5")
	testutil.Deactivate(t, db, gone)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Products", sheet.Name)
	require.Len(t, sheet.Rows, 3, "header plus every product, inactive included")
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Shirt", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "Gone", sheet.Rows[2].Cells[1].Value)
}
