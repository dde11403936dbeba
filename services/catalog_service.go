package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter narrows the public product listing
type ProductFilter struct {
	Category string
	Featured bool
}

// ProductInput is a full or partial product payload. Nil fields are absent.
type ProductInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Category      *string          `json:"category"`
	ImageURL      *string          `json:"image_url"`
	StockQuantity *int             `json:"stock_quantity"`
	IsFeatured    *bool            `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
}

// AdminProductQuery filters the admin product listing
type AdminProductQuery struct {
	PageRequest
	Category string
}

// CatalogService manages products and categories
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service on top of db
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns active products, optionally filtered by category and featured flag
func (s *CatalogService) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}

	products := make([]models.Product, 0)
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns an active product. Inactive products are reported as missing.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, notFoundError("Product not found")
	}
	return product, nil
}

// Create validates input and inserts a new active product
func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" || input.Price == nil {
		return nil, validationError("Name and price are required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:     strings.TrimSpace(*input.Name),
		Price:    input.Price.Round(2),
		Category: models.DefaultCategory,
		IsActive: true,
	}
	applyProductInput(&product, input)

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// IsActive=false is a zero value gorm would skip on insert
	if input.IsActive != nil && !*input.IsActive {
		if err := s.db.WithContext(ctx).Model(&product).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
	}

	logging.FromContext(ctx).Info("product created", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

// Update applies a partial patch. Inactive products can still be updated
// (and re-activated) through this path.
func (s *CatalogService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if input == (ProductInput{}) {
		return nil, validationError("No data provided")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, validationError("Name cannot be empty")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = input.Price.Round(2)
	}
	if input.Category != nil {
		updates["category"] = categoryOrDefault(*input.Category)
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.StockQuantity != nil {
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.find(ctx, id)
}

// Delete soft-deletes a product by flipping is_active
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(product).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	logging.FromContext(ctx).Info("product deactivated", "product_id", id)
	return nil
}

// Categories returns the distinct non-empty categories of active products
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// AdminList pages through all products, active or not, with optional
// substring search over name and description.
func (s *CatalogService) AdminList(ctx context.Context, q AdminProductQuery) (Page[models.Product], error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		query = query.Where(
			fmt.Sprintf(likeClause+" OR "+likeClause, "name", "description"),
			pattern, pattern,
		)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	page, err := paginate[models.Product](query, q.PageRequest, "id ASC")
	if err != nil {
		return Page[models.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

// All returns every product ordered by id, for exports
func (s *CatalogService) All(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) find(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func validateProductInput(input ProductInput) error {
	if input.Price != nil && input.Price.IsNegative() {
		return validationError("Price must be a non-negative number")
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return validationError("Stock quantity must be a non-negative integer")
	}
	return nil
}

func applyProductInput(p *models.Product, input ProductInput) {
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Category != nil {
		p.Category = categoryOrDefault(*input.Category)
	}
	if input.ImageURL != nil {
		p.ImageURL = *input.ImageURL
	}
	if input.StockQuantity != nil {
		p.StockQuantity = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		p.IsFeatured = *input.IsFeatured
	}
}

func categoryOrDefault(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return models.DefaultCategory
}
