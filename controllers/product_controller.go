package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// ProductController handles catalog endpoints, public and admin
type ProductController struct {
	catalog *services.CatalogService
}

// NewProductController creates a product controller
func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List handles GET /api/products?category=&featured=
func (p *ProductController) List(c *gin.Context) {
	products, err := p.catalog.List(c.Request.Context(), services.ProductFilter{
		Category: c.Query("category"),
		Featured: strings.EqualFold(c.Query("featured"), "true"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewProductResponses(products))
}

// Get handles GET /api/products/:id
func (p *ProductController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := p.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewProductResponse(*product))
}

// Categories handles GET /api/categories
func (p *ProductController) Categories(c *gin.Context) {
	categories, err := p.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create handles POST /api/products and POST /api/admin/products
func (p *ProductController) Create(c *gin.Context) {
	var input services.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := p.catalog.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewProductResponse(*product))
}

// Update handles PUT /api/products/:id and PUT /api/admin/products/:id
func (p *ProductController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := p.catalog.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewProductResponse(*product))
}

// Delete handles DELETE /api/products/:id and DELETE /api/admin/products/:id
func (p *ProductController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := p.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AdminList handles GET /api/admin/products?page=&per_page=&search=&category=
func (p *ProductController) AdminList(c *gin.Context) {
	page, err := p.catalog.AdminList(c.Request.Context(), services.AdminProductQuery{
		PageRequest: pageRequest(c),
		Category:    c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("products", page, models.NewProductResponses(page.Items)))
}

// Export handles GET /api/admin/products/export
func (p *ProductController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := p.catalog.Export(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, services.ExportContentType, buf.Bytes())
}
