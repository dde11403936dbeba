package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to products created without a category
const DefaultCategory = "general"

// Product represents a catalog entry. Products are never hard-deleted;
// IsActive=false hides them while keeping historical order items resolvable.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category      string          `gorm:"size:50;not null;index" json:"category"`
	ImageURL      string          `gorm:"size:200" json:"image_url"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	IsFeatured    bool            `gorm:"not null;default:false" json:"is_featured"`
	IsActive      bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
