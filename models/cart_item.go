package models

import (
	"time"
)

// CartItem is a pending line in a user's cart. There is at most one row per
// (user, product); re-adding a product merges into the existing row.
type CartItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID      uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product        *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity       int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	CustomImageURL string    `gorm:"size:200" json:"custom_image_url"`
	CustomText     string    `gorm:"type:text" json:"custom_text"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}
