package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/petnic-studio-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxCartQuantity is the largest quantity a single cart line may hold
const MaxCartQuantity = 999

// AddToCartInput is the payload of an add-to-cart request
type AddToCartInput struct {
	ProductID      uint
	Quantity       int
	CustomImageURL string
	CustomText     string
}

// UpdateCartItemInput is a partial cart line update. Nil fields are absent.
type UpdateCartItemInput struct {
	Quantity       *int    `json:"quantity"`
	CustomImageURL *string `json:"custom_image_url"`
	CustomText     *string `json:"custom_text"`
}

// CartService manages per-user carts
type CartService struct {
	db *gorm.DB
}

// NewCartService creates a cart service on top of db
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Get returns the user's cart lines with their products loaded
func (s *CartService) Get(ctx context.Context, user *models.User) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// Add puts a product in the cart. Adding a product that is already there
// merges into the existing line: quantities add up and custom fields are
// only overwritten by non-empty values.
func (s *CartService) Add(ctx context.Context, user *models.User, input AddToCartInput) (*models.CartItem, error) {
	if input.ProductID == 0 {
		return nil, validationError("Product ID is required")
	}
	if input.Quantity < 1 {
		return nil, validationError("Quantity must be a positive integer")
	}
	if input.Quantity > MaxCartQuantity {
		return nil, validationError("Quantity cannot exceed %d", MaxCartQuantity)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !product.IsActive {
		return nil, notFoundError("Product not found")
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", user.ID, input.ProductID).
		First(&item).Error
	switch {
	case err == nil:
		if item.Quantity > MaxCartQuantity-input.Quantity {
			return nil, validationError("Quantity cannot exceed %d", MaxCartQuantity)
		}
		item.Quantity += input.Quantity
		if input.CustomImageURL != "" {
			item.CustomImageURL = input.CustomImageURL
		}
		if input.CustomText != "" {
			item.CustomText = input.CustomText
		}
		if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			UserID:         user.ID,
			ProductID:      input.ProductID,
			Quantity:       input.Quantity,
			CustomImageURL: input.CustomImageURL,
			CustomText:     input.CustomText,
		}
		if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	item.Product = &product
	return &item, nil
}

// Update changes a cart line owned by the user. A quantity of zero or less
// removes the line; removed reports whether that happened.
func (s *CartService) Update(ctx context.Context, user *models.User, itemID uint, input UpdateCartItemInput) (item *models.CartItem, removed bool, err error) {
	found, err := s.findOwned(ctx, user, itemID)
	if err != nil {
		return nil, false, err
	}
	if input == (UpdateCartItemInput{}) {
		return nil, false, validationError("No data provided")
	}

	if input.Quantity != nil && *input.Quantity <= 0 {
		if err := s.db.WithContext(ctx).Delete(found).Error; err != nil {
			return nil, false, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil, true, nil
	}
	if input.Quantity != nil && *input.Quantity > MaxCartQuantity {
		return nil, false, validationError("Quantity cannot exceed %d", MaxCartQuantity)
	}

	updates := map[string]interface{}{}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.CustomImageURL != nil {
		updates["custom_image_url"] = *input.CustomImageURL
	}
	if input.CustomText != nil {
		updates["custom_text"] = *input.CustomText
	}
	if err := s.db.WithContext(ctx).Model(found).Omit(clause.Associations).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("failed to update cart item: %w", err)
	}

	found, err = s.findOwned(ctx, user, itemID)
	if err != nil {
		return nil, false, err
	}
	return found, false, nil
}

// Remove deletes a cart line owned by the user. Removing a line that is
// not there is not an error.
func (s *CartService) Remove(ctx context.Context, user *models.User, itemID uint) error {
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, user.ID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *CartService) findOwned(ctx context.Context, user *models.User, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", itemID, user.ID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Cart item not found")
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}
