package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response types are the wire shapes returned to clients. They are built by
// explicit mapping so internal columns (password hashes) cannot leak through
// a generic serializer.

// UserResponse is the public view of a User
type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ProductResponse is the public view of a Product
type ProductResponse struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	Category      string     `json:"category"`
	ImageURL      string     `json:"image_url"`
	StockQuantity int        `json:"stock_quantity"`
	IsFeatured    bool       `json:"is_featured"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// CartItemResponse is a cart line with its product snapshot
type CartItemResponse struct {
	ID             uint             `json:"id"`
	UserID         uint             `json:"user_id"`
	ProductID      uint             `json:"product_id"`
	Quantity       int              `json:"quantity"`
	CustomImageURL string           `json:"custom_image_url"`
	CustomText     string           `json:"custom_text"`
	CreatedAt      *time.Time       `json:"created_at"`
	Product        *ProductResponse `json:"product"`
}

// OrderItemResponse is the public view of an OrderItem
type OrderItemResponse struct {
	ID             uint             `json:"id"`
	OrderID        uint             `json:"order_id"`
	ProductID      uint             `json:"product_id"`
	Quantity       int              `json:"quantity"`
	Price          float64          `json:"price"`
	CustomImageURL string           `json:"custom_image_url"`
	CustomText     string           `json:"custom_text"`
	Product        *ProductResponse `json:"product"`
}

// OrderResponse is the public view of an Order with its items
type OrderResponse struct {
	ID              uint                `json:"id"`
	UserID          uint                `json:"user_id"`
	TotalAmount     float64             `json:"total_amount"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	CreatedAt       *time.Time          `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at"`
	OrderItems      []OrderItemResponse `json:"order_items"`
}

// NewUserResponse maps a User to its wire shape
func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: timePtr(u.CreatedAt),
		UpdatedAt: timePtr(u.UpdatedAt),
	}
}

// NewUserResponses maps a slice of users
func NewUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// NewProductResponse maps a Product to its wire shape
func NewProductResponse(p Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         money(p.Price),
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		IsFeatured:    p.IsFeatured,
		IsActive:      p.IsActive,
		CreatedAt:     timePtr(p.CreatedAt),
		UpdatedAt:     timePtr(p.UpdatedAt),
	}
}

// NewProductResponses maps a slice of products
func NewProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

// NewCartItemResponse maps a CartItem to its wire shape
func NewCartItemResponse(item CartItem) CartItemResponse {
	return CartItemResponse{
		ID:             item.ID,
		UserID:         item.UserID,
		ProductID:      item.ProductID,
		Quantity:       item.Quantity,
		CustomImageURL: item.CustomImageURL,
		CustomText:     item.CustomText,
		CreatedAt:      timePtr(item.CreatedAt),
		Product:        productPtr(item.Product),
	}
}

// NewCartItemResponses maps a slice of cart items
func NewCartItemResponses(items []CartItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewCartItemResponse(item))
	}
	return out
}

// NewOrderResponse maps an Order and its items to the wire shape
func NewOrderResponse(o Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		items = append(items, OrderItemResponse{
			ID:             item.ID,
			OrderID:        item.OrderID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			Price:          money(item.Price),
			CustomImageURL: item.CustomImageURL,
			CustomText:     item.CustomText,
			Product:        productPtr(item.Product),
		})
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     money(o.TotalAmount),
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       timePtr(o.CreatedAt),
		UpdatedAt:       timePtr(o.UpdatedAt),
		OrderItems:      items,
	}
}

// NewOrderResponses maps a slice of orders
func NewOrderResponses(orders []Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func productPtr(p *Product) *ProductResponse {
	if p == nil {
		return nil
	}
	r := NewProductResponse(*p)
	return &r
}
