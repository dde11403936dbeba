package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/middleware"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// AddToCartRequest is the body of POST /api/cart. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID      uint   `json:"product_id"`
	Quantity       *int   `json:"quantity"`
	CustomImageURL string `json:"custom_image_url"`
	CustomText     string `json:"custom_text"`
}

// CheckoutRequest is the body of POST /api/checkout
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

// CartController handles the current user's cart and checkout
type CartController struct {
	cart   *services.CartService
	orders *services.OrderService
}

// NewCartController creates a cart controller
func NewCartController(cart *services.CartService, orders *services.OrderService) *CartController {
	return &CartController{cart: cart, orders: orders}
}

// Get handles GET /api/cart
func (cc *CartController) Get(c *gin.Context) {
	items, err := cc.cart.Get(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewCartItemResponses(items))
}

// Add handles POST /api/cart
func (cc *CartController) Add(c *gin.Context) {
	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := cc.cart.Add(c.Request.Context(), middleware.CurrentUser(c), services.AddToCartInput{
		ProductID:      req.ProductID,
		Quantity:       quantity,
		CustomImageURL: req.CustomImageURL,
		CustomText:     req.CustomText,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewCartItemResponse(*item))
}

// Update handles PUT /api/cart/:id
func (cc *CartController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.UpdateCartItemInput
	if !bindJSON(c, &input) {
		return
	}

	item, removed, err := cc.cart.Update(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	if removed {
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, models.NewCartItemResponse(*item))
}

// Remove handles DELETE /api/cart/:id
func (cc *CartController) Remove(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := cc.cart.Remove(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// Clear handles DELETE /api/cart/clear
func (cc *CartController) Clear(c *gin.Context) {
	if err := cc.cart.Clear(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Checkout handles POST /api/checkout
func (cc *CartController) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := cc.orders.Checkout(c.Request.Context(), middleware.CurrentUser(c), req.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   models.NewOrderResponse(*order),
	})
}
