package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/middleware"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// UpdateOrderStatusRequest is the body of PUT /api/admin/orders/:id/status
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderController handles order history and admin order management
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates an order controller
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// List handles GET /api/orders - the current user's orders, newest first
func (o *OrderController) List(c *gin.Context) {
	orders, err := o.orders.ListForUser(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponses(orders))
}

// Get handles GET /api/orders/:id
func (o *OrderController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := o.orders.GetForUser(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(*order))
}

// AdminList handles GET /api/admin/orders?page=&per_page=&status=
func (o *OrderController) AdminList(c *gin.Context) {
	page, err := o.orders.AdminList(c.Request.Context(), services.AdminOrderQuery{
		PageRequest: pageRequest(c),
		Status:      c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("orders", page, models.NewOrderResponses(page.Items)))
}

// UpdateStatus handles PUT /api/admin/orders/:id/status
func (o *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := o.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(*order))
}
