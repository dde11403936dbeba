package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
	"github.com/kendall-kelly/petnic-studio-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminRouter(db *gorm.DB, events services.EventPublisher) *gin.Engine {
	admin := NewAdminController(services.NewAdminService(db))
	orders := NewOrderController(services.NewOrderService(db, events, nil))

	router := setupTestRouter()
	router.GET("/admin/dashboard", admin.Dashboard)
	router.GET("/admin/users", admin.ListUsers)
	router.GET("/admin/users/:id", admin.GetUser)
	router.PUT("/admin/users/:id", admin.UpdateUser)
	router.GET("/admin/orders", orders.AdminList)
	router.PUT("/admin/orders/:id/status", orders.UpdateStatus)
	return router
}

func createOrder(t *testing.T, db *gorm.DB, user *models.User, total, status string) *models.Order {
	t.Helper()
	order := models.Order{
		UserID:          user.ID,
		TotalAmount:     decimal.RequireFromString(total),
		Status:          status,
		ShippingAddress: "1 Bark Lane",
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestAdminDashboard(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "shopper", false)
	testutil.CreateUser(t, db, "admin", true)
	testutil.CreateProduct(t, db, "Pet Mug", "10.00")
	createOrder(t, db, user, "20.50", models.OrderStatusPending)
	createOrder(t, db, user, "10.25", models.OrderStatusShipped)

	w := performJSON(setupAdminRouter(db, services.NoopPublisher{}), http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decodeObject(t, w)
	stats := response["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_users"])
	assert.Equal(t, float64(1), stats["total_products"])
	assert.Equal(t, float64(2), stats["total_orders"])
	assert.Equal(t, float64(1), stats["pending_orders"])
	assert.Equal(t, 30.75, stats["recent_revenue"])
	assert.Len(t, response["recent_orders"], 2)
}

func TestAdminUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "alice", false)
	bob := testutil.CreateUser(t, db, "bob", false)
	router := setupAdminRouter(db, services.NoopPublisher{})

	w := performJSON(router, http.MethodGet, "/admin/users?search=bo&per_page=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeObject(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(5), page["per_page"])
	users := page["users"].([]interface{})
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].(map[string]interface{})["username"])
	assert.NotContains(t, users[0], "password_hash")

	userPath := fmt.Sprintf("/admin/users/%d", bob.ID)
	w = performJSON(router, http.MethodPut, userPath, map[string]interface{}{"is_admin": true, "first_name": "Robert"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeObject(t, w)
	assert.Equal(t, true, updated["is_admin"])
	assert.Equal(t, "Robert", updated["first_name"])

	w = performJSON(router, http.MethodGet, userPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeObject(t, w)["is_admin"])

	w = performJSON(router, http.MethodGet, "/admin/users/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeObject(t, w)["error"])

	w = performJSON(router, http.MethodPut, userPath, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOrders(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "shopper", false)
	pending := createOrder(t, db, user, "20.00", models.OrderStatusPending)
	createOrder(t, db, user, "15.00", models.OrderStatusDelivered)
	events := &services.RecordingPublisher{}
	router := setupAdminRouter(db, events)

	w := performJSON(router, http.MethodGet, "/admin/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeObject(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Len(t, page["orders"], 1)

	statusPath := fmt.Sprintf("/admin/orders/%d/status", pending.ID)
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{"missing status", map[string]interface{}{}, http.StatusBadRequest, "Status is required"},
		{"unknown status", map[string]interface{}{"status": "lost"}, http.StatusBadRequest, "Invalid status"},
		{"valid transition", map[string]interface{}{"status": "shipped"}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPut, statusPath, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decodeObject(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
				return
			}
			assert.Equal(t, "shipped", response["status"])
		})
	}

	recorded := events.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, services.EventOrderStatusChanged, recorded[0].Type)

	w = performJSON(router, http.MethodPut, "/admin/orders/999/status", map[string]interface{}{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
