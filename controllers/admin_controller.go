package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// AdminController handles the dashboard and user management
type AdminController struct {
	admin *services.AdminService
}

// NewAdminController creates an admin controller
func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

// Dashboard handles GET /api/admin/dashboard
func (a *AdminController) Dashboard(c *gin.Context) {
	dash, err := a.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_users":    dash.Stats.TotalUsers,
			"total_products": dash.Stats.TotalProducts,
			"total_orders":   dash.Stats.TotalOrders,
			"pending_orders": dash.Stats.PendingOrders,
			"recent_revenue": dash.Stats.RecentRevenue.InexactFloat64(),
		},
		"recent_orders": models.NewOrderResponses(dash.RecentOrders),
	})
}

// ListUsers handles GET /api/admin/users?page=&per_page=&search=
func (a *AdminController) ListUsers(c *gin.Context) {
	page, err := a.admin.ListUsers(c.Request.Context(), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("users", page, models.NewUserResponses(page.Items)))
}

// GetUser handles GET /api/admin/users/:id
func (a *AdminController) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := a.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(*user))
}

// UpdateUser handles PUT /api/admin/users/:id
func (a *AdminController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch services.UserPatch
	if !bindJSON(c, &patch) {
		return
	}
	user, err := a.admin.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(*user))
}
