package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	revenueWindow    = 30 * 24 * time.Hour
	recentOrderLimit = 5
)

// DashboardStats are the aggregate counters of the admin dashboard
type DashboardStats struct {
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	PendingOrders int64           `json:"pending_orders"`
	RecentRevenue decimal.Decimal `json:"recent_revenue"`
}

// Dashboard is the admin overview
type Dashboard struct {
	Stats        DashboardStats
	RecentOrders []models.Order
}

// UserPatch lists the user fields an administrator may change
type UserPatch struct {
	IsAdmin   *bool   `json:"is_admin"`
	IsActive  *bool   `json:"is_active"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// AdminService backs the admin dashboard and user management
type AdminService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAdminService creates an admin service on top of db
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db, now: time.Now}
}

// Dashboard computes counts, the revenue of the last 30 days and the five
// most recent orders.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	since := s.now().UTC().Add(-revenueWindow)
	var revenue decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("created_at >= ?", since).
		Row().Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.RecentRevenue = decimal.Zero
	if revenue.Valid {
		stats.RecentRevenue = revenue.Decimal.Round(2)
	}

	recent := make([]models.Order, 0, recentOrderLimit)
	err = db.Preload("OrderItems.Product").
		Order("created_at DESC, id DESC").
		Limit(recentOrderLimit).
		Find(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	return &Dashboard{Stats: stats, RecentOrders: recent}, nil
}

// ListUsers pages through users with optional substring search over
// username, email and names.
func (s *AdminService) ListUsers(ctx context.Context, req PageRequest) (Page[models.User], error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if req.Search != "" {
		pattern := containsPattern(req.Search)
		query = query.Where(
			fmt.Sprintf(likeClause+" OR "+likeClause+" OR "+likeClause+" OR "+likeClause,
				"username", "email", "first_name", "last_name"),
			pattern, pattern, pattern, pattern,
		)
	}
	page, err := paginate[models.User](query, req, "id ASC")
	if err != nil {
		return Page[models.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// GetUser loads a user by id
func (s *AdminService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateUser applies an admin patch to a user
func (s *AdminService) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch == (UserPatch{}) {
		return nil, validationError("No data provided")
	}

	updates := map[string]interface{}{}
	if patch.IsAdmin != nil {
		updates["is_admin"] = *patch.IsAdmin
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUser(ctx, id)
}
