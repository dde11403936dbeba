package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/metrics"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventTimeout bounds how long a post-commit publish may hold a request
const eventTimeout = 3 * time.Second

// AdminOrderQuery filters the admin order listing
type AdminOrderQuery struct {
	PageRequest
	Status string
}

// OrderService turns carts into orders and tracks their status
type OrderService struct {
	db      *gorm.DB
	events  EventPublisher
	metrics *metrics.Metrics
}

// NewOrderService creates an order service. events and m may be nil.
func NewOrderService(db *gorm.DB, events EventPublisher, m *metrics.Metrics) *OrderService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &OrderService{db: db, events: events, metrics: m}
}

// Checkout converts the user's cart into a pending order. The order, its
// items and the cart deletion are committed together or not at all. Totals
// and item prices use the product prices at the moment of checkout.
func (s *OrderService) Checkout(ctx context.Context, user *models.User, shippingAddress string) (*models.Order, error) {
	if user == nil {
		return nil, unauthenticatedError("Authentication required")
	}
	address := strings.TrimSpace(shippingAddress)
	if address == "" {
		return nil, validationError("Shipping address is required")
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	var cart []models.CartItem
	if err := tx.Preload("Product").Where("user_id = ?", user.ID).Order("id ASC").Find(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, validationError("Cart is empty")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		if line.Product == nil || !line.Product.IsActive {
			return nil, validationError("Product %d is no longer available", line.ProductID)
		}
		price := line.Product.Price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			Price:          price,
			CustomImageURL: line.CustomImageURL,
			CustomText:     line.CustomText,
		})
	}

	order := models.Order{
		UserID:          user.ID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
	}
	if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	committed = true

	logging.FromContext(ctx).Info("order placed",
		"order_id", order.ID,
		"user_id", user.ID,
		"items", len(items),
		"total", total.StringFixed(2),
	)
	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
	}

	placed, err := s.load(ctx, s.db.WithContext(ctx), order.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, NewOrderEvent(EventOrderPlaced, placed, ""))
	return placed, nil
}

// ListForUser returns the user's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, user *models.User) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := s.db.WithContext(ctx).
		Preload("OrderItems.Product").
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetForUser returns one of the user's orders. Orders of other users are
// reported as missing.
func (s *OrderService) GetForUser(ctx context.Context, user *models.User, orderID uint) (*models.Order, error) {
	return s.load(ctx, s.db.WithContext(ctx).Where("user_id = ?", user.ID), orderID)
}

// AdminList pages through all orders, newest first, optionally by status
func (s *OrderService) AdminList(ctx context.Context, q AdminOrderQuery) (Page[models.Order], error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Preload("OrderItems.Product")
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	page, err := paginate[models.Order](query, q.PageRequest, "created_at DESC, id DESC")
	if err != nil {
		return Page[models.Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return page, nil
}

// UpdateStatus moves an order to any status in the vocabulary
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if status == "" {
		return nil, validationError("Status is required")
	}
	if !models.IsValidOrderStatus(status) {
		return nil, validationError("Invalid status")
	}

	order, err := s.load(ctx, s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	updated, err := s.load(ctx, s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("order status changed", "order_id", orderID, "from", previous, "to", status)
	if previous != status {
		s.publish(ctx, NewOrderEvent(EventOrderStatusChanged, updated, previous))
	}
	return updated, nil
}

func (s *OrderService) load(ctx context.Context, query *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := query.Preload("OrderItems.Product").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// publish delivers an event on a detached, bounded context. Failures are
// logged and never reach the caller: the order is already committed.
func (s *OrderService) publish(ctx context.Context, event OrderEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()
	if err := s.events.PublishOrderEvent(pubCtx, event); err != nil {
		logging.FromContext(ctx).Warn("failed to publish order event",
			"type", event.Type,
			"order_id", event.OrderID,
			"error", err,
		)
	}
}
