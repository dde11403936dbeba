package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName(), "Table name should be 'users'")
	assert.Equal(t, "products", Product{}.TableName())
	assert.Equal(t, "cart_items", CartItem{}.TableName())
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_items", OrderItem{}.TableName())
	assert.Equal(t, "sessions", Session{}.TableName())
}

func TestUserResponseOmitsPasswordHash(t *testing.T) {
	user := User{
		ID:           3,
		Username:     "biscuit",
		Email:        "biscuit@example.com",
		PasswordHash: "$2a$10$secret",
		IsActive:     true,
	}

	raw, err := json.Marshal(NewUserResponse(user))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")

	raw, err = json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret", "the model itself must not serialize the hash either")
}

func TestOrderStatusValues(t *testing.T) {
	tests := []struct {
		status string
		valid  bool
	}{
		{"pending", true},
		{"processing", true},
		{"shipped", true},
		{"delivered", true},
		{"cancelled", true},
		{"refunded", false},
		{"PENDING", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidOrderStatus(tt.status))
		})
	}
}

func TestOrderResponseRendersMoneyAsNumbers(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := Order{
		ID:          9,
		UserID:      3,
		TotalAmount: decimal.RequireFromString("69.97"),
		Status:      OrderStatusPending,
		CreatedAt:   created,
		OrderItems: []OrderItem{{
			ID:       1,
			OrderID:  9,
			Quantity: 3,
			Price:    decimal.RequireFromString("19.99"),
			Product:  &Product{ID: 2, Name: "Pet Portrait Mug"},
		}},
	}

	resp := NewOrderResponse(order)
	assert.Equal(t, 69.97, resp.TotalAmount)
	require.Len(t, resp.OrderItems, 1)
	assert.Equal(t, 19.99, resp.OrderItems[0].Price)
	assert.Equal(t, "Pet Portrait Mug", resp.OrderItems[0].Product.Name)
	assert.Nil(t, resp.UpdatedAt, "zero timestamps render as null")
	assert.Equal(t, created, *resp.CreatedAt)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}
