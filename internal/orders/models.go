package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the order lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

// Order is a customer purchase
type Order struct {
	ID           uuid.UUID  `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	GuestEmail   *string    `json:"guest_email,omitempty"`
	GuestPhone   string     `json:"guest_phone"`
	CustomerName string     `json:"customer_name"`
	TotalAmount  float64    `json:"total_amount"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

// PlaceOrderRequest creates a new order. Guest checkout passes email in
// place of an authenticated user.
type PlaceOrderRequest struct {
	GuestEmail   string  `json:"guest_email" validate:"omitempty,email"`
	GuestPhone   string  `json:"guest_phone" validate:"required"`
	CustomerName string  `json:"customer_name" validate:"required,min=1,max=200"`
	TotalAmount  float64 `json:"total_amount" validate:"required,gt=0"`
}

// Identity is who is acting on an order: an authenticated user, a guest
// identified by email, or an admin.
type Identity struct {
	UserID *uuid.UUID
	Email  string
	Admin  bool
}

// Anonymous reports whether the caller presented no identity at all:
// no authenticated user, no guest email, no admin role.
func (id Identity) Anonymous() bool {
	return id.UserID == nil && id.Email == "" && !id.Admin
}

// Owns reports whether this identity owns the order. Guests match on
// email, case-insensitively.
func (id Identity) Owns(order *Order) bool {
	if id.UserID != nil && order.UserID != nil && *id.UserID == *order.UserID {
		return true
	}
	if id.Email != "" && order.GuestEmail != nil && strings.EqualFold(id.Email, *order.GuestEmail) {
		return true
	}
	return false
}
