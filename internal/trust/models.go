package trust

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies what happened to an order
type EventKind string

const (
	EventOrderPlaced    EventKind = "ORDER_PLACED"
	EventOrderFulfilled EventKind = "ORDER_FULFILLED"
	// EventOrderCancelledOrReturned covers both customer cancellations and
	// post-delivery returns; both count against the customer the same way.
	EventOrderCancelledOrReturned EventKind = "ORDER_CANCELLED_OR_RETURNED"
)

// Valid reports whether the event kind is one the engine understands.
func (e EventKind) Valid() bool {
	switch e {
	case EventOrderPlaced, EventOrderFulfilled, EventOrderCancelledOrReturned:
		return true
	}
	return false
}

// Status is the trust tier derived from the score
type Status string

const (
	StatusGood        Status = "good"
	StatusWarning     Status = "warning"
	StatusWatch       Status = "watch"
	StatusBlacklisted Status = "blacklisted"
)

const (
	// InitialScore is assigned to customers with no history
	InitialScore = 100
	// MinScore and MaxScore bound the trust score
	MinScore = 0
	MaxScore = 100
)

// CustomerScore is the per-phone trust record
type CustomerScore struct {
	Phone            string    `json:"phone"`
	Name             string    `json:"name,omitempty"`
	TrustScore       int       `json:"trust_score"`
	TotalOrders      int       `json:"total_orders"`
	TotalReturns     int       `json:"total_returns"`
	SuccessfulOrders int       `json:"successful_orders"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HistoryEntry is one immutable row of the score ledger
type HistoryEntry struct {
	ID              uuid.UUID  `json:"id"`
	Seq             int64      `json:"seq"`
	CustomerPhone   string     `json:"customer_phone"`
	OrderID         *uuid.UUID `json:"order_id,omitempty"`
	Event           EventKind  `json:"event"`
	Delta           int        `json:"delta"`
	ResultingScore  int        `json:"resulting_score"`
	ResultingStatus Status     `json:"resulting_status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ScoreEvent describes one order outcome to apply to a customer's score
type ScoreEvent struct {
	Phone   string
	Name    string
	Kind    EventKind
	OrderID *uuid.UUID
}

// ScoreDetails is the admin view of a customer: score plus recent ledger
type ScoreDetails struct {
	Score   *CustomerScore  `json:"score"`
	History []*HistoryEntry `json:"history"`
}

// SuspiciousCustomer is one row of the suspicious-customer view
type SuspiciousCustomer struct {
	*CustomerScore
	RecentReturns []*HistoryEntry `json:"recent_returns"`
}
