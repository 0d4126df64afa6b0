package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/richxcame/storefront/internal/trust"
)

// RepositoryInterface defines the interface for order repository operations
type RepositoryInterface interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByOwner(ctx context.Context, identity Identity, limit, offset int) ([]*Order, int64, error)

	// TransitionStatus moves an order from any of the expected statuses to
	// the target status. Returns false when the order was not in an
	// expected status, so concurrent transitions lose cleanly.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error)
}

// ScoreEventSink receives order outcomes for trust scoring.
type ScoreEventSink interface {
	HandleEvent(ctx context.Context, event *trust.ScoreEvent) (*trust.CustomerScore, error)
}
