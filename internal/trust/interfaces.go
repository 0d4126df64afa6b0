package trust

import (
	"context"
)

// RepositoryInterface defines the interface for trust repository operations
type RepositoryInterface interface {
	// ApplyEvent atomically applies a score event: get-or-create the
	// customer row, adjust the score and counters, derive the status and
	// append the ledger entry in a single transaction. Returns the
	// resulting record and whether the event was applied (false means the
	// (order, kind) pair was seen before and nothing changed).
	ApplyEvent(ctx context.Context, event *ScoreEvent, delta int) (*CustomerScore, bool, error)

	// GetOrCreateScore returns the customer's record, creating it with
	// defaults when the phone has no history.
	GetOrCreateScore(ctx context.Context, phone, name string) (*CustomerScore, error)

	// GetScore returns the customer's record, or a NotFound AppError.
	GetScore(ctx context.Context, phone string) (*CustomerScore, error)

	// ListHistory returns ledger entries for a phone, newest first.
	ListHistory(ctx context.Context, phone string, limit, offset int) ([]*HistoryEntry, int64, error)

	// ListByStatuses returns customers in any of the given tiers, worst
	// score first, with the total count for pagination.
	ListByStatuses(ctx context.Context, statuses []Status, limit, offset int) ([]*CustomerScore, int64, error)

	// ListRecentReturns returns the newest cancel/return ledger entries
	// for a phone, capped at limit.
	ListRecentReturns(ctx context.Context, phone string, limit int) ([]*HistoryEntry, error)
}
