package trust

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/storefront/pkg/common"
)

// Repository handles trust score data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new trust repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const scoreColumns = `phone, name, trust_score, total_orders, total_returns,
	       successful_orders, status, created_at, updated_at`

func scanScore(row pgx.Row) (*CustomerScore, error) {
	var s CustomerScore
	err := row.Scan(
		&s.Phone,
		&s.Name,
		&s.TrustScore,
		&s.TotalOrders,
		&s.TotalReturns,
		&s.SuccessfulOrders,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyEvent applies one score event inside a single transaction. The
// customer row is locked for the duration, so concurrent events for the
// same phone serialize; events for different phones do not contend.
func (r *Repository) ApplyEvent(ctx context.Context, event *ScoreEvent, delta int) (*CustomerScore, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	// Get-or-create keeps the first event for a new phone race-free: both
	// racers pass the insert, then serialize on the row lock below.
	_, err = tx.Exec(ctx, `
		INSERT INTO customer_scores (phone, name, trust_score, total_orders, total_returns,
		                             successful_orders, status, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, $4, $5, $5)
		ON CONFLICT (phone) DO NOTHING
	`, event.Phone, event.Name, InitialScore, StatusGood, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure customer score: %w", err)
	}

	score, err := scanScore(tx.QueryRow(ctx, `
		SELECT `+scoreColumns+`
		FROM customer_scores
		WHERE phone = $1
		FOR UPDATE
	`, event.Phone))
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock customer score: %w", err)
	}

	// Idempotency: the same (order, kind) pair is applied at most once.
	if event.OrderID != nil {
		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM score_history
				WHERE order_id = $1 AND event = $2
			)
		`, *event.OrderID, event.Kind).Scan(&exists)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check event history: %w", err)
		}
		if exists {
			return score, false, nil
		}
	}

	score.TrustScore = ClampScore(score.TrustScore + delta)
	score.Status = Classify(score.TrustScore)
	score.UpdatedAt = now

	switch event.Kind {
	case EventOrderPlaced:
		score.TotalOrders++
	case EventOrderFulfilled:
		score.SuccessfulOrders++
	case EventOrderCancelledOrReturned:
		score.TotalReturns++
	}
	if event.Name != "" {
		score.Name = event.Name
	}

	_, err = tx.Exec(ctx, `
		UPDATE customer_scores
		SET name = $2, trust_score = $3, total_orders = $4, total_returns = $5,
		    successful_orders = $6, status = $7, updated_at = $8
		WHERE phone = $1
	`, score.Phone, score.Name, score.TrustScore, score.TotalOrders,
		score.TotalReturns, score.SuccessfulOrders, score.Status, score.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update customer score: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO score_history (id, customer_phone, order_id, event, delta,
		                           resulting_score, resulting_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New(), event.Phone, event.OrderID, event.Kind, delta,
		score.TrustScore, score.Status, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to append score history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit score event: %w", err)
	}

	return score, true, nil
}

// GetOrCreateScore returns the customer record, inserting the default
// record when the phone is new.
func (r *Repository) GetOrCreateScore(ctx context.Context, phone, name string) (*CustomerScore, error) {
	now := time.Now().UTC()
	score, err := scanScore(r.db.QueryRow(ctx, `
		INSERT INTO customer_scores (phone, name, trust_score, total_orders, total_returns,
		                             successful_orders, status, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, $4, $5, $5)
		ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING `+scoreColumns+`
	`, phone, name, InitialScore, StatusGood, now))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create customer score: %w", err)
	}
	return score, nil
}

// GetScore returns the customer record for a phone.
func (r *Repository) GetScore(ctx context.Context, phone string) (*CustomerScore, error) {
	score, err := scanScore(r.db.QueryRow(ctx, `
		SELECT `+scoreColumns+`
		FROM customer_scores
		WHERE phone = $1
	`, phone))
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("customer score not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer score: %w", err)
	}
	return score, nil
}

// ListHistory returns the ledger for a phone, newest first.
func (r *Repository) ListHistory(ctx context.Context, phone string, limit, offset int) ([]*HistoryEntry, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM score_history WHERE customer_phone = $1
	`, phone).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count score history: %w", err)
	}

	// seq, not created_at, fixes the order: timestamps come from whichever
	// replica handled the event and can collide.
	rows, err := r.db.Query(ctx, `
		SELECT id, seq, customer_phone, order_id, event, delta,
		       resulting_score, resulting_status, created_at
		FROM score_history
		WHERE customer_phone = $1
		ORDER BY seq DESC
		LIMIT $2 OFFSET $3
	`, phone, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list score history: %w", err)
	}
	defer rows.Close()

	entries, err := scanHistoryRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListByStatuses returns customers in any of the given tiers, worst first.
func (r *Repository) ListByStatuses(ctx context.Context, statuses []Status, limit, offset int) ([]*CustomerScore, int64, error) {
	statusStrings := make([]string, len(statuses))
	for i, status := range statuses {
		statusStrings[i] = string(status)
	}

	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM customer_scores WHERE status = ANY($1)
	`, statusStrings).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM customer_scores
		WHERE status = ANY($1)
		ORDER BY trust_score ASC, updated_at DESC
		LIMIT $2 OFFSET $3
	`, statusStrings, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var scores []*CustomerScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return scores, total, nil
}

// ListRecentReturns returns the newest cancel/return entries for a phone.
func (r *Repository) ListRecentReturns(ctx context.Context, phone string, limit int) ([]*HistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, seq, customer_phone, order_id, event, delta,
		       resulting_score, resulting_status, created_at
		FROM score_history
		WHERE customer_phone = $1 AND event = $2
		ORDER BY seq DESC
		LIMIT $3
	`, phone, EventOrderCancelledOrReturned, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent returns: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func scanHistoryRows(rows pgx.Rows) ([]*HistoryEntry, error) {
	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		err := rows.Scan(
			&e.ID,
			&e.Seq,
			&e.CustomerPhone,
			&e.OrderID,
			&e.Event,
			&e.Delta,
			&e.ResultingScore,
			&e.ResultingStatus,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
