package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/storefront/pkg/common"
)

// Repository handles order data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new orders repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const orderColumns = `id, user_id, guest_email, guest_phone, customer_name,
	       total_amount, status, created_at, updated_at, cancelled_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.GuestEmail,
		&o.GuestPhone,
		&o.CustomerName,
		&o.TotalAmount,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new order
func (r *Repository) Create(ctx context.Context, order *Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, guest_email, guest_phone, customer_name,
		                    total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, order.ID, order.UserID, order.GuestEmail, order.GuestPhone,
		order.CustomerName, order.TotalAmount, order.Status,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id))
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("order not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListByOwner returns the caller's orders, newest first.
func (r *Repository) ListByOwner(ctx context.Context, identity Identity, limit, offset int) ([]*Order, int64, error) {
	const ownerFilter = `(user_id = $1 OR ($1 IS NULL AND guest_email IS NOT NULL AND LOWER(guest_email) = LOWER($2)))`

	var email *string
	if identity.Email != "" {
		email = &identity.Email
	}

	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders WHERE `+ownerFilter, identity.UserID, email).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE `+ownerFilter+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, identity.UserID, email, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var result []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// TransitionStatus applies a conditional status update. The WHERE clause
// is the guard: a concurrent transition that commits first leaves this
// one matching zero rows.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error) {
	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}

	now := time.Now().UTC()
	var cancelledAt *time.Time
	if to == StatusCancelled {
		cancelledAt = &now
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3,
		    cancelled_at = COALESCE($4, cancelled_at)
		WHERE id = $1 AND status = ANY($5)
	`, id, to, now, cancelledAt, fromStrings)
	if err != nil {
		return false, fmt.Errorf("failed to transition order status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
