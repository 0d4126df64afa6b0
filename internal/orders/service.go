package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/storefront/internal/trust"
	"github.com/richxcame/storefront/pkg/common"
	"github.com/richxcame/storefront/pkg/logger"
	"github.com/richxcame/storefront/pkg/pagination"
)

// Service handles the order lifecycle and feeds outcomes to the trust
// engine.
type Service struct {
	repo  RepositoryInterface
	trust ScoreEventSink
}

// NewService creates a new orders service
func NewService(repo RepositoryInterface, trustSink ScoreEventSink) *Service {
	return &Service{repo: repo, trust: trustSink}
}

// Place creates a pending order and records the placement with the trust
// engine.
func (s *Service) Place(ctx context.Context, identity Identity, req *PlaceOrderRequest) (*Order, error) {
	phone, err := trust.NormalizePhone(req.GuestPhone)
	if err != nil {
		return nil, err
	}
	if identity.UserID == nil && req.GuestEmail == "" {
		return nil, common.NewBadRequestError("guest orders require guest_email", nil)
	}

	now := time.Now().UTC()
	order := &Order{
		ID:           uuid.New(),
		UserID:       identity.UserID,
		GuestPhone:   phone,
		CustomerName: req.CustomerName,
		TotalAmount:  req.TotalAmount,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.GuestEmail != "" {
		order.GuestEmail = &req.GuestEmail
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, order, trust.EventOrderPlaced)

	return order, nil
}

// Get returns an order to its owner (or an admin).
func (s *Service) Get(ctx context.Context, id uuid.UUID, identity Identity) (*Order, error) {
	if identity.Anonymous() {
		return nil, common.NewUnauthorizedError("authentication or guest email required")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.Admin && !identity.Owns(order) {
		return nil, common.NewForbiddenError("you do not have access to this order")
	}
	return order, nil
}

// List returns the caller's orders, newest first.
func (s *Service) List(ctx context.Context, identity Identity, params pagination.Params) ([]*Order, int64, error) {
	if identity.Anonymous() {
		return nil, 0, common.NewUnauthorizedError("authentication or guest email required")
	}
	result, total, err := s.repo.ListByOwner(ctx, identity, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	if result == nil {
		result = []*Order{}
	}
	return result, total, nil
}

// Cancel cancels a pending order on behalf of its owner. The state guard
// is enforced twice: here for a clean error, and in the conditional
// update for concurrent cancellations.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, identity Identity) (*Order, error) {
	if identity.Anonymous() {
		return nil, common.NewUnauthorizedError("authentication or guest email required")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.Admin && !identity.Owns(order) {
		return nil, common.NewForbiddenError("you do not have access to this order")
	}
	if order.Status != StatusPending {
		return nil, common.NewConflictError("only pending orders can be cancelled")
	}

	ok, err := s.repo.TransitionStatus(ctx, id, []Status{StatusPending}, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the race: someone else moved the order first
		return nil, common.NewConflictError("only pending orders can be cancelled")
	}

	order, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitEvent(ctx, order, trust.EventOrderCancelledOrReturned)

	return order, nil
}

// MarkFulfilled transitions a pending or paid order to fulfilled and
// credits the customer's trust score. Admin only; there is no implicit
// fulfillment timer.
func (s *Service) MarkFulfilled(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusPending && order.Status != StatusPaid {
		return nil, common.NewConflictError("only pending or paid orders can be fulfilled")
	}

	ok, err := s.repo.TransitionStatus(ctx, id, []Status{StatusPending, StatusPaid}, StatusFulfilled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewConflictError("only pending or paid orders can be fulfilled")
	}

	order, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitEvent(ctx, order, trust.EventOrderFulfilled)

	return order, nil
}

// emitEvent hands the order outcome to the trust engine. Scoring failures
// are logged, not surfaced: the order state is already committed, and the
// (order, event) idempotency key lets a later replay re-apply safely.
func (s *Service) emitEvent(ctx context.Context, order *Order, kind trust.EventKind) {
	orderID := order.ID
	_, err := s.trust.HandleEvent(ctx, &trust.ScoreEvent{
		Phone:   order.GuestPhone,
		Name:    order.CustomerName,
		Kind:    kind,
		OrderID: &orderID,
	})
	if err != nil {
		logger.WithContext(ctx).Error("failed to apply score event",
			zap.String("order_id", order.ID.String()),
			zap.String("event", string(kind)),
			zap.Error(err))
	}
}
