package orders

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richxcame/storefront/pkg/common"
	"github.com/richxcame/storefront/pkg/middleware"
	"github.com/richxcame/storefront/pkg/pagination"
)

// Handler handles HTTP requests for orders
type Handler struct {
	service *Service
}

// NewHandler creates a new orders handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// identityFromContext builds the caller's identity from the auth
// middleware. Unauthenticated guests identify by the email they pass with
// the request.
func identityFromContext(c *gin.Context, guestEmail string) Identity {
	identity := Identity{
		Email: guestEmail,
		Admin: middleware.GetUserRole(c) == middleware.RoleAdmin,
	}
	if userID, err := middleware.GetUserID(c); err == nil {
		identity.UserID = &userID
		if email := middleware.GetUserEmail(c); email != "" {
			identity.Email = email
		}
	}
	return identity
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}

// Place creates a new order
// POST /api/v1/orders
func (h *Handler) Place(c *gin.Context) {
	var req PlaceOrderRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	identity := identityFromContext(c, req.GuestEmail)

	order, err := h.service.Place(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err, "failed to place order")
		return
	}

	common.CreatedResponse(c, order)
}

// Get returns a single order to its owner
// GET /api/v1/orders/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid order id", err))
		return
	}

	order, err := h.service.Get(c.Request.Context(), id, identityFromContext(c, c.Query("guest_email")))
	if err != nil {
		respondError(c, err, "failed to get order")
		return
	}

	common.SuccessResponse(c, order)
}

// List returns the caller's orders
// GET /api/v1/orders
func (h *Handler) List(c *gin.Context) {
	params := pagination.ParseParams(c)

	result, total, err := h.service.List(c.Request.Context(), identityFromContext(c, c.Query("guest_email")), params)
	if err != nil {
		respondError(c, err, "failed to list orders")
		return
	}

	common.SuccessResponseWithMeta(c, result, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// Cancel cancels a pending order
// POST /api/v1/orders/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid order id", err))
		return
	}

	var req struct {
		GuestEmail string `json:"guest_email"`
	}
	// body is optional for authenticated callers
	_ = c.ShouldBindJSON(&req)

	order, err := h.service.Cancel(c.Request.Context(), id, identityFromContext(c, req.GuestEmail))
	if err != nil {
		respondError(c, err, "failed to cancel order")
		return
	}

	common.SuccessResponse(c, order)
}

// MarkFulfilled marks an order as fulfilled (admin)
// POST /api/v1/admin/orders/:id/fulfill
func (h *Handler) MarkFulfilled(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid order id", err))
		return
	}

	order, err := h.service.MarkFulfilled(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fulfill order")
		return
	}

	common.SuccessResponse(c, order)
}
