package trust

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/richxcame/storefront/pkg/common"
	"github.com/richxcame/storefront/pkg/pagination"
)

// Handler handles HTTP requests for the trust score admin surface
type Handler struct {
	service *Service
}

// NewHandler creates a new trust handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetScore returns a customer's score with their newest ledger entries
// GET /api/v1/admin/trust/scores/:phone
func (h *Handler) GetScore(c *gin.Context) {
	details, err := h.service.GetScore(c.Request.Context(), c.Param("phone"))
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get customer score")
		return
	}

	common.SuccessResponse(c, details)
}

// GetHistory returns a customer's full score ledger
// GET /api/v1/admin/trust/scores/:phone/history
func (h *Handler) GetHistory(c *gin.Context) {
	params := pagination.ParseParams(c)

	entries, total, err := h.service.GetHistory(c.Request.Context(), c.Param("phone"), params)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get score history")
		return
	}

	common.SuccessResponseWithMeta(c, entries, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ListSuspicious returns customers at or below the requested trust tier
// GET /api/v1/admin/trust/suspicious?min_tier=warning
func (h *Handler) ListSuspicious(c *gin.Context) {
	params := pagination.ParseParams(c)
	minTier := c.DefaultQuery("min_tier", string(StatusWarning))

	customers, total, err := h.service.ListSuspicious(c.Request.Context(), minTier, params)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list suspicious customers")
		return
	}

	common.SuccessResponseWithMeta(c, customers, pagination.BuildMeta(params.Limit, params.Offset, total))
}
