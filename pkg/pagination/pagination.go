package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/storefront/pkg/common"
)

const (
	// DefaultLimit is used when no limit query param is supplied
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request
	MaxLimit = 100
	// DefaultOffset is used when no offset query param is supplied
	DefaultOffset = 0
)

// Params holds parsed pagination parameters
type Params struct {
	Limit  int
	Offset int
}

// ParseParams extracts limit/offset query parameters with validation
func ParseParams(c *gin.Context) Params {
	params := Params{Limit: DefaultLimit, Offset: DefaultOffset}

	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			if v > MaxLimit {
				v = MaxLimit
			}
			params.Limit = v
		}
	}

	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			params.Offset = v
		}
	}

	return params
}

// BuildMeta constructs the pagination meta block for a list response
func BuildMeta(limit, offset int, total int64) *common.Meta {
	meta := &common.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
	if limit > 0 && total > 0 {
		meta.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return meta
}

// HasMore reports whether another page exists after the current one
func HasMore(offset, limit int, total int64) bool {
	return int64(offset+limit) < total
}

// GetCurrentPage converts an offset/limit pair into a 1-based page number
func GetCurrentPage(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
