package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is page-number pagination parsed from query parameters.
type Pagination struct {
	Page  int
	Limit int
}

// GetPaginationFromQuery parses page and limit with defaults, rejecting
// page < 1 and limit outside [1, 100].
func GetPaginationFromQuery(reqCtx *gin.Context) (*Pagination, error) {
	pageStr := reqCtx.DefaultQuery("page", "1")
	limitStr := reqCtx.DefaultQuery("limit", strconv.Itoa(DefaultPageSize))

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "page must be a positive integer", nil, "")
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > MaxPageSize {
		return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "limit must be between 1 and 100", nil, "")
	}

	return &Pagination{Page: page, Limit: limit}, nil
}
