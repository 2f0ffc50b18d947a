package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zelican/chat-api/internal/infrastructure/logger"
	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

// HandleError maps a platform error onto an HTTP status and writes the
// failure envelope. Unknown errors become opaque 500s.
func HandleError(c *gin.Context, err error, fallbackMessage string) {
	log := logger.GetLogger()

	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		platformerrors.LogError(log, platformErr)

		message := platformErr.Message
		if message == "" {
			message = fallbackMessage
		}
		status := platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType())
		if status == http.StatusInternalServerError {
			// Internal detail stays in the logs.
			message = fallbackMessage
		}
		Fail(c, status, message)
		return
	}

	log.Error().Err(err).Msg(fallbackMessage)
	Fail(c, http.StatusInternalServerError, fallbackMessage)
}

// HandleNewError creates a typed error at the route layer and handles it.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, "")
	HandleError(c, err, message)
}
