package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body. Success responses carry data,
// failures carry a message and optionally field-level errors.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError points a validation failure at the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK writes a success envelope with data.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// OKMessage writes a success envelope with a message and optional data.
func OKMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope and aborts the request.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// FailValidation writes a 400 failure envelope with field errors.
func FailValidation(c *gin.Context, message string, fieldErrors []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}
