package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds carried in the "error" field of every error payload.
const (
	KindValidation   = "VALIDATION"
	KindUnauthorized = "UNAUTHORIZED"
	KindForbidden    = "FORBIDDEN"
	KindNotFound     = "NOT_FOUND"
	KindConflict     = "CONFLICT"
	KindTimeout      = "TIMEOUT"
	KindInternal     = "INTERNAL"
)

// APIError is the wire representation of every error response.
type APIError struct {
	Kind    string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError.
func NewAPIError(kind, message string) *APIError {
	return &APIError{
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION error naming the offending fields.
func NewValidationError(message string, fields ...string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
	}
}

// RespondWithError sends an error response.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message string, fields ...string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewValidationError(message, fields...))
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(KindUnauthorized, message))
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(KindForbidden, message))
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(KindNotFound, message))
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(KindConflict, message))
}

// Timeout sends a 504 response.
func Timeout(c *gin.Context, message string) {
	if message == "" {
		message = "Request deadline exceeded"
	}
	RespondWithError(c, http.StatusGatewayTimeout, NewAPIError(KindTimeout, message))
}

// InternalError sends a 500 response. The message must not leak internals.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(KindInternal, message))
}
