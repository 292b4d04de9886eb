package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// RespondOperationError maps a controller operation error to an HTTP
// status. Each request classifies the error it received, so concurrent
// requests never surface each other's failures.
func (h *BaseHandler) RespondOperationError(c *gin.Context, err error) {
	var ve controllers.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "validation failed", Details: ve})
		return
	}
	c.JSON(statusForError(err), ErrorResponse{Message: err.Error()})
}

func statusForError(err error) int {
	switch {
	case controllers.IsUnauthorized(err):
		return http.StatusUnauthorized
	case controllers.IsNotFound(err):
		return http.StatusNotFound
	case controllers.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, controllers.ErrNotEnrolled),
		errors.Is(err, controllers.ErrReviewClosed),
		errors.Is(err, controllers.ErrReviewerNotInGroup):
		return http.StatusUnprocessableEntity
	case controllers.IsUnsupported(err):
		return http.StatusNotImplemented
	default:
		return http.StatusBadRequest
	}
}
