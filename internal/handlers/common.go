package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingField     = "MISSING_FIELD"
	CodeIncompleteQuiz   = "INCOMPLETE_QUIZ"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeImportFormat     = "IMPORT_FORMAT"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternalError    = "INTERNAL_ERROR"
)

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

func (h *BaseHandler) requestFields(c *gin.Context, additionalFields []interface{}) []interface{} {
	fields := []interface{}{
		"request_id", c.GetHeader(utils.RequestIDHeader),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	return append(fields, additionalFields...)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := h.requestFields(c, additionalFields)
	fields = append(fields, "remote_addr", c.ClientIP())
	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.logger.LogError(err, message, h.requestFields(c, additionalFields)...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.logger.Warn(message, h.requestFields(c, additionalFields)...)
}

// RespondWithError sends a consistent error response and logs it. Server
// errors are logged at error level, client errors at warn.
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
		Code:    code,
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", services.FormatError(err))
	}

	c.AbortWithStatusJSON(statusCode, errorResp)
}

// RespondWithBindError reports a body that could not be decoded.
func (h *BaseHandler) RespondWithBindError(c *gin.Context, err error) {
	h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request payload", err, err.Error())
}

// HandleServiceError maps service errors onto HTTP responses
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var (
		validationErrors services.ValidationErrors
		details          []interface{}
	)
	if errors.As(err, &validationErrors) {
		details = append(details, validationErrors)
	}

	var rateLimitErr *services.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", strconv.FormatInt(rateLimitErr.RetryAfter, 10))
		h.RespondWithError(c, http.StatusTooManyRequests, CodeRateLimited, "Too many links generated, slow down", err, rateLimitErr)
		return
	}

	switch {
	case errors.Is(err, services.ErrMissingField):
		h.RespondWithError(c, http.StatusBadRequest, CodeMissingField, "Both names are required", err, details...)
	case errors.Is(err, services.ErrIncompleteQuizDefinition):
		h.RespondWithError(c, http.StatusBadRequest, CodeIncompleteQuiz, "Every question needs a question and an answer", err, details...)
	case errors.Is(err, services.ErrInvalidPayload):
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidPayload, "Link data is invalid", err)
	case errors.Is(err, services.ErrImportFormat):
		h.RespondWithError(c, http.StatusBadRequest, CodeImportFormat, "Quiz file could not be read", err, err.Error())
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, CodeNotFound, err.Error(), err)
	case len(details) > 0, services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, CodeValidationFailed, "Validation failed", err, details...)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error", err)
	}
}
