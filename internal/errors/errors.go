package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/middleware"
)

// Error codes sent in the "code" field of every error body.
const (
	ErrNotFound        = "NOT_FOUND"
	ErrBadRequest      = "BAD_REQUEST"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrValidation      = "VALIDATION_ERROR"
	ErrDataUnavailable = "DATA_UNAVAILABLE"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// reply logs through the request logger, when there is one, and writes the
// JSON error body. A nil cause logs a warning, anything else an error.
func reply(c *gin.Context, status int, detail ErrorDetail, logMsg string, cause error) {
	detail.RequestID = middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"code":   detail.Code,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}
		if detail.Details != nil {
			fields["details"] = detail.Details
		}
		if cause != nil {
			log.Error(logMsg, cause, fields)
		} else {
			fields["message"] = detail.Message
			log.Warn(logMsg, fields)
		}
	}

	c.JSON(status, ErrorResponse{Error: detail})
}

// NotFound writes a 404 NOT_FOUND response.
func NotFound(c *gin.Context, message string) {
	reply(c, http.StatusNotFound, ErrorDetail{Code: ErrNotFound, Message: message}, "Resource not found", nil)
}

// BadRequest writes a 400 BAD_REQUEST response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	reply(c, http.StatusBadRequest, ErrorDetail{Code: ErrBadRequest, Message: message, Details: details}, "Bad request", nil)
}

// InternalServerError writes a 500 response. err is logged, never sent.
func InternalServerError(c *gin.Context, message string, err error) {
	reply(c, http.StatusInternalServerError, ErrorDetail{Code: ErrInternalServer, Message: message}, "Internal server error", err)
}

// DataUnavailable returns a 404 response for reads whose storage failed.
// The store error is logged but never sent to the client.
func DataUnavailable(c *gin.Context, err error) {
	reply(c, http.StatusNotFound, ErrorDetail{
		Code:    ErrDataUnavailable,
		Message: "The requested data is temporarily unavailable",
	}, "Data unavailable", err)
}

// FromService writes the response matching a service-layer error:
// NotFoundError becomes 404 NOT_FOUND, PersistenceError becomes a 404
// DATA_UNAVAILABLE soft failure and anything else is a 500.
func FromService(c *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		NotFound(c, err.Error())
	case IsPersistence(err):
		DataUnavailable(c, err)
	default:
		InternalServerError(c, "Failed to load data", err)
	}
}

// ValidationFailed writes a 400 VALIDATION_ERROR response with one message
// per failed field.
func ValidationFailed(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = formatValidationError(fe)
	}
	reply(c, http.StatusBadRequest, ErrorDetail{
		Code:    ErrValidation,
		Message: "Validation failed for one or more fields",
		Details: details,
	}, "Validation error", nil)
}

var validationMessages = map[string]string{
	"required": "This field is required",
	"url":      "Must be a valid URL",
	"min":      "Value is too short or small (minimum: %s)",
	"max":      "Value is too long or large (maximum: %s)",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lt":       "Must be less than %s",
	"lte":      "Must be less than or equal to %s",
	"oneof":    "Must be one of: %s",
	"datetime": "Must be a date in the format %s",
}

func formatValidationError(fe validator.FieldError) string {
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "Validation failed for tag: " + fe.Tag()
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
