package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/tekbug/log-manager/internal/domain"
)

// GetTraceID resolves the trace ID for the current request.
// Precedence: the "trace_id" key set on the gin context, then the active
// OpenTelemetry span, then the X-Request-ID header. Returns empty string
// when none are present.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes the error response for a domain error. Validation,
// not-found and conflict errors surface their message; unavailable and
// unknown errors get generic messages to avoid leaking internals.
func HandleError(c *gin.Context, err error) {
	var (
		status  int
		code    string
		message string
	)

	switch {
	case domain.IsNotFound(err):
		status, code, message = http.StatusNotFound, ErrorCodeNotFound, err.Error()
	case domain.IsConflict(err):
		status, code, message = http.StatusConflict, ErrorCodeConflict, err.Error()
	case domain.IsValidation(err):
		status, code, message = http.StatusBadRequest, ErrorCodeValidation, err.Error()
	case domain.IsUnavailable(err):
		status, code, message = http.StatusServiceUnavailable, ErrorCodeUnavailable,
			"service temporarily unavailable, please retry"
	default:
		status, code, message = http.StatusInternalServerError, ErrorCodeInternal,
			"an internal error occurred"
	}

	c.JSON(status, NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
