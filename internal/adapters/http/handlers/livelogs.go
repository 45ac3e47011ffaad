package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tekbug/log-manager/internal/platform/logging"
)

// LiveLogHandler serves the recent log lines retained by the in-memory
// buffer. Intended for quick operational inspection without shell access to
// the log files.
type LiveLogHandler struct {
	buffer *logging.Buffer
}

// NewLiveLogHandler creates a live-log handler. The buffer may be nil when
// buffering is disabled; the endpoint then reports the buffer as missing.
func NewLiveLogHandler(buffer *logging.Buffer) *LiveLogHandler {
	return &LiveLogHandler{
		buffer: buffer,
	}
}

// Logs handles GET /-/logs
// Returns the buffered log lines, oldest first.
func (h *LiveLogHandler) Logs(c *gin.Context) {
	if h.buffer == nil {
		c.JSON(http.StatusOK, []string{
			fmt.Sprintf("Error: in-memory log buffer %q not found.", logging.BufferName),
		})
		return
	}

	c.JSON(http.StatusOK, h.buffer.Lines())
}

// RegisterLiveLogRoutes registers the live-log route on the given router
// group (conventionally the /-/ operational group).
func (h *LiveLogHandler) RegisterLiveLogRoutes(rg *gin.RouterGroup) {
	rg.GET("/logs", h.Logs)
}
