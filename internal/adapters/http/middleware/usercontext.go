package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tekbug/log-manager/internal/platform/logctx"
)

// UserContextConfig configures the context seeding middleware.
type UserContextConfig struct {
	// Header is the inbound request header to capture.
	Header string

	// Key is the context-store key the header value is written under.
	Key string
}

// UserContext returns middleware that installs a fresh context store on the
// request and seeds it from the configured header.
//
// Per request it:
//   - Installs a new store on the request context. Every request owns its
//     own store; isolation between concurrent requests comes from that, not
//     from locking.
//   - Reads the configured header and, if non-blank, writes its raw value
//     under the configured key. Whitespace-only values are treated as absent.
//   - Clears the store after the handler chain finishes, panic or not, so
//     nothing leaks into connection reuse.
//
// Handlers and services see the seeded keys automatically on every log line
// written with the request context.
func UserContext(cfg UserContextConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := logctx.NewMapStore()
		ctx := logctx.WithStore(c.Request.Context(), store)
		c.Request = c.Request.WithContext(ctx)

		defer store.ClearAll()

		if value := c.GetHeader(cfg.Header); strings.TrimSpace(value) != "" {
			// MapStore writes cannot fail; the error return is part of the
			// Store contract for fallible implementations.
			_ = store.Set(cfg.Key, value)
		}

		c.Next()
	}
}
