package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tekbug/log-manager/internal/adapters/http/handlers"
	"github.com/tekbug/log-manager/internal/adapters/http/middleware"
	"github.com/tekbug/log-manager/internal/platform/config"
	"github.com/tekbug/log-manager/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// LogContext configures which request header seeds the logging
	// context store, and under which key.
	LogContext *config.LogContextConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// LiveLogHandler serves the in-memory log buffer.
	LiveLogHandler *handlers.LiveLogHandler

	// OrderHandler handles order endpoints.
	OrderHandler *handlers.OrderHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. User context - per-request logging context store, seeded from headers
//  7. Timeout - request deadline (applied per-route or globally)
//
// Route groups:
//   - /-/ (internal): Health endpoints and the live-log buffer
//   - /api/v1/ (public API): Business endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	// Apply global middleware in order
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	if cfg.LogContext != nil {
		engine.Use(middleware.UserContext(middleware.UserContextConfig{
			Header: cfg.LogContext.Header,
			Key:    cfg.LogContext.Key,
		}))
	}

	// Register internal endpoints (no timeout for probes)
	internal := engine.Group("/-")
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(internal)
	}
	if cfg.LiveLogHandler != nil {
		cfg.LiveLogHandler.RegisterLiveLogRoutes(internal)
	}

	// Setup API v1 routes with timeout
	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.OrderHandler != nil {
		cfg.OrderHandler.RegisterOrderRoutes(apiV1)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	logCtxCfg *config.LogContextConfig,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		LogContext:    logCtxCfg,
		HealthHandler: healthHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
