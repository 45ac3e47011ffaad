// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tekbug/log-manager/internal/adapters/clients"
	"github.com/tekbug/log-manager/internal/adapters/clients/notifier"
	"github.com/tekbug/log-manager/internal/adapters/http"
	"github.com/tekbug/log-manager/internal/adapters/http/handlers"
	"github.com/tekbug/log-manager/internal/adapters/memory"
	"github.com/tekbug/log-manager/internal/app"
	"github.com/tekbug/log-manager/internal/platform/config"
	"github.com/tekbug/log-manager/internal/platform/logctx"
	"github.com/tekbug/log-manager/internal/platform/logctx/exprlang"
	"github.com/tekbug/log-manager/internal/platform/logging"
	"github.com/tekbug/log-manager/internal/platform/telemetry"
	"github.com/tekbug/log-manager/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging: primary sink, optional rolling file and the
	// live-log buffer, all behind the context-store handler.
	var buffer *logging.Buffer
	if cfg.Log.Buffer.Enabled {
		buffer = logging.NewBuffer(cfg.Log.Buffer.Capacity, cfg.App.Name, logging.ParseLevel(cfg.Log.Level))
	}

	logCfg := logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		Buffer:  buffer,
	}
	if cfg.Log.File.Enabled {
		logCfg.File = &logging.FileConfig{
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		}
	}

	logger := logging.New(logCfg)
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create the context-injection engine
	evaluator, err := exprlang.New()
	if err != nil {
		return fmt.Errorf("creating expression evaluator: %w", err)
	}
	engine := logctx.NewEngine(evaluator, logger)

	// 6. Create health registry and the order repository
	healthRegistry := ports.NewHealthRegistry()

	orderRepo := memory.NewOrderRepository()
	if err := healthRegistry.Register(orderRepo); err != nil {
		return fmt.Errorf("registering order repository health check: %w", err)
	}

	// 7. Create HTTP client for the notification service
	httpClient, err := clients.New(&clients.Config{
		BaseURL:       cfg.Services.Notifier.BaseURL,
		ServiceName:   cfg.Services.Notifier.Name,
		Timeout:       cfg.Client.Timeout,
		Retry:         cfg.Client.Retry,
		Circuit:       cfg.Client.CircuitBreaker,
		ContextHeader: cfg.LogContext.Header,
		ContextKey:    cfg.LogContext.Key,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 8. Create notifier client adapter
	orderNotifier := notifier.NewClient(notifier.ClientConfig{
		Client:      httpClient,
		ServiceName: cfg.Services.Notifier.Name,
		Logger:      logger,
	})

	if err := healthRegistry.Register(orderNotifier); err != nil {
		return fmt.Errorf("registering notifier health check: %w", err)
	}

	// 9. Create order service (application layer)
	orderService := app.NewOrderService(app.OrderServiceConfig{
		Repository: orderRepo,
		Notifier:   orderNotifier,
		Engine:     engine,
		Logger:     logger,
	})

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	liveLogHandler := handlers.NewLiveLogHandler(buffer)
	orderHandler := handlers.NewOrderHandler(orderService)

	// 11. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 12. Setup router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		LogContext:     &cfg.LogContext,
		HealthHandler:  healthHandler,
		LiveLogHandler: liveLogHandler,
		OrderHandler:   orderHandler,
		Timeout:        http.DefaultRequestTimeout,
	}
	http.SetupRouter(server.Engine(), routerCfg)

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
