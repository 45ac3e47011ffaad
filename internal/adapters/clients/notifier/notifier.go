// Package notifier implements ports.OrderNotifier over HTTP. It translates
// domain orders into the notification service's event payloads, keeping the
// external wire format out of the domain.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tekbug/log-manager/internal/adapters/clients"
	"github.com/tekbug/log-manager/internal/domain"
	"github.com/tekbug/log-manager/internal/platform/logging"
)

// ClientConfig contains configuration for the notifier client.
type ClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the notification service endpoint.
	Client *clients.Client

	// ServiceName identifies the downstream service in errors and health
	// checks. Defaults to "order-notifier".
	ServiceName string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Client implements ports.OrderNotifier against the order notification
// service.
type Client struct {
	client      *clients.Client
	serviceName string
	logger      *slog.Logger
}

// NewClient creates a new notifier client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Client == nil {
		panic("notifier: Client is required")
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "order-notifier"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client:      cfg.Client,
		serviceName: serviceName,
		logger:      logger,
	}
}

// orderEvent is the external DTO sent to the notification service.
// This is an internal type - never exposed outside the adapter.
type orderEvent struct {
	OrderID      string    `json:"orderId"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Status       string    `json:"status"`
	Total        int64     `json:"total"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// OrderPlaced notifies the downstream service that an order was placed.
// Implements ports.OrderNotifier.
func (c *Client) OrderPlaced(ctx context.Context, order *domain.Order) error {
	return c.send(ctx, "/events/order-placed", order)
}

// OrderCancelled notifies the downstream service that an order was cancelled.
// Implements ports.OrderNotifier.
func (c *Client) OrderCancelled(ctx context.Context, order *domain.Order) error {
	return c.send(ctx, "/events/order-cancelled", order)
}

func (c *Client) send(ctx context.Context, path string, order *domain.Order) error {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	payload, err := json.Marshal(toEvent(order))
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	resp, err := c.client.Post(ctx, path, bytes.NewReader(payload))
	if err != nil {
		return mapClientError(err, c.serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.handleErrorResponse(resp, order.ID)
	}

	return nil
}

// toEvent translates a domain order into the external event payload.
func toEvent(order *domain.Order) orderEvent {
	return orderEvent{
		OrderID:      order.ID,
		CustomerID:   order.Customer.ID,
		CustomerName: order.Customer.Name,
		Status:       string(order.Status),
		Total:        order.Total(),
		OccurredAt:   order.UpdatedAt,
	}
}

// handleErrorResponse converts HTTP error responses to domain errors.
func (c *Client) handleErrorResponse(resp *http.Response, orderID string) error {
	c.logger.Warn("notification API error",
		slog.Int("status_code", resp.StatusCode),
	)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewNotFoundError(c.serviceName, orderID)
	case http.StatusConflict:
		return domain.NewConflictError(c.serviceName, "event already recorded")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewValidationError("", "notification rejected")
	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(c.serviceName, "rate limit exceeded")
	default:
		return domain.NewUnavailableError(c.serviceName, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, serviceName string) error {
	switch {
	case clients.IsCircuitOpen(err):
		return domain.NewUnavailableError(serviceName, "circuit breaker open")
	case clients.IsMaxRetriesExceeded(err):
		return domain.NewUnavailableError(serviceName, "max retries exceeded")
	default:
		return domain.NewUnavailableError(serviceName, err.Error())
	}
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *Client) Name() string {
	return c.serviceName
}

// Check performs a health check against the notification service.
// Implements ports.HealthChecker.
func (c *Client) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, "/healthz")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	return nil
}
