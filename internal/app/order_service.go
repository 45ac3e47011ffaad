// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tekbug/log-manager/internal/domain"
	"github.com/tekbug/log-manager/internal/platform/logctx"
	"github.com/tekbug/log-manager/internal/ports"
)

// orderServiceType declares the logging context injected around order use
// cases. The type-level set applies to every method without a set of its
// own; ListOrders carries an explicitly empty set so the type-level keys are
// suppressed for bulk reads.
var orderServiceType = &logctx.Type{
	Name:        "app.OrderService",
	Expressions: []string{"flow='orders'"},
	Methods: map[string]logctx.Method{
		"PlaceOrder": {
			Params: []string{"id", "customer"},
			Expressions: []string{
				"orderId=id",
				"customerName=customer.Name",
			},
		},
		"GetOrder": {
			Params:      []string{"id"},
			Expressions: []string{"orderId=id"},
		},
		"CancelOrder": {
			Params: []string{"id"},
			Expressions: []string{
				"flow='orders'",
				"orderId=id",
			},
		},
		"ListOrders": {
			Expressions: []string{},
		},
	},
}

// OrderService orchestrates order-related use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type OrderService struct {
	repo     ports.OrderRepository
	notifier ports.OrderNotifier
	engine   *logctx.Engine
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// OrderServiceConfig contains configuration for the order service.
type OrderServiceConfig struct {
	Repository ports.OrderRepository
	Notifier   ports.OrderNotifier
	Engine     *logctx.Engine
	Logger     *slog.Logger
}

// NewOrderService creates a new order service with the provided dependencies.
func NewOrderService(cfg OrderServiceConfig) *OrderService {
	return &OrderService{
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		engine:   cfg.Engine,
		logger:   cfg.Logger.With(slog.String("component", "app.OrderService")),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// PlaceOrder validates and persists a new order, then notifies downstream.
// The order ID and customer name are injected into the logging context for
// the duration of the call, so every log line below carries them.
func (s *OrderService) PlaceOrder(ctx context.Context, customer domain.Customer, items []domain.OrderItem) (*domain.Order, error) {
	order := &domain.Order{
		ID:        s.newID(),
		Customer:  customer,
		Items:     items,
		Status:    domain.OrderStatusPending,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	err := s.engine.Invoke(ctx, orderServiceType, "PlaceOrder", []any{order.ID, customer}, func(ctx context.Context) error {
		if err := order.Validate(); err != nil {
			s.logger.WarnContext(ctx, "rejected invalid order", slog.Any("error", err))
			return err
		}

		if err := s.repo.Save(ctx, order); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist order", slog.Any("error", err))
			return err
		}

		s.logger.InfoContext(ctx, "order placed",
			slog.Int("items", len(order.Items)),
			slog.Int64("total", order.Total()),
		)

		// Notification is best-effort; the order is already persisted.
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			s.logger.WarnContext(ctx, "failed to notify order placement", slog.Any("error", err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder retrieves an order by its identifier.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order *domain.Order

	err := s.engine.Invoke(ctx, orderServiceType, "GetOrder", []any{id}, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "order lookup failed", slog.Any("error", err))
			return err
		}

		s.logger.InfoContext(ctx, "order retrieved")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder transitions a pending order to cancelled and notifies
// downstream.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order *domain.Order

	err := s.engine.Invoke(ctx, orderServiceType, "CancelOrder", []any{id}, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := order.Cancel(s.now()); err != nil {
			s.logger.WarnContext(ctx, "order cannot be cancelled",
				slog.String("status", string(order.Status)),
			)
			return err
		}

		if err := s.repo.Save(ctx, order); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist cancellation", slog.Any("error", err))
			return err
		}

		s.logger.InfoContext(ctx, "order cancelled")

		if err := s.notifier.OrderCancelled(ctx, order); err != nil {
			s.logger.WarnContext(ctx, "failed to notify order cancellation", slog.Any("error", err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns all stored orders. Declared with an explicitly empty
// context set, so no keys are injected for bulk reads.
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order

	err := s.engine.Invoke(ctx, orderServiceType, "ListOrders", nil, func(ctx context.Context) error {
		var err error
		orders, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// ConfirmPending confirms every pending order with bounded concurrency and
// returns the IDs that were confirmed. Each item runs under its own context
// store, so concurrent confirmations never see each other's keys.
func (s *OrderService) ConfirmPending(ctx context.Context, limit int) ([]string, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	fns := make([]func(context.Context) (string, error), 0, len(orders))
	for _, order := range orders {
		if order.Status != domain.OrderStatusPending {
			continue
		}
		fns = append(fns, func(ctx context.Context) (string, error) {
			ctx = logctx.WithStore(ctx, logctx.NewMapStore())
			return order.ID, s.confirmOne(ctx, order.ID)
		})
	}

	results := ParallelPartialLimit(ctx, limit, fns...)

	confirmed := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			s.logger.WarnContext(ctx, "failed to confirm order",
				slog.String("order_id", r.Value),
				slog.Any("error", r.Err),
			)
			continue
		}
		confirmed = append(confirmed, r.Value)
	}

	return confirmed, nil
}

// confirmOne reuses the GetOrder declaration set: one orderId key scoped to
// this confirmation.
func (s *OrderService) confirmOne(ctx context.Context, id string) error {
	return s.engine.Invoke(ctx, orderServiceType, "GetOrder", []any{id}, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Confirm(s.now()); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, order); err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "order confirmed")
		return nil
	})
}
