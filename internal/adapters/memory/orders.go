// Package memory provides in-memory adapter implementations, used as the
// default persistence backend and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/tekbug/log-manager/internal/domain"
	"github.com/tekbug/log-manager/internal/ports"
)

// OrderRepository is a thread-safe in-memory ports.OrderRepository.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

// Save persists an order, creating or replacing it by ID. Orders are stored
// by value so later mutation of the caller's copy does not leak in.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = *order
	return nil
}

// GetByID retrieves an order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}
	return &order, nil
}

// List returns all stored orders in unspecified order.
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(r.orders))
	for id := range r.orders {
		order := r.orders[id]
		orders = append(orders, &order)
	}
	return orders, nil
}

// Name implements ports.HealthChecker.
func (r *OrderRepository) Name() string {
	return "order-repository"
}

// Check implements ports.HealthChecker. The in-memory store is always
// reachable, so only context state can fail the check.
func (r *OrderRepository) Check(ctx context.Context) error {
	return ctx.Err()
}
