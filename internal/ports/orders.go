// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Methods represent business operations, not CRUD operations
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/tekbug/log-manager/internal/domain"
)

// OrderRepository is the persistence contract for orders.
type OrderRepository interface {
	// Save persists an order, creating or replacing it by ID.
	Save(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its identifier.
	// Returns domain.ErrNotFound if the order does not exist.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns all stored orders. Ordering is unspecified.
	List(ctx context.Context) ([]*domain.Order, error)
}

// OrderNotifier pushes order lifecycle events to a downstream service.
//
// Key considerations for implementations:
//   - Handle timeouts via context deadline
//   - Map external errors to domain errors
//   - Returns domain.ErrUnavailable if the service is unreachable
type OrderNotifier interface {
	// OrderPlaced notifies the downstream system that an order was placed.
	OrderPlaced(ctx context.Context, order *domain.Order) error

	// OrderCancelled notifies the downstream system that an order was cancelled.
	OrderCancelled(ctx context.Context, order *domain.Order) error
}
