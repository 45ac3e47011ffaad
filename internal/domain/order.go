// Package domain contains core business entities and rules.
package domain

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state of a placed order.
	OrderStatusPending OrderStatus = "pending"

	// OrderStatusConfirmed means the order has been accepted for fulfilment.
	OrderStatusConfirmed OrderStatus = "confirmed"

	// OrderStatusCancelled means the order was cancelled before fulfilment.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Customer identifies who placed an order.
type Customer struct {
	// ID is the customer's unique identifier.
	ID string

	// Name is the customer's display name.
	Name string

	// Email is the customer's contact address.
	Email string
}

// OrderItem is a single line of an order.
type OrderItem struct {
	SKU       string
	Quantity  int
	UnitPrice int64 // minor currency units
}

// Order represents a customer order.
// This is a domain entity - it has no knowledge of external systems.
type Order struct {
	// ID is the unique identifier for this order.
	ID string

	// Customer is who placed the order.
	Customer Customer

	// Items are the order lines. An order has at least one item.
	Items []OrderItem

	// Status is the current lifecycle state.
	Status OrderStatus

	// CreatedAt is when the order was placed.
	CreatedAt time.Time

	// UpdatedAt is when the order last changed state.
	UpdatedAt time.Time
}

// Total returns the order total in minor currency units.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// Cancel transitions the order to cancelled.
// Returns ErrConflict if the order is already confirmed or cancelled.
func (o *Order) Cancel(now time.Time) error {
	if o.Status != OrderStatusPending {
		return NewConflictErrorWithDetails("order", "cannot cancel", string(o.Status))
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = now
	return nil
}

// Confirm transitions the order to confirmed.
// Returns ErrConflict unless the order is pending.
func (o *Order) Confirm(now time.Time) error {
	if o.Status != OrderStatusPending {
		return NewConflictErrorWithDetails("order", "cannot confirm", string(o.Status))
	}
	o.Status = OrderStatusConfirmed
	o.UpdatedAt = now
	return nil
}

// Validate checks the business rules for a new order.
func (o *Order) Validate() error {
	if o.Customer.Name == "" {
		return NewValidationError("customer.name", "must not be empty")
	}
	if len(o.Items) == 0 {
		return NewValidationError("items", "order must have at least one item")
	}
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return NewValidationErrorWithValue("items.quantity", "must be positive", item.Quantity)
		}
		if item.SKU == "" {
			return NewValidationErrorWithValue("items.sku", "must not be empty", i)
		}
	}
	return nil
}
