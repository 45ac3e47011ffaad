package dto

import (
	"time"

	"github.com/tekbug/log-manager/internal/domain"
)

// PlaceOrderRequest is the request body for creating an order.
type PlaceOrderRequest struct {
	Customer CustomerRequest    `json:"customer" validate:"required"`
	Items    []OrderItemRequest `json:"items"    validate:"required,min=1,dive"`
}

// CustomerRequest identifies the ordering customer.
type CustomerRequest struct {
	ID    string `json:"id"    validate:"required,notempty"`
	Name  string `json:"name"  validate:"required,notempty"`
	Email string `json:"email" validate:"omitempty,email"`
}

// OrderItemRequest is one order line in the request body.
type OrderItemRequest struct {
	SKU       string `json:"sku"       validate:"required,notempty"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0"`
	UnitPrice int64  `json:"unitPrice" validate:"required,gt=0"`
}

// ToDomain converts the request to domain types.
func (r *PlaceOrderRequest) ToDomain() (domain.Customer, []domain.OrderItem) {
	customer := domain.Customer{
		ID:    r.Customer.ID,
		Name:  r.Customer.Name,
		Email: r.Customer.Email,
	}

	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.OrderItem{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return customer, items
}

// OrderResponse is the HTTP representation of an order.
type OrderResponse struct {
	ID        string              `json:"id"`
	Customer  CustomerResponse    `json:"customer"`
	Items     []OrderItemResponse `json:"items"`
	Status    string              `json:"status"`
	Total     int64               `json:"total"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// CustomerResponse is the HTTP representation of a customer.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// OrderItemResponse is one order line in the response.
type OrderItemResponse struct {
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// ToOrderResponse converts a domain order to its HTTP representation.
func ToOrderResponse(order *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &OrderResponse{
		ID: order.ID,
		Customer: CustomerResponse{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
		},
		Items:     items,
		Status:    string(order.Status),
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders.
func ToOrderResponses(orders []*domain.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, ToOrderResponse(order))
	}
	return out
}
