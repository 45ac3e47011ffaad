package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekbug/log-manager/internal/domain"
)

func newOrder(id string) *domain.Order {
	return &domain.Order{
		ID:       id,
		Customer: domain.Customer{ID: "cust-1", Name: "John Doe"},
		Items: []domain.OrderItem{
			{SKU: "sku-1", Quantity: 1, UnitPrice: 100},
		},
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
}

func TestOrderRepository_SaveAndGet(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newOrder("order-1")))

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)
	assert.Equal(t, "John Doe", got.Customer.Name)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo := NewOrderRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestOrderRepository_Save_Replaces(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := newOrder("order-1")
	require.NoError(t, repo.Save(ctx, order))

	order.Status = domain.OrderStatusCancelled
	require.NoError(t, repo.Save(ctx, order))

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
}

func TestOrderRepository_StoresByValue(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := newOrder("order-1")
	require.NoError(t, repo.Save(ctx, order))

	// Mutating the caller's copy must not affect the stored order.
	order.Status = domain.OrderStatusCancelled

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
}

func TestOrderRepository_List(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newOrder(fmt.Sprintf("order-%d", i))))
	}

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestOrderRepository_CancelledContext(t *testing.T) {
	repo := NewOrderRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Save(ctx, newOrder("order-1")))

	_, err := repo.GetByID(ctx, "order-1")
	assert.Error(t, err)
}

func TestOrderRepository_ConcurrentAccess(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("order-%d", n)
			require.NoError(t, repo.Save(ctx, newOrder(id)))
			_, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 16)
}

func TestOrderRepository_HealthCheck(t *testing.T) {
	repo := NewOrderRepository()

	assert.Equal(t, "order-repository", repo.Name())
	assert.NoError(t, repo.Check(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, repo.Check(ctx))
}
