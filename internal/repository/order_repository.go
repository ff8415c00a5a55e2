package repository

import (
	"context"
	"sync"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// OrderRepository persists the order list as one document, same scheme as
// quotations.
type OrderRepository struct {
	store *KVStore
	mu    sync.Mutex
}

func NewOrderRepository(store *KVStore) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	found, err := r.store.Get(ctx, KeyOrders, &orders)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Order{}, nil
	}
	return orders, nil
}

func (r *OrderRepository) ReplaceAll(ctx context.Context, orders []domain.Order) error {
	return r.store.Put(ctx, KeyOrders, orders)
}

// Mutate runs fn against the current list under the repository lock and
// persists the result.
func (r *OrderRepository) Mutate(ctx context.Context, fn func([]domain.Order) ([]domain.Order, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(orders)
	if err != nil {
		return err
	}
	return r.ReplaceAll(ctx, updated)
}
