package repository

import (
	"context"
	"sync"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// CartRepository persists the active cart as one document.
type CartRepository struct {
	store *KVStore
	mu    sync.Mutex
}

func NewCartRepository(store *KVStore) *CartRepository {
	return &CartRepository{store: store}
}

func (r *CartRepository) Get(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	found, err := r.store.Get(ctx, KeyCart, &cart)
	if err != nil {
		return nil, err
	}
	if !found {
		return &domain.Cart{Items: []domain.CartItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.store.Put(ctx, KeyCart, cart)
}

func (r *CartRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyCart)
}

// Mutate runs fn against the current cart under the repository lock and
// persists the result.
func (r *CartRepository) Mutate(ctx context.Context, fn func(*domain.Cart) error) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := r.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
