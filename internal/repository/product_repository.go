package repository

import (
	"context"
	"sync"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// ProductRepository holds the admin catalog override. When present it takes
// precedence over the remote and built-in catalogs.
type ProductRepository struct {
	store *KVStore
	mu    sync.Mutex
}

func NewProductRepository(store *KVStore) *ProductRepository {
	return &ProductRepository{store: store}
}

// GetOverride returns the persisted catalog override, or found=false when no
// override has been saved.
func (r *ProductRepository) GetOverride(ctx context.Context) ([]domain.Product, bool, error) {
	var products []domain.Product
	found, err := r.store.Get(ctx, KeyProducts, &products)
	if err != nil {
		return nil, false, err
	}
	return products, found, nil
}

func (r *ProductRepository) SaveOverride(ctx context.Context, products []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Put(ctx, KeyProducts, products)
}

func (r *ProductRepository) ClearOverride(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, KeyProducts)
}
