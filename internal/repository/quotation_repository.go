package repository

import (
	"context"
	"sync"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// QuotationRepository persists the quotation list as one document. The mutex
// serializes read-modify-write cycles so concurrent mutations cannot drop
// each other's changes.
type QuotationRepository struct {
	store *KVStore
	mu    sync.Mutex
}

func NewQuotationRepository(store *KVStore) *QuotationRepository {
	return &QuotationRepository{store: store}
}

func (r *QuotationRepository) GetAll(ctx context.Context) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	found, err := r.store.Get(ctx, KeyQuotations, &quotations)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Quotation{}, nil
	}
	return quotations, nil
}

func (r *QuotationRepository) ReplaceAll(ctx context.Context, quotations []domain.Quotation) error {
	return r.store.Put(ctx, KeyQuotations, quotations)
}

// Mutate runs fn against the current list under the repository lock and
// persists whatever fn returns. fn may return the input slice modified in
// place.
func (r *QuotationRepository) Mutate(ctx context.Context, fn func([]domain.Quotation) ([]domain.Quotation, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotations, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(quotations)
	if err != nil {
		return err
	}
	return r.ReplaceAll(ctx, updated)
}
