package repository

import (
	"context"
	"sync"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// SettingsRepository persists the admin business-settings override. Only
// fields present in the stored document override configured defaults.
type SettingsRepository struct {
	store *KVStore
	mu    sync.Mutex
}

func NewSettingsRepository(store *KVStore) *SettingsRepository {
	return &SettingsRepository{store: store}
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.BusinessSettings, bool, error) {
	var settings domain.BusinessSettings
	found, err := r.store.Get(ctx, KeyConfig, &settings)
	if err != nil {
		return nil, false, err
	}
	return &settings, found, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *domain.BusinessSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Put(ctx, KeyConfig, settings)
}

func (r *SettingsRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, KeyConfig)
}
