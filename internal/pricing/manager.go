package pricing

import (
	"context"
	"sync"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source supplies the product catalog. The catalog manager implements it.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Manager resolves canonical unit prices against the loaded catalog with a
// cascading fallback. The catalog is loaded once; concurrent first callers
// share a single in-flight load.
type Manager struct {
	source   Source
	fallback []domain.Product
	logger   *zap.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	loaded bool
	prices []domain.Product
}

func NewManager(source Source, fallback []domain.Product, logger *zap.Logger) *Manager {
	return &Manager{
		source:   source,
		fallback: fallback,
		logger:   logger,
	}
}

// LoadPrices resolves the price list, trying the catalog source first and
// falling back to the bundled list on any failure or empty result. The
// resolved list is cached; later calls return it without refetching.
func (m *Manager) LoadPrices(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	if m.loaded {
		prices := m.prices
		m.mu.RUnlock()
		return prices, nil
	}
	m.mu.RUnlock()

	result, err, _ := m.group.Do("load", func() (interface{}, error) {
		products, err := m.source.Products(ctx)
		if err != nil || len(products) == 0 {
			if err != nil {
				m.logger.Warn("catalog source unavailable, using bundled price list", zap.Error(err))
			} else {
				m.logger.Warn("catalog source returned no products, using bundled price list")
			}
			products = m.fallback
		}

		m.mu.Lock()
		m.prices = products
		m.loaded = true
		m.mu.Unlock()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Product), nil
}

// Invalidate drops the cached price list so the next LoadPrices refetches.
// Called when the admin replaces the catalog override.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.loaded = false
	m.prices = nil
	m.mu.Unlock()
}

// ProductPrice resolves a unit price for a product reference. Lookup order:
// exact id, exact name, substring name, category heuristic, hardcoded
// default.
func (m *Manager) ProductPrice(ctx context.Context, id, name, category string) (ProductPrice, error) {
	catalog, err := m.LoadPrices(ctx)
	if err != nil {
		return ProductPrice{}, err
	}
	return resolve(id, name, category, catalog), nil
}
