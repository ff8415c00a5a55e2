package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Manager loads the product catalog and maintains the persisted cart.
//
// Catalog precedence: admin override (persisted), then the remote source,
// then the bundled list. Remote loads are single-flight and cached until
// invalidated.
type Manager struct {
	source   RowSource
	products *repository.ProductRepository
	cart     *repository.CartRepository
	logger   *zap.Logger
	nowFunc  func() time.Time

	group  singleflight.Group
	mu     sync.RWMutex
	cached []domain.Product
	loaded bool
}

func NewManager(source RowSource, products *repository.ProductRepository, cart *repository.CartRepository, logger *zap.Logger) *Manager {
	return &Manager{
		source:   source,
		products: products,
		cart:     cart,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Products returns the effective catalog. It also satisfies the price
// manager's source contract.
func (m *Manager) Products(ctx context.Context) ([]domain.Product, error) {
	override, found, err := m.products.GetOverride(ctx)
	if err != nil {
		return nil, err
	}
	if found && len(override) > 0 {
		return override, nil
	}
	return m.loadRemote(ctx)
}

func (m *Manager) loadRemote(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	if m.loaded {
		cached := m.cached
		m.mu.RUnlock()
		return cached, nil
	}
	m.mu.RUnlock()

	result, err, _ := m.group.Do("products", func() (interface{}, error) {
		rows, err := m.source.FetchRows(ctx)
		var products []domain.Product
		if err != nil {
			m.logger.Warn("remote catalog unavailable, using bundled products", zap.Error(err))
			products = DefaultProducts()
		} else {
			products = NormalizeRows(rows)
			if len(products) == 0 {
				m.logger.Warn("remote catalog returned no usable rows, using bundled products")
				products = DefaultProducts()
			}
		}

		m.mu.Lock()
		m.cached = products
		m.loaded = true
		m.mu.Unlock()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Product), nil
}

// Invalidate drops the cached remote catalog so the next load refetches.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.loaded = false
	m.cached = nil
	m.mu.Unlock()
}

// SaveOverride replaces the admin catalog override and invalidates caches.
func (m *Manager) SaveOverride(ctx context.Context, products []domain.Product) error {
	if err := m.products.SaveOverride(ctx, products); err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// ClearOverride removes the admin catalog override.
func (m *Manager) ClearOverride(ctx context.Context) error {
	if err := m.products.ClearOverride(ctx); err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// FindProduct looks a product up by id in the effective catalog.
func (m *Manager) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	products, err := m.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

// GetCart returns the persisted cart.
func (m *Manager) GetCart(ctx context.Context) (*domain.Cart, error) {
	return m.cart.Get(ctx)
}

// AddToCart adds quantity units of a catalog product to the cart, merging
// with an existing line for the same product.
func (m *Manager) AddToCart(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Message: "La cantidad debe ser mayor a cero"}
	}

	product, err := m.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ValidationError{Field: "id", Message: "Producto no encontrado: " + productID}
	}

	return m.cart.Mutate(ctx, func(cart *domain.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == product.ID {
				cart.Items[i].Quantity += quantity
				cart.Items[i].Recalculate()
				cart.LastUpdated = m.nowFunc()
				return nil
			}
		}
		item := domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Quantity:  quantity,
			UnitPrice: product.Price,
		}
		item.Recalculate()
		cart.Items = append(cart.Items, item)
		cart.LastUpdated = m.nowFunc()
		return nil
	})
}

// UpdateCartItem sets the quantity of a cart line. Quantity zero removes the
// line.
func (m *Manager) UpdateCartItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Message: "La cantidad no puede ser negativa"}
	}
	return m.cart.Mutate(ctx, func(cart *domain.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				if quantity == 0 {
					cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				} else {
					cart.Items[i].Quantity = quantity
					cart.Items[i].Recalculate()
				}
				cart.LastUpdated = m.nowFunc()
				return nil
			}
		}
		return &domain.ValidationError{Field: "id", Message: "Producto no encontrado en el carrito: " + productID}
	})
}

// RemoveFromCart removes a cart line.
func (m *Manager) RemoveFromCart(ctx context.Context, productID string) (*domain.Cart, error) {
	return m.UpdateCartItem(ctx, productID, 0)
}

// ClearCart empties the persisted cart.
func (m *Manager) ClearCart(ctx context.Context) error {
	return m.cart.Clear(ctx)
}
