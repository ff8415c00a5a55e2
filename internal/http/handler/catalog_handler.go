package handler

import (
	"net/http"

	"github.com/cercosdelsur/storefront-api/internal/catalog"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog *catalog.Manager
	prices  *pricing.Manager
	logger  *zap.Logger
}

func NewCatalogHandler(catalogManager *catalog.Manager, prices *pricing.Manager, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogManager,
		prices:  prices,
		logger:  logger,
	}
}

// ListProducts returns the effective product catalog.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProductPrice resolves a unit price for a product reference. Query
// parameters name and category drive the fallback when the id is unknown.
func (h *CatalogHandler) GetProductPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := r.URL.Query().Get("name")
	category := r.URL.Query().Get("category")

	price, err := h.prices.ProductPrice(r.Context(), id, name, category)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, price)
}

// GetCart returns the persisted cart.
func (h *CatalogHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.catalog.GetCart(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// AddCartItem adds a product to the cart.
func (h *CatalogHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req domain.AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	cart, err := h.catalog.AddToCart(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// UpdateCartItem sets the quantity of a cart line.
func (h *CatalogHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req domain.UpdateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	cart, err := h.catalog.UpdateCartItem(r.Context(), productID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// RemoveCartItem drops a cart line.
func (h *CatalogHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	cart, err := h.catalog.RemoveFromCart(r.Context(), productID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// ClearCart empties the cart.
func (h *CatalogHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.ClearCart(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
