package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/catalog"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/export"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/cercosdelsur/storefront-api/internal/service"
	"github.com/cercosdelsur/storefront-api/internal/storage"
	"go.uber.org/zap"
)

type AdminHandler struct {
	orders     *service.OrderService
	quotations *service.QuotationService
	settings   *service.SettingsService
	catalog    *catalog.Manager
	prices     *pricing.Manager
	archive    storage.Archive
	logger     *zap.Logger
}

func NewAdminHandler(
	orders *service.OrderService,
	quotations *service.QuotationService,
	settings *service.SettingsService,
	catalogManager *catalog.Manager,
	prices *pricing.Manager,
	archive storage.Archive,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		orders:     orders,
		quotations: quotations,
		settings:   settings,
		catalog:    catalogManager,
		prices:     prices,
		archive:    archive,
		logger:     logger,
	}
}

// GetStatistics returns the current-month dashboard aggregates.
func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.GetStatistics(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetSettings returns the stored business-settings override.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the business-settings override.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.BusinessSettings
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.settings.Update(r.Context(), &req); err != nil {
		respondDomainError(w, err)
		return
	}
	h.logger.Info("business settings updated")
	respondJSON(w, http.StatusOK, req)
}

// ResetSettings removes the override, restoring configured defaults.
func (h *AdminHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Reset(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// UpdateCatalog replaces the admin catalog override.
func (h *AdminHandler) UpdateCatalog(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := decodeJSON(r, &products); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(products) == 0 {
		respondWithError(w, http.StatusBadRequest, "Catalog must contain at least one product")
		return
	}

	if err := h.catalog.SaveOverride(r.Context(), products); err != nil {
		respondDomainError(w, err)
		return
	}
	h.prices.Invalidate()
	h.logger.Info("catalog override updated", zap.Int("products", len(products)))
	respondJSON(w, http.StatusOK, products)
}

// ClearCatalog removes the catalog override, restoring the remote source.
func (h *AdminHandler) ClearCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.ClearOverride(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	h.prices.Invalidate()
	respondJSON(w, http.StatusNoContent, nil)
}

// CleanOldOrders removes closed orders older than daysOld (default 90).
func (h *AdminHandler) CleanOldOrders(w http.ResponseWriter, r *http.Request) {
	daysOld := 90
	if v := r.URL.Query().Get("daysOld"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "daysOld must be a positive integer")
			return
		}
		daysOld = parsed
	}

	removed, err := h.orders.CleanOldOrders(r.Context(), daysOld)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// ExportOrdersCSV streams all orders as CSV and archives a copy.
func (h *AdminHandler) ExportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	doc, err := export.OrdersCSV(orders)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("pedidos-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if _, _, err := h.archive.Store(r.Context(), filename, "text/csv", bytes.NewReader(doc)); err != nil {
		h.logger.Warn("failed to archive orders csv", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// ExportQuotationsCSV streams all quotations as CSV and archives a copy.
func (h *AdminHandler) ExportQuotationsCSV(w http.ResponseWriter, r *http.Request) {
	quotations, err := h.quotations.GetAll(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	doc, err := export.QuotationsCSV(quotations)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("presupuestos-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if _, _, err := h.archive.Store(r.Context(), filename, "text/csv", bytes.NewReader(doc)); err != nil {
		h.logger.Warn("failed to archive quotations csv", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
