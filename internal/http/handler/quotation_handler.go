package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/cercosdelsur/storefront-api/internal/catalog"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/export"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/cercosdelsur/storefront-api/internal/service"
	"github.com/cercosdelsur/storefront-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotations *service.QuotationService
	settings   *service.SettingsService
	catalog    *catalog.Manager
	prices     *pricing.Manager
	pdf        *export.PDFGenerator
	whatsapp   *export.WhatsAppBuilder
	archive    storage.Archive
	logger     *zap.Logger
}

func NewQuotationHandler(
	quotations *service.QuotationService,
	settings *service.SettingsService,
	catalogManager *catalog.Manager,
	prices *pricing.Manager,
	pdf *export.PDFGenerator,
	whatsapp *export.WhatsAppBuilder,
	archive storage.Archive,
	logger *zap.Logger,
) *QuotationHandler {
	return &QuotationHandler{
		quotations: quotations,
		settings:   settings,
		catalog:    catalogManager,
		prices:     prices,
		pdf:        pdf,
		whatsapp:   whatsapp,
		archive:    archive,
		logger:     logger,
	}
}

// buildQuotation assembles an in-memory draft from the request: either the
// current cart or an explicit item list. Unit prices left out by the caller
// are resolved through the price manager.
func (h *QuotationHandler) buildQuotation(r *http.Request, req *domain.CreateQuotationRequest) (*domain.Quotation, error) {
	ctx := r.Context()
	quotation := domain.NewQuotation()
	quotation.Project = req.Project

	if req.FromCart {
		cart, err := h.catalog.GetCart(ctx)
		if err != nil {
			return nil, err
		}
		if len(cart.Items) == 0 {
			return nil, service.ErrEmptyCart
		}
		for _, item := range cart.Items {
			product := domain.Product{ID: item.ProductID, Name: item.Name, Category: item.Category}
			if err := quotation.AddItem(product, item.Quantity, item.UnitPrice); err != nil {
				return nil, err
			}
		}
	} else {
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("%w: items are required when fromCart is false", service.ErrInvalidInput)
		}
		for _, item := range req.Items {
			unitPrice := 0.0
			if item.UnitPrice != nil {
				unitPrice = *item.UnitPrice
			} else {
				resolved, err := h.prices.ProductPrice(ctx, item.ProductID, item.Name, item.Category)
				if err != nil {
					return nil, err
				}
				unitPrice = resolved.Price
			}
			product := domain.Product{ID: item.ProductID, Name: item.Name, Category: item.Category}
			if err := quotation.AddItem(product, item.Quantity, unitPrice); err != nil {
				return nil, err
			}
		}
	}

	if req.Installation != nil && req.Installation.LinearMeters > 0 {
		pricePerMeter := 0.0
		if req.Installation.PricePerMeter != nil {
			pricePerMeter = *req.Installation.PricePerMeter
		} else {
			business, err := h.settings.Effective(ctx)
			if err != nil {
				return nil, err
			}
			pricePerMeter = business.InstallationPricePerMeter
		}
		if err := quotation.AddInstallation(req.Installation.LinearMeters, pricePerMeter); err != nil {
			return nil, err
		}
	}

	return quotation, nil
}

// Preview builds a quotation without persisting it. The record stays in
// draft with no id or validity window until it is exported.
func (h *QuotationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.buildQuotation(r, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Create builds and persists a quotation, emptying the cart when it was the
// item source.
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.buildQuotation(r, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	saved, err := h.quotations.Save(r.Context(), quotation)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if req.FromCart {
		if err := h.catalog.ClearCart(r.Context()); err != nil {
			h.logger.Warn("failed to clear cart after quotation", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusCreated, saved)
}

// List returns quotations, optionally partitioned with ?filter=valid or
// ?filter=expired.
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		quotations []domain.Quotation
		err        error
	)
	switch r.URL.Query().Get("filter") {
	case "valid":
		quotations, err = h.quotations.GetValid(r.Context())
	case "expired":
		quotations, err = h.quotations.GetExpired(r.Context())
	case "", "all":
		quotations, err = h.quotations.GetAll(r.Context())
	default:
		respondWithError(w, http.StatusBadRequest, "filter must be one of: valid, expired, all")
		return
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quotations)
}

// GetByID returns one quotation.
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	quotation, err := h.quotations.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if quotation == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Quotation %s not found", id))
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// UpdateStatus changes the stored status of a quotation.
func (h *QuotationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateQuotationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotations.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Delete removes one quotation.
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.quotations.DeleteByID(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// DeleteExpired removes every expired quotation.
func (h *QuotationHandler) DeleteExpired(w http.ResponseWriter, r *http.Request) {
	removed, err := h.quotations.DeleteExpired(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// DownloadPDF renders a persisted quotation as PDF and archives a copy.
func (h *QuotationHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	quotation, err := h.quotations.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if quotation == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Quotation %s not found", id))
		return
	}

	doc, err := h.pdf.Generate(r.Context(), quotation)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("%s.pdf", quotation.ID)
	if _, _, err := h.archive.Store(r.Context(), filename, "application/pdf", bytes.NewReader(doc)); err != nil {
		h.logger.Warn("failed to archive quotation pdf", zap.String("quotation_id", quotation.ID), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// ExportPDF builds, persists and renders a quotation in one call. This is the
// moment a drafted quotation becomes a sent one.
func (h *QuotationHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.buildQuotation(r, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	saved, err := h.quotations.Save(r.Context(), quotation)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if req.FromCart {
		if err := h.catalog.ClearCart(r.Context()); err != nil {
			h.logger.Warn("failed to clear cart after quotation", zap.Error(err))
		}
	}

	doc, err := h.pdf.Generate(r.Context(), saved)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("%s.pdf", saved.ID)
	if _, _, err := h.archive.Store(r.Context(), filename, "application/pdf", bytes.NewReader(doc)); err != nil {
		h.logger.Warn("failed to archive quotation pdf", zap.String("quotation_id", saved.ID), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Quotation-ID", saved.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// ExportWhatsApp builds, persists and renders a quotation as a dispatch
// message plus URL.
func (h *QuotationHandler) ExportWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.buildQuotation(r, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	saved, err := h.quotations.Save(r.Context(), quotation)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if req.FromCart {
		if err := h.catalog.ClearCart(r.Context()); err != nil {
			h.logger.Warn("failed to clear cart after quotation", zap.Error(err))
		}
	}

	message := h.whatsapp.QuotationMessage(saved)
	respondJSON(w, http.StatusOK, domain.WhatsAppMessageResponse{
		Message: message,
		URL:     h.whatsapp.DispatchURL(message),
	})
}
