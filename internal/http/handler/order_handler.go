package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/export"
	"github.com/cercosdelsur/storefront-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders     *service.OrderService
	quotations *service.QuotationService
	whatsapp   *export.WhatsAppBuilder
	logger     *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, quotations *service.QuotationService, whatsapp *export.WhatsAppBuilder, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:     orders,
		quotations: quotations,
		whatsapp:   whatsapp,
		logger:     logger,
	}
}

// Create converts a quotation plus customer data into an order. The source
// quotation, when given, is marked accepted.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	var quotation *domain.Quotation
	if req.QuotationID != nil {
		var err error
		quotation, err = h.quotations.GetByID(r.Context(), *req.QuotationID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		if quotation == nil {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Quotation %s not found", *req.QuotationID))
			return
		}
	}

	order, err := h.orders.CreateOrder(r.Context(), quotation, req.Customer)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if quotation != nil {
		if _, err := h.quotations.UpdateStatus(r.Context(), quotation.ID, domain.QuotationStatusAccepted); err != nil {
			h.logger.Warn("failed to mark quotation accepted",
				zap.String("quotation_id", quotation.ID),
				zap.Error(err),
			)
		}
	}

	respondJSON(w, http.StatusCreated, order)
}

// List returns orders, filtered by status, date range or customer phone.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		orders, err := h.orders.GetByStatus(r.Context(), domain.OrderStatus(status))
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, orders)
		return
	}

	if phone := q.Get("phone"); phone != "" {
		orders, err := h.orders.GetByCustomer(r.Context(), phone)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, orders)
		return
	}

	if fromStr, toStr := q.Get("from"), q.Get("to"); fromStr != "" || toStr != "" {
		from, to, err := parseDateRange(fromStr, toStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		orders, err := h.orders.GetByDateRange(r.Context(), from, to)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, orders)
		return
	}

	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// parseDateRange parses from/to query values (YYYY-MM-DD); the "to" day is
// inclusive.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now().UTC()

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to must be YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

// GetByID returns one order.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if order == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Order %s not found", id))
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus moves an order through its lifecycle, appending to the audit
// trail.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status, req.Note)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Delete removes one order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.orders.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// GetWhatsAppMessage renders an order into the dispatch message plus URL.
func (h *OrderHandler) GetWhatsAppMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if order == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Order %s not found", id))
		return
	}

	message := h.whatsapp.OrderMessage(order)
	respondJSON(w, http.StatusOK, domain.WhatsAppMessageResponse{
		Message: message,
		URL:     h.whatsapp.DispatchURL(message),
	})
}
