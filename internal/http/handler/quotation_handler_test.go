package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationHandler_Preview(t *testing.T) {
	env := newTestEnv(t)

	t.Run("builds a draft without persisting", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/quotations/preview", domain.CreateQuotationRequest{
			Items: []domain.QuotationItemRequest{
				{ProductID: "P001", Name: "Poste de quebracho", Category: "postes", Quantity: 10, UnitPrice: floatPtr(3500)},
			},
			Installation: &domain.InstallationRequest{LinearMeters: 50, PricePerMeter: floatPtr(2500)},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var quotation domain.Quotation
		decodeBody(t, rec, &quotation)
		assert.Empty(t, quotation.ID)
		assert.Equal(t, domain.QuotationStatusDraft, quotation.Status)
		assert.Equal(t, 160000.0, quotation.Total)

		list := env.do(t, http.MethodGet, "/api/v1/quotations", nil)
		require.Equal(t, http.StatusOK, list.Code)
		var stored []domain.Quotation
		decodeBody(t, list, &stored)
		assert.Empty(t, stored)
	})

	t.Run("resolves omitted unit prices through the cascade", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/quotations/preview", domain.CreateQuotationRequest{
			Items: []domain.QuotationItemRequest{
				{Name: "producto desconocido xyz", Category: "postes", Quantity: 2},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var quotation domain.Quotation
		decodeBody(t, rec, &quotation)
		// Category heuristic for postes.
		assert.Equal(t, 7000.0, quotation.Total)
	})

	t.Run("installation price defaults from settings", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/quotations/preview", domain.CreateQuotationRequest{
			Items: []domain.QuotationItemRequest{
				{Name: "Poste", Quantity: 1, UnitPrice: floatPtr(1000)},
			},
			Installation: &domain.InstallationRequest{LinearMeters: 10},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var quotation domain.Quotation
		decodeBody(t, rec, &quotation)
		require.NotNil(t, quotation.Installation)
		assert.Equal(t, 2500.0, quotation.Installation.PricePerMeter)
	})

	t.Run("rejects an empty item list", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/quotations/preview", domain.CreateQuotationRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		req := env.do(t, http.MethodPost, "/api/v1/quotations/preview", "{not json")
		assert.Equal(t, http.StatusBadRequest, req.Code)
	})
}

func TestQuotationHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	t.Run("persists with id and sent status", func(t *testing.T) {
		quotation := createQuotation(t, env)

		assert.True(t, strings.HasPrefix(quotation.ID, "COT-"))
		assert.Equal(t, domain.QuotationStatusSent, quotation.Status)
		assert.Equal(t, 35000.0, quotation.Total)
		assert.True(t, quotation.ValidUntil.After(quotation.Date))

		rec := env.do(t, http.MethodGet, "/api/v1/quotations/"+quotation.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("from cart clears the cart", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/cart/items", domain.AddCartItemRequest{ProductID: "P001", Quantity: 3})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/v1/quotations", domain.CreateQuotationRequest{FromCart: true})
		require.Equal(t, http.StatusCreated, rec.Code)

		var quotation domain.Quotation
		decodeBody(t, rec, &quotation)
		require.Len(t, quotation.Items, 1)
		assert.Equal(t, 3, quotation.Items[0].Quantity)

		cart := env.do(t, http.MethodGet, "/api/v1/cart", nil)
		var stored domain.Cart
		decodeBody(t, cart, &stored)
		assert.Empty(t, stored.Items)
	})

	t.Run("from an empty cart fails", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/quotations", domain.CreateQuotationRequest{FromCart: true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuotationHandler_List(t *testing.T) {
	env := newTestEnv(t)
	quotation := createQuotation(t, env)

	t.Run("all", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/quotations", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []domain.Quotation
		decodeBody(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, quotation.ID, list[0].ID)
	})

	t.Run("valid filter includes the fresh quotation", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/quotations?filter=valid", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []domain.Quotation
		decodeBody(t, rec, &list)
		assert.Len(t, list, 1)
	})

	t.Run("expired filter is empty for fresh data", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/quotations?filter=expired", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []domain.Quotation
		decodeBody(t, rec, &list)
		assert.Empty(t, list)
	})

	t.Run("unknown filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/quotations?filter=bogus", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuotationHandler_GetByID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/quotations/COT-0-0000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuotationHandler_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	quotation := createQuotation(t, env)

	t.Run("accepts a storable status", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/quotations/"+quotation.ID+"/status",
			domain.UpdateQuotationStatusRequest{Status: domain.QuotationStatusAccepted})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated domain.Quotation
		decodeBody(t, rec, &updated)
		assert.Equal(t, domain.QuotationStatusAccepted, updated.Status)
	})

	t.Run("rejects a derived status", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/quotations/"+quotation.ID+"/status",
			domain.UpdateQuotationStatusRequest{Status: domain.QuotationStatus("expired")})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/quotations/COT-0-0000/status",
			domain.UpdateQuotationStatusRequest{Status: domain.QuotationStatusSent})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestQuotationHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	quotation := createQuotation(t, env)

	rec := env.do(t, http.MethodDelete, "/api/v1/quotations/"+quotation.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/quotations/"+quotation.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuotationHandler_DeleteExpired(t *testing.T) {
	env := newTestEnv(t)
	createQuotation(t, env)

	rec := env.do(t, http.MethodDelete, "/api/v1/quotations/expired", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]int
	decodeBody(t, rec, &result)
	assert.Equal(t, 0, result["removed"])
}

func TestQuotationHandler_PDF(t *testing.T) {
	env := newTestEnv(t)

	t.Run("download a persisted quotation", func(t *testing.T) {
		quotation := createQuotation(t, env)

		rec := env.do(t, http.MethodGet, "/api/v1/quotations/"+quotation.ID+"/pdf", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), quotation.ID)
		assert.Equal(t, "%PDF", rec.Body.String()[:4])
	})

	t.Run("download for unknown id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/quotations/COT-0-0000/pdf", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("export persists and renders in one call", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/quotations/pdf", domain.CreateQuotationRequest{
			Items: []domain.QuotationItemRequest{
				{ProductID: "P001", Name: "Poste de quebracho", Category: "postes", Quantity: 10, UnitPrice: floatPtr(3500)},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		id := rec.Header().Get("X-Quotation-ID")
		require.NotEmpty(t, id)
		assert.Equal(t, "%PDF", rec.Body.String()[:4])

		stored := env.do(t, http.MethodGet, "/api/v1/quotations/"+id, nil)
		assert.Equal(t, http.StatusOK, stored.Code)
	})
}

func TestQuotationHandler_ExportWhatsApp(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/quotations/whatsapp", domain.CreateQuotationRequest{
		Items: []domain.QuotationItemRequest{
			{ProductID: "P001", Name: "Poste de quebracho", Category: "postes", Quantity: 10, UnitPrice: floatPtr(3500)},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.WhatsAppMessageResponse
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Message, "*Presupuesto - Cercos del Sur*")
	assert.Contains(t, resp.Message, "Poste de quebracho x10")
	assert.Contains(t, resp.URL, "https://wa.me/5492995550123?text=")

	// The export persisted the quotation.
	list := env.do(t, http.MethodGet, "/api/v1/quotations", nil)
	var stored []domain.Quotation
	decodeBody(t, list, &stored)
	assert.Len(t, stored, 1)
}
