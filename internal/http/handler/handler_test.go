package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cercosdelsur/storefront-api/internal/auth"
	"github.com/cercosdelsur/storefront-api/internal/catalog"
	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/export"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/cercosdelsur/storefront-api/internal/repository"
	"github.com/cercosdelsur/storefront-api/internal/service"
	"github.com/cercosdelsur/storefront-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type offlineRowSource struct{}

func (offlineRowSource) FetchRows(ctx context.Context) ([]catalog.Row, error) {
	return nil, errors.New("remote catalog offline")
}

var testBusiness = config.BusinessConfig{
	Name:                      "Cercos del Sur",
	Phone:                     "5492995550123",
	Email:                     "ventas@cercosdelsur.com.ar",
	Address:                   "Ruta 22 km 1214, Neuquén, Argentina",
	QuotationValidityDays:     30,
	InstallationPricePerMeter: 2500,
	PostSpacingMeters:         3,
	MarginPercent:             35,
	RequiredCustomerFields:    []string{"name", "phone"},
	OptionalCustomerFields:    []string{"email", "address", "installationDate", "paymentMethod"},
	TermsTemplate:             "Presupuesto válido por {days} días. No incluye IVA.",
}

// testEnv wires the full handler stack against an in-memory store, mirroring
// the router's route tree.
type testEnv struct {
	router     chi.Router
	quotations *service.QuotationService
	orders     *service.OrderService
	catalog    *catalog.Manager
	tokens     *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&repository.KVRecord{}))

	log := zap.NewNop()
	store := repository.NewKVStore(db)

	catalogManager := catalog.NewManager(offlineRowSource{}, repository.NewProductRepository(store), repository.NewCartRepository(store), log)
	priceManager := pricing.NewManager(catalogManager, catalog.DefaultProducts(), log)
	currency := pricing.NewCurrencyFormatter(&config.CurrencyConfig{
		Locale:            "es-AR",
		Symbol:            "$",
		MinFractionDigits: 0,
		MaxFractionDigits: 2,
	})

	numbers := service.NewNumberService()
	settings := service.NewSettingsService(repository.NewSettingsRepository(store), testBusiness)
	quotations := service.NewQuotationService(repository.NewQuotationRepository(store), numbers, settings, log)
	orders := service.NewOrderService(repository.NewOrderRepository(store), numbers, domain.CustomerFieldRules{
		Required: testBusiness.RequiredCustomerFields,
		Optional: testBusiness.OptionalCustomerFields,
	}, log)

	archive, err := storage.NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	pdf := export.NewPDFGenerator(testBusiness, currency, priceManager)
	whatsapp := export.NewWhatsAppBuilder(testBusiness, currency)
	tokens := auth.NewTokenManager(&config.AdminConfig{
		APIKey:      "test-api-key",
		JWTSecret:   "test-secret-with-enough-entropy",
		TokenTTLMin: 60,
	})

	catalogHandler := NewCatalogHandler(catalogManager, priceManager, log)
	quotationHandler := NewQuotationHandler(quotations, settings, catalogManager, priceManager, pdf, whatsapp, archive, log)
	orderHandler := NewOrderHandler(orders, quotations, whatsapp, log)
	authHandler := NewAuthHandler(tokens, log)
	adminHandler := NewAdminHandler(orders, quotations, settings, catalogManager, priceManager, archive, log)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{id}/price", catalogHandler.GetProductPrice)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", catalogHandler.GetCart)
			r.Post("/items", catalogHandler.AddCartItem)
			r.Put("/items/{productId}", catalogHandler.UpdateCartItem)
			r.Delete("/items/{productId}", catalogHandler.RemoveCartItem)
			r.Delete("/", catalogHandler.ClearCart)
		})
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", quotationHandler.List)
			r.Post("/", quotationHandler.Create)
			r.Post("/preview", quotationHandler.Preview)
			r.Post("/pdf", quotationHandler.ExportPDF)
			r.Post("/whatsapp", quotationHandler.ExportWhatsApp)
			r.Delete("/expired", quotationHandler.DeleteExpired)
			r.Get("/{id}", quotationHandler.GetByID)
			r.Patch("/{id}/status", quotationHandler.UpdateStatus)
			r.Get("/{id}/pdf", quotationHandler.DownloadPDF)
			r.Delete("/{id}", quotationHandler.Delete)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.GetByID)
			r.Patch("/{id}/status", orderHandler.UpdateStatus)
			r.Get("/{id}/whatsapp", orderHandler.GetWhatsAppMessage)
			r.Delete("/{id}", orderHandler.Delete)
		})
		r.Post("/auth/login", authHandler.Login)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/statistics", adminHandler.GetStatistics)
			r.Get("/settings", adminHandler.GetSettings)
			r.Put("/settings", adminHandler.UpdateSettings)
			r.Delete("/settings", adminHandler.ResetSettings)
			r.Put("/catalog", adminHandler.UpdateCatalog)
			r.Delete("/catalog", adminHandler.ClearCatalog)
			r.Post("/orders/cleanup", adminHandler.CleanOldOrders)
			r.Get("/orders/export", adminHandler.ExportOrdersCSV)
			r.Get("/quotations/export", adminHandler.ExportQuotationsCSV)
		})
	})

	return &testEnv{
		router:     r,
		quotations: quotations,
		orders:     orders,
		catalog:    catalogManager,
		tokens:     tokens,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

// createQuotation persists a quotation through the API and returns it.
func createQuotation(t *testing.T, env *testEnv) domain.Quotation {
	rec := env.do(t, http.MethodPost, "/api/v1/quotations", domain.CreateQuotationRequest{
		Items: []domain.QuotationItemRequest{
			{ProductID: "P001", Name: "Poste de quebracho", Category: "postes", Quantity: 10, UnitPrice: floatPtr(3500)},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var quotation domain.Quotation
	decodeBody(t, rec, &quotation)
	return quotation
}
