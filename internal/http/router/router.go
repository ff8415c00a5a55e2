package router

import (
	"encoding/json"
	"net/http"

	"github.com/cercosdelsur/storefront-api/internal/auth"
	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/http/handler"
	"github.com/cercosdelsur/storefront-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	catalogHandler   *handler.CatalogHandler
	quotationHandler *handler.QuotationHandler
	orderHandler     *handler.OrderHandler
	authHandler      *handler.AuthHandler
	adminHandler     *handler.AdminHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	catalogHandler *handler.CatalogHandler,
	quotationHandler *handler.QuotationHandler,
	orderHandler *handler.OrderHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		catalogHandler:   catalogHandler,
		quotationHandler: quotationHandler,
		orderHandler:     orderHandler,
		authHandler:      authHandler,
		adminHandler:     adminHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := rt.db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Catalog and cart (public storefront surface)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.ListProducts)
			r.Get("/{id}/price", rt.catalogHandler.GetProductPrice)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.GetCart)
			r.Post("/items", rt.catalogHandler.AddCartItem)
			r.Put("/items/{productId}", rt.catalogHandler.UpdateCartItem)
			r.Delete("/items/{productId}", rt.catalogHandler.RemoveCartItem)
			r.Delete("/", rt.catalogHandler.ClearCart)
		})

		// Quotations
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", rt.quotationHandler.List)
			r.Post("/", rt.quotationHandler.Create)
			r.Post("/preview", rt.quotationHandler.Preview)
			r.Post("/pdf", rt.quotationHandler.ExportPDF)
			r.Post("/whatsapp", rt.quotationHandler.ExportWhatsApp)
			r.Delete("/expired", rt.quotationHandler.DeleteExpired)
			r.Get("/{id}", rt.quotationHandler.GetByID)
			r.Patch("/{id}/status", rt.quotationHandler.UpdateStatus)
			r.Get("/{id}/pdf", rt.quotationHandler.DownloadPDF)
			r.Delete("/{id}", rt.quotationHandler.Delete)
		})

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", rt.orderHandler.List)
			r.Post("/", rt.orderHandler.Create)
			r.Get("/{id}", rt.orderHandler.GetByID)
			r.Patch("/{id}/status", rt.orderHandler.UpdateStatus)
			r.Get("/{id}/whatsapp", rt.orderHandler.GetWhatsAppMessage)
			r.Delete("/{id}", rt.orderHandler.Delete)
		})

		// Admin login
		r.Post("/auth/login", rt.authHandler.Login)

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAdmin)

			r.Get("/statistics", rt.adminHandler.GetStatistics)
			r.Get("/settings", rt.adminHandler.GetSettings)
			r.Put("/settings", rt.adminHandler.UpdateSettings)
			r.Delete("/settings", rt.adminHandler.ResetSettings)
			r.Put("/catalog", rt.adminHandler.UpdateCatalog)
			r.Delete("/catalog", rt.adminHandler.ClearCatalog)
			r.Post("/orders/cleanup", rt.adminHandler.CleanOldOrders)
			r.Get("/orders/export", rt.adminHandler.ExportOrdersCSV)
			r.Get("/quotations/export", rt.adminHandler.ExportQuotationsCSV)
		})
	})

	return r
}
