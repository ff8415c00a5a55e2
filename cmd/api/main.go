package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/auth"
	"github.com/cercosdelsur/storefront-api/internal/catalog"
	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/database"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/export"
	"github.com/cercosdelsur/storefront-api/internal/http/handler"
	"github.com/cercosdelsur/storefront-api/internal/http/middleware"
	"github.com/cercosdelsur/storefront-api/internal/http/router"
	"github.com/cercosdelsur/storefront-api/internal/jobs"
	"github.com/cercosdelsur/storefront-api/internal/logger"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/cercosdelsur/storefront-api/internal/repository"
	"github.com/cercosdelsur/storefront-api/internal/service"
	"github.com/cercosdelsur/storefront-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize artifact archive
	archive, err := storage.NewArchive(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	kvStore := repository.NewKVStore(db)
	quotationRepo := repository.NewQuotationRepository(kvStore)
	orderRepo := repository.NewOrderRepository(kvStore)
	productRepo := repository.NewProductRepository(kvStore)
	cartRepo := repository.NewCartRepository(kvStore)
	settingsRepo := repository.NewSettingsRepository(kvStore)

	// Initialize catalog and pricing
	sheetSource := catalog.NewSheetSource(cfg.Catalog.SourceURL, &http.Client{
		Timeout: cfg.Catalog.FetchTimeoutDuration(),
	})
	catalogManager := catalog.NewManager(sheetSource, productRepo, cartRepo, log)
	priceManager := pricing.NewManager(catalogManager, catalog.DefaultProducts(), log)
	currency := pricing.NewCurrencyFormatter(&cfg.Currency)

	// Initialize services
	numberService := service.NewNumberService()
	settingsService := service.NewSettingsService(settingsRepo, cfg.Business)
	quotationService := service.NewQuotationService(quotationRepo, numberService, settingsService, log)
	orderService := service.NewOrderService(orderRepo, numberService, domain.CustomerFieldRules{
		Required: cfg.Business.RequiredCustomerFields,
		Optional: cfg.Business.OptionalCustomerFields,
	}, log)

	// Initialize exporters
	pdfGenerator := export.NewPDFGenerator(cfg.Business, currency, priceManager)
	whatsappBuilder := export.NewWhatsAppBuilder(cfg.Business, currency)

	// Initialize middleware
	tokenManager := auth.NewTokenManager(&cfg.Admin)
	authMiddleware := auth.NewMiddleware(tokenManager, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	catalogHandler := handler.NewCatalogHandler(catalogManager, priceManager, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, settingsService, catalogManager, priceManager, pdfGenerator, whatsappBuilder, archive, log)
	orderHandler := handler.NewOrderHandler(orderService, quotationService, whatsappBuilder, log)
	authHandler := handler.NewAuthHandler(tokenManager, log)
	adminHandler := handler.NewAdminHandler(orderService, quotationService, settingsService, catalogManager, priceManager, archive, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		catalogHandler,
		quotationHandler,
		orderHandler,
		authHandler,
		adminHandler,
	)

	// Initialize and start scheduler for background cleanup
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterCleanupJobs(scheduler, &cfg.Jobs, quotationService, orderService, log); err != nil {
			log.Error("Failed to register cleanup jobs", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with cleanup jobs",
				zap.String("cron_expr", cfg.Jobs.CleanupCron),
				zap.Int("order_retention_days", cfg.Jobs.OrderRetentionDays),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
