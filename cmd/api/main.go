package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/docs"
	"github.com/ami-aftermarket/quotation-api/internal/config"
	"github.com/ami-aftermarket/quotation-api/internal/database"
	"github.com/ami-aftermarket/quotation-api/internal/http/handler"
	"github.com/ami-aftermarket/quotation-api/internal/http/middleware"
	"github.com/ami-aftermarket/quotation-api/internal/http/router"
	"github.com/ami-aftermarket/quotation-api/internal/jobs"
	"github.com/ami-aftermarket/quotation-api/internal/logger"
	"github.com/ami-aftermarket/quotation-api/internal/mailer"
	"github.com/ami-aftermarket/quotation-api/internal/pricebook"
	"github.com/ami-aftermarket/quotation-api/internal/repository"
	"github.com/ami-aftermarket/quotation-api/internal/service"
	"github.com/ami-aftermarket/quotation-api/internal/storage"
)

// @title AMI Quotation API
// @version 1.0
// @description Inquiry and quotation workflow for heavy-equipment aftermarket spare parts

// @contact.name API Support
// @contact.email aftermarket-dev@ami.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize the offer letter archive
	archive, err := storage.NewArchive(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}

	log.Info("Archive initialized", zap.String("mode", cfg.Storage.Mode))

	// Outbound mail (simulated by default outside production)
	mail := mailer.New(&cfg.Mailer, log)

	// Regional pricebook connection (optional, read-only). The app continues
	// without benchmarks when it is not configured or unreachable.
	var pricebookClient *pricebook.Client
	if cfg.Pricebook.Enabled {
		pricebookClient, err = pricebook.NewClient(&cfg.Pricebook, log)
		if err != nil {
			log.Warn("Pricebook connection failed, continuing without it",
				zap.Error(err),
			)
		} else if pricebookClient != nil {
			log.Info("Pricebook connected successfully",
				zap.Int("max_open_conns", cfg.Pricebook.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Pricebook.QueryTimeout),
			)
		}
	} else {
		log.Info("Pricebook not configured, skipping")
	}

	// Initialize repositories
	partRepo := repository.NewPartRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	localizationRepo := repository.NewLocalizationRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	quoteSequenceRepo := repository.NewQuoteSequenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(partRepo, log)
	inquiryService := service.NewInquiryService(inquiryRepo, partRepo, quotationRepo, log, db)
	localizationService := service.NewLocalizationService(localizationRepo, inquiryRepo, log, db)
	quotationService := service.NewQuotationService(quotationRepo, quoteSequenceRepo, inquiryRepo, partRepo, pricebookClient, log, db)
	notificationService := service.NewNotificationService(notificationRepo, quotationRepo, mail, archive, log)
	dashboardService := service.NewDashboardService(inquiryRepo, localizationRepo, quotationRepo, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	inquiryHandler := handler.NewInquiryHandler(inquiryService, localizationService, quotationService, log)
	localizationHandler := handler.NewLocalizationHandler(localizationService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, localizationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		pricebookClient,
		rateLimiter,
		catalogHandler,
		inquiryHandler,
		localizationHandler,
		quotationHandler,
		notificationHandler,
		dashboardHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.EnableOverdueReminder {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterOverdueReminderJob(
			scheduler,
			localizationService,
			mail,
			cfg.Jobs.ReminderRecipient,
			cfg.Jobs.OverdueThresholdDays,
			log,
			cfg.Jobs.OverdueReminderSchedule,
			2*time.Minute,
		); err != nil {
			log.Error("Failed to register overdue reminder job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with overdue reminder job",
				zap.String("cron_expr", cfg.Jobs.OverdueReminderSchedule),
				zap.Int("threshold_days", cfg.Jobs.OverdueThresholdDays),
			)
		}
	} else {
		log.Info("Overdue reminder job disabled")
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

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close pricebook connection if initialized
		if pricebookClient != nil {
			if err := pricebookClient.Close(); err != nil {
				log.Warn("Error closing pricebook connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
