package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ami-aftermarket/quotation-api/internal/config"
	"github.com/ami-aftermarket/quotation-api/internal/database"
	"github.com/ami-aftermarket/quotation-api/internal/http/handler"
	"github.com/ami-aftermarket/quotation-api/internal/http/middleware"
	"github.com/ami-aftermarket/quotation-api/internal/pricebook"

	_ "github.com/ami-aftermarket/quotation-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	pricebookClient     *pricebook.Client
	rateLimiter         *middleware.RateLimiter
	catalogHandler      *handler.CatalogHandler
	inquiryHandler      *handler.InquiryHandler
	localizationHandler *handler.LocalizationHandler
	quotationHandler    *handler.QuotationHandler
	notificationHandler *handler.NotificationHandler
	dashboardHandler    *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	pricebookClient *pricebook.Client,
	rateLimiter *middleware.RateLimiter,
	catalogHandler *handler.CatalogHandler,
	inquiryHandler *handler.InquiryHandler,
	localizationHandler *handler.LocalizationHandler,
	quotationHandler *handler.QuotationHandler,
	notificationHandler *handler.NotificationHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		pricebookClient:     pricebookClient,
		rateLimiter:         rateLimiter,
		catalogHandler:      catalogHandler,
		inquiryHandler:      inquiryHandler,
		localizationHandler: localizationHandler,
		quotationHandler:    quotationHandler,
		notificationHandler: notificationHandler,
		dashboardHandler:    dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Pricebook health check. Reports disabled rather than unhealthy when the
	// integration is not configured.
	r.Get("/health/pricebook", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if rt.pricebookClient == nil || !rt.pricebookClient.IsEnabled() {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "disabled",
				"service": "pricebook",
			})
			return
		}

		status := rt.pricebookClient.HealthCheck(r.Context())
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(status)
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// The pricebook is an optional dependency; it never fails readiness
		if rt.pricebookClient != nil && rt.pricebookClient.IsEnabled() {
			status := rt.pricebookClient.HealthCheck(r.Context())
			checks["pricebook"] = map[string]interface{}{
				"status": status.Status,
			}
		} else {
			checks["pricebook"] = map[string]interface{}{
				"status": "disabled",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Parts catalog
		r.Route("/parts", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.List)
			r.Post("/", rt.catalogHandler.Create)
			r.Get("/{partNumber}", rt.catalogHandler.Get)
			r.Put("/{partNumber}", rt.catalogHandler.Update)
			r.Delete("/{partNumber}", rt.catalogHandler.Delete)
			r.Get("/{partNumber}/estimate", rt.catalogHandler.EstimateProcurement)
			r.Get("/{partNumber}/benchmark", rt.quotationHandler.Benchmark)
		})

		// Fixed customer roster
		r.Get("/customers", rt.inquiryHandler.Customers)

		// Inquiries and workflow transitions
		r.Route("/inquiries", func(r chi.Router) {
			r.Get("/", rt.inquiryHandler.List)
			r.Post("/", rt.inquiryHandler.Create)
			r.Get("/board", rt.inquiryHandler.Board)
			r.Get("/{id}", rt.inquiryHandler.Get)
			r.Post("/{id}/validate", rt.inquiryHandler.Validate)
			r.Post("/{id}/cancel", rt.inquiryHandler.Cancel)
			r.Post("/{id}/purchase-order", rt.inquiryHandler.CreatePurchaseOrder)

			// Localization sub-process
			r.Get("/{id}/localizations", rt.inquiryHandler.Localizations)
			r.Post("/{id}/localization", rt.inquiryHandler.StartLocalization)
			r.Post("/{id}/localization/finish", rt.inquiryHandler.FinishLocalization)

			// Quotation cycle
			r.Get("/{id}/quotations", rt.inquiryHandler.QuotationHistory)
			r.Post("/{id}/quotations", rt.inquiryHandler.SubmitQuotation)
		})

		// Localization projects
		r.Route("/localizations", func(r chi.Router) {
			r.Get("/", rt.localizationHandler.List)
			r.Get("/suppliers", rt.localizationHandler.Suppliers)
			r.Get("/{id}", rt.localizationHandler.Get)
		})

		// Quotations
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", rt.quotationHandler.List)
			r.Post("/calculate", rt.quotationHandler.CalculatePrice)
			r.Get("/{quoteId}", rt.quotationHandler.Get)
			r.Post("/{quoteId}/decision", rt.quotationHandler.Decide)
			r.Post("/{quoteId}/send", rt.notificationHandler.SendOffer)
			r.Get("/{quoteId}/letter", rt.notificationHandler.GetLetter)
			r.Get("/{quoteId}/notifications", rt.notificationHandler.ListByQuote)
		})

		// Outbound send log
		r.Get("/notifications", rt.notificationHandler.List)

		// Dashboard
		r.Get("/dashboard", rt.dashboardHandler.Metrics)
		r.Get("/dashboard/overdue-localizations", rt.dashboardHandler.OverdueLocalizations)
	})

	return r
}
