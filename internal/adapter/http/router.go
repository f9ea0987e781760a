package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/storeledger/internal/adapter/http/handler"
	"github.com/iho/storeledger/internal/adapter/http/middleware"
	"github.com/iho/storeledger/internal/infrastructure/metrics"
	"github.com/iho/storeledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntityHandler    *handler.EntityHandler
	StatementHandler *handler.StatementHandler
	RecordHandler    *handler.RecordHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Clients and suppliers
		r.Route("/entities", func(r chi.Router) {
			r.Post("/", cfg.EntityHandler.Create)
			r.Get("/", cfg.EntityHandler.List)
			r.Get("/{id}", cfg.EntityHandler.Get)
			r.Get("/{id}/statement", cfg.StatementHandler.Statement)
			r.Get("/{id}/reconciliation", cfg.StatementHandler.Reconcile)
		})

		// Source records
		r.Route("/records", func(r chi.Router) {
			r.Post("/", cfg.RecordHandler.Create)
			r.Get("/{id}", cfg.RecordHandler.Get)
		})

		r.Get("/reconciliation", cfg.StatementHandler.ReconciliationReport)

		// Reports
		r.Route("/financials", func(r chi.Router) {
			r.Get("/", cfg.ReportHandler.Financials)
			r.Get("/branches", cfg.ReportHandler.Branches)
			r.Get("/monthly", cfg.ReportHandler.Monthly)
		})
		r.Get("/branches/{id}/financials", cfg.ReportHandler.BranchFinancials)
	})

	return r
}
