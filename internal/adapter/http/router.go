package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/handler"
	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntityHandler  *handler.EntityHandler
	AccountHandler *handler.AccountHandler
	StatsHandler   *handler.StatsHandler
	LedgerHandler  *handler.LedgerHandler
	HealthHandler  *handler.HealthHandler
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
	// RateLimiter is optional and applies to /api/v1 only.
	RateLimiter *middleware.RateLimiter
	Logger      zerolog.Logger
}

// NewRouter creates the read-only HTTP API router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metrics := cfg.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Route("/entities/{id}", func(r chi.Router) {
			r.Get("/balance", cfg.EntityHandler.Balance)
			r.Get("/obligations/monthly", cfg.EntityHandler.Obligations)
			r.Get("/ledger", cfg.EntityHandler.Ledger)
			r.Get("/stale", cfg.EntityHandler.Stale)
		})

		r.Get("/accounts/{id}/summary", cfg.AccountHandler.Summary)
		r.Get("/stats", cfg.StatsHandler.Latest)
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
