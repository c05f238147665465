package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/handler"
	"github.com/iho/runway/internal/adapter/http/middleware"
	"github.com/iho/runway/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional fields may be nil.
type RouterConfig struct {
	EntryHandler    *handler.EntryHandler
	SettingsHandler *handler.SettingsHandler
	ForecastHandler *handler.ForecastHandler
	HealthHandler   *handler.HealthHandler

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	HTTPMetrics    *middleware.HTTPMetrics
	RateLimiter    *middleware.RateLimiter
	// Auth guards /api/v1 when set.
	Auth func(http.Handler) http.Handler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
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
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}

		// Idempotency middleware for POST requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.List)
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Patch("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.Get)
			r.Patch("/", cfg.SettingsHandler.Update)
		})

		r.Route("/forecast", func(r chi.Router) {
			r.Get("/dashboard", cfg.ForecastHandler.Dashboard)
			r.Get("/projection", cfg.ForecastHandler.Projection)
			r.Get("/horizons", cfg.ForecastHandler.Horizons)
			r.Get("/insights", cfg.ForecastHandler.Insights)
		})
	})

	return r
}
