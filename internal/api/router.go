// Package api provides the HTTP API for the air-quality dashboard.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/api/handler"
	"github.com/howstheair/dashboard/internal/api/middleware"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Dashboard   *dashboard.Service
	Tokens      middleware.TokenValidator
	// Backend reports upstream health for /v1/ops/ready. Optional.
	Backend    handler.ProviderHealth
	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "howstheair-dashboard-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement behind a load balancer
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Backend, cfg.Dashboard.Activity())
	dashboardHandler := handler.NewDashboardHandler(cfg.Dashboard, cfg.Logger)
	stationHandler := handler.NewStationHandler(cfg.Dashboard, cfg.Logger)
	readingHandler := handler.NewReadingHandler(cfg.Dashboard, cfg.Logger)
	syncHandler := handler.NewSyncHandler(cfg.Dashboard, cfg.Logger)
	activityHandler := handler.NewActivityHandler(cfg.Dashboard.Activity(), cfg.Logger)

	authMiddleware := middleware.Auth(cfg.Tokens)

	readRateLimit := middleware.RateLimitByIP(middleware.ReadRateLimit)               // 120 req/min
	mutationRateLimit := middleware.RateLimitByOperator(middleware.MutationRateLimit) // 30 req/min
	syncRateLimit := middleware.RateLimitByOperator(middleware.SyncRateLimit)         // 5 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Dashboard reads (public)
		r.Group(func(r chi.Router) {
			r.Use(readRateLimit)
			r.Get("/dashboard", dashboardHandler.Overview)
			r.Get("/stations", stationHandler.ListStations)
			r.Get("/stations/search", stationHandler.SearchStations)
			r.Get("/readings", readingHandler.ListReadings)
			r.Get("/readings/history", readingHandler.History)
			r.Get("/sync/last", syncHandler.LastSync)
		})

		// Station management (operators)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(mutationRateLimit)
			r.Use(middleware.RequireJSON)
			r.Post("/stations", stationHandler.CreateStation)
			r.Route("/stations/{id}", func(r chi.Router) {
				r.Patch("/", stationHandler.UpdateStation)
				r.Delete("/", stationHandler.DeleteStation)
				r.Post("/toggle", stationHandler.ToggleStation)
			})
			r.Get("/activity", activityHandler.ListActivity)
		})

		// Manual sync fans out upstream and gets its own budget
		r.With(authMiddleware, syncRateLimit).Post("/sync", syncHandler.Sync)
	})

	return r
}
