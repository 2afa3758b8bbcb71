// Package api provides the HTTP server for the AQICN web panel and JSON API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aqicn/aqicn/internal/api/handler"
	"github.com/aqicn/aqicn/internal/api/middleware"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Service performs the lookups behind the panel and JSON API.
	Service handler.Looker

	// Health reports upstream circuit breakers for the ops endpoints.
	Health handler.HealthSource

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	// RequireTLS rejects plain HTTP requests forwarded by a proxy.
	RequireTLS bool

	// PanelLimit bounds the panel text in bytes.
	PanelLimit int
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "aqicn-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Health)
	airQualityHandler := handler.NewAirQualityHandler(cfg.Service)
	panelHandler := handler.NewPanelHandler(cfg.Service, cfg.PanelLimit)

	// Lookups share one per-IP budget across the panel and the JSON API.
	lookupRateLimit := middleware.RateLimitByIP(middleware.LookupRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	// Browser panel
	r.With(standardRateLimit).Get("/", panelHandler.Show)
	r.Route("/panel", func(r chi.Router) {
		r.Use(middleware.RequireForm)
		r.With(lookupRateLimit).Post("/current", panelHandler.Current)
		r.With(lookupRateLimit).Post("/forecast", panelHandler.Forecast)
		r.With(standardRateLimit).Post("/clear", panelHandler.Clear)
	})

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(standardRateLimit).Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/air-quality", func(r chi.Router) {
			r.Use(lookupRateLimit)
			r.Get("/current", airQualityHandler.GetCurrent)
			r.Get("/forecast", airQualityHandler.GetForecast)
		})
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	return r
}
