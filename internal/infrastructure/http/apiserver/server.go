// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/config"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/monitoring"
	"github.com/alchemorsel/nutrimatch/pkg/healthcheck"
)

// Server represents the JSON API HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	server     *http.Server
	router     *chi.Mux
	handlers   *handlers.APIHandlers
	middleware *middleware.Middleware
	health     *healthcheck.HealthCheck
	metrics    *monitoring.MetricsCollector
}

// NewServer creates a new API server instance
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.APIHandlers,
	mw *middleware.Middleware,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *Server {
	s := &Server{
		config:     cfg,
		logger:     log.Named("apiserver"),
		handlers:   h,
		middleware: mw,
		health:     health,
		metrics:    metrics,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:           cfg.ListenAddr(),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       zap.NewStdLog(s.logger),
	}

	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.middleware.Security)
	r.Use(s.middleware.CORS)
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Use(s.metrics.HTTPMiddleware)
	}

	// Operational endpoints
	r.Get(s.config.Monitoring.HealthCheckPath, s.health.Handler())
	r.Get(s.config.Monitoring.ReadinessPath, s.health.ReadinessHandler())
	r.Get("/live", s.health.LivenessHandler())
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}
	r.Get("/openapi.yaml", ServeOpenAPISpec)

	// API routes
	r.Group(func(r chi.Router) {
		r.Use(s.middleware.RateLimit)
		if s.config.Server.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		}
		if s.config.Server.EnableCompression {
			r.Use(chimiddleware.Compress(5, "application/json"))
		}
		r.Use(s.middleware.JSONOnly)

		r.Post("/searchRecipe", s.handlers.SearchRecipe)
		r.Post("/nutrition-profile", s.handlers.NutritionProfile)
		r.Get("/recipes/{id}", s.handlers.GetRecipe)
	})

	return r
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Server returns the underlying HTTP server instance
func (s *Server) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
