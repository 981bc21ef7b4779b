// Package api provides the HTTP API server and handlers for the Shelfmark
// application.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog  *service.CatalogService
	settings *service.SettingsService
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(catalog *service.CatalogService, settings *service.SettingsService, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Shelfmark API", "1.0.0")
	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		catalog:  catalog,
		settings: settings,
		router:   router,
		api:      humaAPI,
		logger:   logger,
	}

	s.setupMiddleware()
	s.registerHealthRoutes()
	s.registerRecordRoutes()
	s.registerViewRoutes()
	s.registerSeriesRoutes()
	s.registerLookupRoutes()
	s.registerSettingsRoutes()
	s.registerTransferRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, s.handleHealthCheck)
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status string `json:"status" doc:"Server health status"`
}

// HealthOutput is the Huma output wrapper for the health check.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: HealthResponse{Status: "healthy"}}, nil
}
