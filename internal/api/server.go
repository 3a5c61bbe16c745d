// Package api provides the HTTP API server and handlers for the recipe manager.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recipemanager/recipe-server/internal/config"
	"github.com/recipemanager/recipe-server/internal/ratelimit"
	"github.com/recipemanager/recipe-server/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	cfg      *config.Config
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// limiter may be nil, in which case requests are not rate limited.
func NewServer(cfg *config.Config, st store.Store, services *Services, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := chi.NewRouter()

	s := &Server{
		store:    st,
		services: services,
		router:   router,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Recipe Manager API", Version)
	humaConfig.Info.Description = "A simple API for managing recipes"
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler(logger)

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORS.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(metricsMiddleware)
	if s.limiter != nil {
		s.router.Use(s.rateLimit)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerRecipeRoutes()
	s.registerUserRoutes()
	s.registerTagRoutes()

	// With a frontend build present, "/" belongs to the SPA.
	if spa := s.frontendHandler(); spa != nil {
		s.router.NotFound(spa.ServeHTTP)
	} else {
		s.registerRootRoute()
	}
}
