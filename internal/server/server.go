// Package server provides the HTTP API for the catalog search service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ludmilasolutions/productos/internal/config"
	"github.com/ludmilasolutions/productos/internal/metrics"
	"github.com/ludmilasolutions/productos/internal/search"
)

// Server is the HTTP server for the productos API.
type Server struct {
	engine  *search.Engine
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	server  *http.Server
}

// NewServer creates a server with the given dependencies. metrics may be nil.
func NewServer(engine *search.Engine, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Server {
	return &Server{
		engine:  engine,
		config:  cfg,
		logger:  logger,
		metrics: m,
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/categories", s.handleCategories)
	r.Get("/api/v1/items/{code}/share", s.handleShare)
	r.Post("/api/v1/reload", s.handleReload)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := s.routes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
