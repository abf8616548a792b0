package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hostlens/revpar-advisor/internal/config"
	"github.com/hostlens/revpar-advisor/internal/diagnosis"
	"github.com/hostlens/revpar-advisor/internal/insights"
	"github.com/hostlens/revpar-advisor/internal/listing"
)

// Server represents the API server
type Server struct {
	config   config.ServerConfig
	handler  http.Handler
	handlers *Handlers
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new API server
func NewServer(cfg config.Config, ds *listing.Dataset, ins *insights.Service, diag *diagnosis.Service) *Server {
	handlers := NewHandlers(ds, ins, diag)
	handlers.SetConfig(&cfg)
	router := SetupRoutes(handlers, cfg.Server.AllowedOrigins)

	return &Server{
		config:   cfg.Server,
		handler:  router,
		handlers: handlers,
		router:   router,
	}
}

// Handlers exposes the handler set for late wiring of optional services
func (s *Server) Handlers() *Handlers {
	return s.handlers
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
