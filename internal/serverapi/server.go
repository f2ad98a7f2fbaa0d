// Package serverapi is the thin HTTP veneer over the router described in
// spec.md §6: POST /api/chat, POST /api/chat/stream (SSE), and GET
// /health. It owns no pipeline state itself — every request is served
// against a *runtime.Context built once at process startup.
package serverapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/konsult-ai/rag-router/internal/config"
	"github.com/konsult-ai/rag-router/internal/llmclient"
	"github.com/konsult-ai/rag-router/internal/router"
	"go.uber.org/zap"
)

// Server is the HTTP API for the RAG router.
type Server struct {
	router      *router.Router
	rateLimiter *llmclient.Limiter
	config      *config.ServerConfig
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(r *router.Router, rateLimiter *llmclient.Limiter, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		router:      r,
		rateLimiter: rateLimiter,
		config:      cfg,
		logger:      logger,
	}
}

// Handler builds the chi router. Exported so tests can drive the API
// through httptest.NewServer without binding a real port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(150 * time.Second))

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/chat/stream", s.handleChatStream)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
