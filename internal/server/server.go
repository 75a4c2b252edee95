// Package server hosts the streamable HTTP MCP transport alongside health
// and version endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/config"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
)

// shutdownTimeout bounds the graceful stop after ctx is cancelled.
const shutdownTimeout = 10 * time.Second

// Server manages the HTTP server and routes.
type Server struct {
	cfg      config.ServerConfig
	mcp      http.Handler
	registry *registry.Registry
	router   *http.ServeMux
	server   *http.Server
	logger   *common.Logger
}

// New creates the HTTP server for a stateless streamable MCP endpoint.
func New(cfg config.ServerConfig, mcpSrv *mcpserver.MCPServer, reg *registry.Registry, logger *common.Logger) *Server {
	s := &Server{
		cfg: cfg,
		mcp: mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithStateLess(true),
			mcpserver.WithEndpointPath(cfg.EndpointPath),
		),
		registry: reg,
		logger:   logger,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:        cfg.Addr(),
		Handler:     s.withMiddleware(s.router),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		// Upstream calls are bounded by upstream.timeout, not here.
		WriteTimeout: 0,
	}

	return s
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s%s", s.server.Addr, s.cfg.EndpointPath)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Run starts the server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
