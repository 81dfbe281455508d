// package server contains middleware & handlers for the movie discovery JSON API
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, compression, etc.
type Middleware func(http.Handler) http.Handler

const shutdownTimeout = 5 * time.Second

// Server serves the JSON API.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *log.Logger
}

// New builds a Server for api listening on cfg's address.
func New(cfg shared.ServerConfig, api *API, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	handler := NewRouter(api, cfg.AllowedOrigins, logger)
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: handler,
		logger:  logger,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
