// Package http serves the widget API with gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/zenquote/internal/platform/config"
)

// Server owns the gin engine and its listener.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	logger *slog.Logger

	ln   net.Listener
	done chan error
}

// New builds a server for cfg. Routes are registered on Engine before Start.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(middleware.MaxBodySize(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		logger: logger,
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr is the bound address once started, and the configured one before.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}

	return s.srv.Addr
}

// Start binds the listener and serves in the background. A bind failure is
// returned directly; a later serve failure arrives on Done.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("http server listen: %w", err)
	}

	s.ln = ln
	s.done = make(chan error, 1)

	s.logger.Info("http server listening", slog.String("addr", s.Addr()))

	go func() {
		defer close(s.done)

		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.done <- fmt.Errorf("http server: %w", err)
		}
	}()

	return nil
}

// Done is closed once serving stops. It carries the error when serving
// stopped for any reason other than Shutdown. Nil before Start.
func (s *Server) Done() <-chan error {
	return s.done
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("http server stopped")

	return nil
}
