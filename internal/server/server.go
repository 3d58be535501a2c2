// Package server wires a configured platform to a runnable transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-athena/pkg/health"
	"github.com/txn2/mcp-athena/pkg/platform"
)

// Version is set at build time.
var Version = "dev"

const shutdownTimeout = 10 * time.Second

// Server hosts a platform over the configured transport.
type Server struct {
	platform *platform.Platform
	checker  *health.Checker
}

// NewWithConfig loads a configuration file and builds the server.
// Additional options override components built from configuration,
// which is how tests inject fake engines and catalogs.
func NewWithConfig(ctx context.Context, path string, opts ...platform.Option) (*Server, error) {
	cfg, err := platform.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return New(ctx, cfg, opts...)
}

// New builds a server around cfg.
func New(ctx context.Context, cfg *platform.Config, opts ...platform.Option) (*Server, error) {
	p, err := platform.New(ctx, append([]platform.Option{platform.WithConfig(cfg)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("building platform: %w", err)
	}
	return &Server{
		platform: p,
		checker:  health.NewChecker(cfg.Server.Name),
	}, nil
}

// Platform returns the underlying platform.
func (s *Server) Platform() *platform.Platform {
	return s.platform
}

// Checker returns the readiness checker.
func (s *Server) Checker() *health.Checker {
	return s.checker
}

// Run serves until ctx is cancelled. The transport comes from
// configuration; stdio is the default.
func (s *Server) Run(ctx context.Context) error {
	if s.platform.Config().Server.Transport == "http" {
		return s.runHTTP(ctx)
	}
	return s.runStdio(ctx)
}

func (s *Server) runStdio(ctx context.Context) error {
	s.checker.SetReady()
	defer s.checker.SetDraining()

	err := s.platform.MCPServer().Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving stdio: %w", err)
	}
	return nil
}

// httpHandler builds the HTTP mux: the streamable MCP endpoint at /mcp
// plus liveness and readiness probes.
func (s *Server) httpHandler() http.Handler {
	mux := http.NewServeMux()
	s.checker.Mount(mux)
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.platform.MCPServer()
	}, nil))
	return mux
}

func (s *Server) runHTTP(ctx context.Context) error {
	addr := s.platform.Config().Server.Address
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.httpHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http transport listening", "address", addr)
		errCh <- httpServer.ListenAndServe()
	}()
	s.checker.SetReady()

	select {
	case <-ctx.Done():
		s.checker.SetDraining()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	case err := <-errCh:
		s.checker.SetDraining()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	}
}

// Close releases platform resources.
func (s *Server) Close() error {
	return s.platform.Close()
}
