// Package server exposes the formatter over HTTP.
//
// Routes:
//
//	POST /format   body is Typst source, response is the formatted text
//	POST /check    response is {"changed": bool}
//	GET  /healthz  liveness probe
//
// /format and /check accept the query parameters width and blank_lines.
// Documents with syntax errors are answered with 422 and a JSON error.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/cache"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// Defaults for the HTTP server.
const (
	DefaultMaxBodyBytes    = 8 << 20
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr string

	// Format holds the formatting defaults for requests without
	// query parameters.
	Format typstyle.Options

	// Cache stores formatted output. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	// MaxBodyBytes bounds request bodies. Zero selects the default.
	MaxBodyBytes int64

	Logger *log.Logger
}

// Server is the HTTP formatting service.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	s := &Server{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/format", s.handleFormat)
	r.Post("/check", s.handleCheck)

	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return logging.WithLogger(context.Background(), s.opts.Logger)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("server listening", logging.FieldAddr, ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.opts.Logger.Info("server stopped")
	return nil
}
