// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and build info
//	POST /v1/layout            place a scene, respond with the layout
//	POST /v1/render/{format}   place (or take) a layout and render it
//	POST /v1/thumbs            lay out an annotated item's thumbs
//
// Every request runs its own placer. Errors are JSON bodies of the form
// {"error": {"code": "...", "message": "..."}}.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/benreynwar/veifa/pkg/annotation"
	"github.com/benreynwar/veifa/pkg/pipeline"
	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/thumbs"
)

// Defaults for [Config].
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 1 << 20
)

// Config wires a Server.
type Config struct {
	// Runner executes layouts. Required.
	Runner *pipeline.Runner

	// Placement applies to /v1/layout and /v1/render.
	Placement placement.Config

	// Thumbs configures /v1/thumbs.
	Thumbs thumbs.Config

	// Registry decodes annotation documents. Default: the built-in kinds.
	Registry *annotation.Registry

	// Measurer sizes thumbs and titles. Default: thumbs.DefaultMeasurer.
	Measurer thumbs.Measurer

	// TTL for cached layouts and artifacts. Default: pipeline.DefaultTTL.
	TTL time.Duration

	// Timeout bounds each request. Default: 30s.
	Timeout time.Duration

	// MaxBodyBytes limits request bodies. Default: 1 MiB.
	MaxBodyBytes int64

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	logger *log.Logger
}

// New returns a server with defaults applied to cfg.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Registry == nil {
		cfg.Registry = annotation.DefaultRegistry("")
	}
	if cfg.Measurer == nil {
		cfg.Measurer = thumbs.DefaultMeasurer()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Thumbs.Placement == (placement.Config{}) {
		cfg.Thumbs.Placement = cfg.Placement
	}
	logger := cfg.Logger
	if logger == nil {
		logger = cfg.Runner.Logger
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the routed handler with middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
		r.Post("/thumbs", s.handleThumbs)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r))
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) options(refresh bool) pipeline.Options {
	return pipeline.Options{
		Placement: s.cfg.Placement,
		TTL:       s.cfg.TTL,
		Refresh:   refresh,
	}
}
