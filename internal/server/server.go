// Package server exposes the distributions and the simulation engine over
// a small JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"bloodsim/internal/config"
	"bloodsim/internal/distribution"
	"bloodsim/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// TableProvider is the slice of the ingest store the HTTP layer needs.
type TableProvider interface {
	Rows(distribution.Category) ([]distribution.ClassRow, error)
	Table(distribution.Category) (*distribution.Table, error)
	Tables() map[distribution.Category]*distribution.Table
	Invalidate()
}

// Server represents the HTTP server.
type Server struct {
	server   *http.Server
	router   chi.Router
	provider TableProvider
	cfg      *config.AppConfig
	started  time.Time
}

// New creates a server over the given distribution provider.
func New(cfg *config.AppConfig, provider TableProvider) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.HTTPAddr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:   router,
		provider: provider,
		cfg:      cfg,
		started:  time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/distributions/{group}", s.handleDistribution)
	s.router.Get("/simulate", s.handleSimulate)
	s.router.Post("/reload", s.handleReload)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the configured router, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Info().Str("addr", s.cfg.HTTPAddr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request through the global zerolog
// logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
