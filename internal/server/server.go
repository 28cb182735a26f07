// Package server exposes the build pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/farepath/pkg/pipeline"
	"github.com/matzehuels/farepath/pkg/store"
)

// DefaultMaxBody bounds the size of a posted scenario.
const DefaultMaxBody = 1 << 20

// Config holds server configuration.
type Config struct {
	Addr    string
	Runner  *pipeline.Runner
	Logger  *log.Logger
	MaxBody int64

	// BuildTimeout bounds one POST /v1/builds request. Zero means no limit.
	BuildTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	router  *chi.Mux
	http    *http.Server
	runner  *pipeline.Runner
	log     *log.Logger
	maxBody int64
	timeout time.Duration
}

// New creates a server. cfg.Runner is required.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	s := &Server{
		router:  chi.NewRouter(),
		runner:  cfg.Runner,
		log:     logger.WithPrefix("http"),
		maxBody: cfg.MaxBody,
		timeout: cfg.BuildTimeout,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logging)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1/builds", func(r chi.Router) {
		r.Post("/", s.handleBuild)
		r.Get("/", s.handleListBuilds)
		r.Get("/{id}", s.handleGetBuild)
	})
}

func (s *Server) store() store.Store {
	return s.runner.Store
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.http.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
