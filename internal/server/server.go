package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lqsky7/leetfeedback/internal/config"
	"github.com/lqsky7/leetfeedback/internal/logging"
	"github.com/lqsky7/leetfeedback/internal/store"
)

// Server is the leetfeedback REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	now       func() time.Time

	// mu serializes every mutation of the stored sequence.
	mu sync.Mutex
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithClock replaces time.Now for scoring and attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logging.Component(logger, "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Route("/problems", func(r chi.Router) {
			r.Get("/", s.handleListProblems)
			r.Put("/", s.handleReplaceProblems)
			r.Route("/{index}", func(r chi.Router) {
				r.Get("/", s.handleGetProblem)
				r.Post("/ignore", s.handleToggleIgnore)
				r.Get("/attempts", s.handleListAttempts)
				r.Post("/attempts", s.handleRecordAttempt)
			})
		})

		r.Get("/schedule/today", s.handleScheduleToday)
		r.Get("/stats", s.handleStats)
	})
}
