// Package httpapi provides the HTTP front of the inference service: the full
// transaction form of /predict plus health, readiness and metrics routes.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/metrics"
	"fraud-inference/internal/model"
	"fraud-inference/internal/scoring"
)

// Readiness reports whether the process may take traffic.
type Readiness interface {
	Ready() bool
	StateName() string
}

// Config holds the server dependencies.
type Config struct {
	Log       zerolog.Logger
	Scorer    scoring.Scorer
	Audit     audit.Publisher
	Readiness Readiness
	Model     model.Info
}

// Server represents the HTTP server.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	scorer    scoring.Scorer
	audit     audit.Publisher
	readiness Readiness
	model     model.Info
	validate  *validator.Validate
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	if cfg.Audit == nil {
		cfg.Audit = audit.Nop{}
	}
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "http").Logger(),
		scorer:    cfg.Scorer,
		audit:     cfg.Audit,
		readiness: cfg.Readiness,
		model:     cfg.Model,
		validate:  newValidator(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on lis until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info().Str("addr", lis.Addr().String()).Msg("HTTP server listening")
	if err := s.server.Serve(lis); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(metrics.Middleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.readinessGate)
		r.Post("/predict", s.handlePredict)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// readinessGate answers 503 until the lifecycle reaches SERVING.
func (s *Server) readinessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.readiness != nil && !s.readiness.Ready() {
			s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error: "service is " + s.readiness.StateName(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
