// Package server provides the HTTP API and routing for the dashboard.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"hvac_simulator/internal/simulator"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Engine      *simulator.Engine
	WS          http.Handler // mounted at /ws when set
	Addr        string
	FrontendDir string
	CORSOrigins []string
	DevMode     bool
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	engine *simulator.Engine
	cfg    Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		engine: cfg.Engine,
		cfg:    cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// Outside the timeout and compression group; the upgrade hijacks the conn.
	if s.cfg.WS != nil {
		s.router.Handle("/ws", s.cfg.WS)
	}

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		if !s.cfg.DevMode {
			r.Use(middleware.Compress(5))
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Put("/parameters", s.handleSetParameters)
			r.Put("/hyperparameters", s.handleSetHyperparameters)
			r.Put("/display", s.handleSetDisplay)
			r.Get("/environment", s.handleEnvironment)
			r.Post("/train", s.handleTrain)
			r.Get("/runs/latest", s.handleLatestRun)
			r.Get("/summary", s.handleSummary)
			r.Get("/dashboard", s.handleDashboard)

			r.Route("/export", func(r chi.Router) {
				r.Get("/environment", s.handleExportEnvironment)
				r.Get("/run", s.handleExportRun)
			})
		})

		if s.cfg.FrontendDir != "" {
			if _, err := os.Stat(s.cfg.FrontendDir); err == nil {
				s.log.Info().Str("dir", s.cfg.FrontendDir).Msg("serving frontend")
				r.Handle("/*", http.FileServer(http.Dir(s.cfg.FrontendDir)))
			}
		}
	})
}

// Start begins listening. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
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
