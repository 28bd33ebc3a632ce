package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"clearline-hq/arbiter/pkg/audit"
	"clearline-hq/arbiter/pkg/config"
	"clearline-hq/arbiter/pkg/telemetry/health"
)

// Options carries the collaborators the server exposes over HTTP.
type Options struct {
	// Decider runs decision requests. Required for the decision endpoint.
	Decider Decider

	// Sink answers the read-only audit queries. Required for the query
	// endpoints.
	Sink audit.Sink

	// Health backs the liveness and readiness probes. A default checker
	// with no registered checks is used when nil.
	Health *health.Checker

	// Metrics serves the /metrics endpoint. Omitted from the routes when
	// nil.
	Metrics http.Handler

	// Logger receives request and lifecycle logs. Defaults to
	// slog.Default.
	Logger *slog.Logger

	// Version, Commit, and BuildDate feed the /version endpoint.
	Version   string
	Commit    string
	BuildDate string
}

// Server is the HTTP API server for the decision engine.
type Server struct {
	config       config.ServerConfig
	opts         Options
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server from the listen configuration and collaborators.
func New(cfg config.ServerConfig, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Health == nil {
		opts.Health = health.New(0)
	}
	return &Server{
		config:       cfg,
		opts:         opts,
		logger:       opts.Logger.With("component", "server"),
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// Shutdown is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, bounded by the configured
// shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is accepting requests.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the fully assembled HTTP handler, routes plus middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.opts.Decider != nil {
		mux.Handle("POST /v1/decisions", &decideHandler{decider: s.opts.Decider, logger: s.logger})
	}
	if s.opts.Sink != nil {
		mux.Handle("GET /v1/decisions", &decisionsHandler{sink: s.opts.Sink})
		mux.Handle("GET /v1/decisions/{id}/timeline", &timelineHandler{sink: s.opts.Sink})
		mux.Handle("GET /v1/verdicts", &verdictsHandler{sink: s.opts.Sink})
	}

	mux.HandleFunc("GET /health", s.opts.Health.LivenessHandler())
	mux.HandleFunc("GET /ready", s.opts.Health.ReadinessHandler())
	mux.HandleFunc("GET /version", health.VersionHandler(s.opts.Version, s.opts.Commit, s.opts.BuildDate))

	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics)
	}

	var handler http.Handler = mux
	handler = TimeoutMiddleware(s.config.WriteTimeout)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(s.logger)(handler)

	return handler
}
