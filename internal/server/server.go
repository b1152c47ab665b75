// Package server provides the HTTP server that wires all services together.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/issuescout/issue-scout/internal/bus"
	"github.com/issuescout/issue-scout/internal/config"
	"github.com/issuescout/issue-scout/internal/history"
	"github.com/issuescout/issue-scout/internal/issue"
	"github.com/issuescout/issue-scout/internal/metrics"
	"github.com/issuescout/issue-scout/internal/pkg/logger"
	"github.com/issuescout/issue-scout/internal/pkg/middleware"
	"github.com/issuescout/issue-scout/internal/rank"
)

// Server is the main HTTP server that wires all services together.
type Server struct {
	cfg        Config
	appCfg     config.Config
	log        *logger.Logger
	httpServer *http.Server

	// Services
	store   *issue.Store
	history history.Store
	bus     bus.Bus
	scorer  *rank.Scorer
	metrics *metrics.Metrics
	limiter *middleware.RateLimiter

	mu      sync.RWMutex
	started bool
}

// Config configures the server.
type Config struct {
	// Host is the address to bind to.
	Host string

	// Port is the HTTP port.
	Port int

	// Version is the application version.
	Version string

	// ReadTimeout is the HTTP read timeout.
	ReadTimeout time.Duration

	// WriteTimeout is the HTTP write timeout.
	WriteTimeout time.Duration

	// ShutdownTimeout is the graceful shutdown timeout.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		Version:         "dev",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// New creates a new server with all dependencies.
func New(cfg Config, appCfg config.Config, log *logger.Logger) (*Server, error) {
	if cfg.Port == 0 {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:     cfg,
		appCfg:  appCfg,
		log:     log,
		store:   issue.NewStore(),
		scorer:  rank.NewScorer(),
		metrics: metrics.New(),
	}

	// Initialize event bus
	b, err := bus.NewBus(appCfg.Bus, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	s.bus = b

	// Initialize history store
	switch appCfg.History.Type {
	case "redis":
		hs, err := history.NewRedisStore(appCfg.History.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis history store: %w", err)
		}
		s.history = hs
	default:
		s.history = history.NewMemoryStore()
	}

	// Initialize rate limiter
	if appCfg.Security.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerMinute: appCfg.Security.RateLimit,
			Burst:             appCfg.Security.RateLimit / 10,
			CleanupInterval:   time.Minute,
		})
	}

	// Every search feeds back into the suggestion history.
	if err := s.subscribeHistoryRecorder(); err != nil {
		return nil, fmt.Errorf("failed to subscribe history recorder: %w", err)
	}

	// Seed the issue store from a file when configured.
	if appCfg.IssuesFile != "" {
		if err := s.loadIssuesFile(appCfg.IssuesFile); err != nil {
			return nil, fmt.Errorf("failed to load issues file: %w", err)
		}
	}

	return s, nil
}

// subscribeHistoryRecorder records every performed search in the
// history store, off the request path.
func (s *Server) subscribeHistoryRecorder() error {
	return s.bus.Subscribe(context.Background(), bus.TopicSearchPerformed,
		func(ctx context.Context, event bus.Event) error {
			var payload bus.SearchEvent
			if err := decodePayload(event.Payload, &payload); err != nil {
				return err
			}
			if payload.Owner == "" || payload.Repo == "" {
				return nil
			}
			return s.history.Touch(ctx, payload.Owner, payload.Repo)
		})
}

// decodePayload converts an event payload into a typed struct. Payloads
// arrive as typed values on the memory bus and as decoded JSON maps
// after a Kafka round trip; a JSON re-marshal handles both.
func decodePayload(payload any, v any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// loadIssuesFile seeds the issue store from a JSON file.
func (s *Server) loadIssuesFile(path string) error {
	repos, err := issue.LoadFile(path)
	if err != nil {
		return err
	}

	total := 0
	for name, issues := range repos {
		s.store.Put(name, issues)
		total += len(issues)
	}

	s.metrics.IssuesLoadedTotal.Add(float64(total))
	s.metrics.ReposTracked.Set(float64(len(s.store.Repos())))
	s.log.Info("Loaded issues from file", "path", path, "repos", len(repos), "issues", total)
	return nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.started = true
	s.mu.Unlock()

	handler := s.Routes()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Info("Starting HTTP server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("HTTP shutdown error", "error", err)
		}
	}

	// Close services
	if s.bus != nil {
		s.bus.Close()
	}
	if s.history != nil {
		s.history.Close()
	}

	s.started = false
	s.log.Info("Server stopped")

	return nil
}

// Routes configures all HTTP routes and middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/search", s.handleSearch)
	mux.HandleFunc("GET /v1/suggest", s.handleSuggest)
	mux.HandleFunc("GET /v1/query/parse", s.handleParseQuery)
	mux.HandleFunc("POST /v1/issues/{owner}/{repo}", s.handleLoadIssues)
	mux.HandleFunc("GET /v1/issues/{owner}/{repo}", s.handleListIssues)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	if s.appCfg.Observability.MetricsEnabled {
		path := s.appCfg.Observability.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, s.metrics.Handler())
	}

	var handler http.Handler = mux
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}
	handler = corsMiddleware(handler, s.appCfg.Security.CORSOrigins)
	return s.wrapWithLogging(handler)
}

// corsMiddleware adds CORS headers.
func corsMiddleware(next http.Handler, origins string) http.Handler {
	if origins == "" {
		origins = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// wrapWithLogging wraps a handler with request logging and metrics.
func (s *Server) wrapWithLogging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response writer wrapper to capture status
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		handler.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		s.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, fmt.Sprintf("%d", wrapped.status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())

		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", duration,
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Health returns the server health status.
func (s *Server) Health() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
