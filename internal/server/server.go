// Package server exposes the scheduling engine over a small JSON API:
//
//	GET  /health
//	GET  /api/v1/policies
//	POST /api/v1/schedule
//	POST /api/v1/compare
//
// The engine is pure, so handlers share nothing and need no locking beyond
// the server lifecycle itself.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kingrea/diskseek/internal/logging"
)

// APIVersion is reported by /health.
const APIVersion = "1"

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

const defaultDrainTimeout = 2 * time.Second

// ErrDisabled is returned by Start when the settings disable the server.
var ErrDisabled = errors.New("server: disabled")

// Server wraps the HTTP listener and the chi router.
type Server struct {
	settings Settings
	logger   *slog.Logger
	clock    func() time.Time
	router   chi.Router

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	addr      string
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control uptime.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New prepares a server and registers its routes.
func New(settings Settings, opts ...Option) *Server {
	settings.normalize()
	s := &Server{
		settings: settings,
		logger:   logging.Discard(),
		clock:    time.Now,
		router:   chi.NewRouter(),
		status:   StatusStarting,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("component", "server")
	s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", s.handleHealth)
	r.Head("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/policies", s.handlePolicies)
		r.Post("/schedule", s.handleSchedule)
		r.Post("/compare", s.handleCompare)
	})
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if !s.settings.Enabled {
		return ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server: already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.addr = listener.Addr().String()
	s.startTime = s.clock()
	server := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	s.status = StatusReady
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()
	s.logger.Info("listening", "addr", s.addr)
	return nil
}

// Shutdown marks the server draining and waits for in-flight requests. The
// lifecycle lock is released while draining so /health keeps answering.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	httpServer := s.beginDrain()
	if httpServer == nil {
		return nil
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), defaultDrainTimeout)
		defer cancel()
	}
	err := httpServer.Shutdown(ctx)

	// The listener is closed even when the drain times out.
	s.mu.Lock()
	if s.server == httpServer {
		s.server = nil
		s.listener = nil
		s.addr = ""
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("server: drain: %w", err)
	}
	return nil
}

func (s *Server) beginDrain() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	s.status = StatusDraining
	return s.server
}

// lifecycle is a consistent read of the fields guarded by mu.
type lifecycle struct {
	status  ServerStatus
	addr    string
	started time.Time
}

func (s *Server) snapshot() lifecycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lifecycle{status: s.status, addr: s.addr, started: s.startTime}
}

// Addr is the bound host:port, or "" when not serving.
func (s *Server) Addr() string {
	return s.snapshot().addr
}

// BaseURL returns the HTTP base URL for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	return s.snapshot().status
}

func (l lifecycle) uptime(now time.Time) int64 {
	if l.started.IsZero() {
		return 0
	}
	return int64(now.Sub(l.started).Seconds())
}
