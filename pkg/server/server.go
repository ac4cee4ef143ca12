package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/ruleengine/pkg/api/handlers"
	"mercator-hq/ruleengine/pkg/api/middleware"
	"mercator-hq/ruleengine/pkg/config"
	"mercator-hq/ruleengine/pkg/service"
	"mercator-hq/ruleengine/pkg/telemetry"
	"mercator-hq/ruleengine/pkg/telemetry/health"
	"mercator-hq/ruleengine/pkg/telemetry/metrics"
	"mercator-hq/ruleengine/pkg/telemetry/tracing"
)

// Options configures a Server. Service is required.
type Options struct {
	Config    config.ServerConfig
	Service   *service.RuleService
	Telemetry *telemetry.Telemetry

	// MetricsPath mounts the Prometheus handler. Empty means
	// config.DefaultMetricsPath.
	MetricsPath string

	// Version is served on GET /version.
	Version health.VersionInfo
}

// Server is the rule engine HTTP server.
type Server struct {
	config       config.ServerConfig
	service      *service.RuleService
	logger       *slog.Logger
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
	metricsPath  string
	version      health.VersionInfo
	checker      *health.Checker
	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. It does not listen until Start.
func New(opts Options) *Server {
	tel := opts.Telemetry
	if tel == nil {
		tel = &telemetry.Telemetry{}
	}
	logger := tel.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := opts.MetricsPath
	if path == "" {
		path = config.DefaultMetricsPath
	}

	s := &Server{
		config:       opts.Config,
		service:      opts.Service,
		logger:       logger.With("component", "server"),
		metrics:      tel.Metrics,
		tracer:       tel.Tracer,
		metricsPath:  path,
		version:      opts.Version,
		checker:      health.New(opts.Config.ReadTimeout),
		shutdownChan: make(chan struct{}),
	}
	s.checker.Register("store", opts.Service.Ping)
	return s
}

// Checker exposes the readiness checker so callers can register more checks.
func (s *Server) Checker() *health.Checker {
	return s.checker
}

// Start listens on Config.ListenAddress and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting rule API server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
	}
	return s.shutdown(context.Background())
}

// Shutdown asks a running Start to drain and return. It is safe to call
// more than once and before Start.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownChan) })
}

func (s *Server) shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return nil
	}

	s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

	shutdownCtx := ctx
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	var shutdownErr error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	s.isRunning = false
	s.logger.Info("rule API server stopped")
	return shutdownErr
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	handlers.NewRuleHandler(s.service, s.logger).Register(mux)
	health.Register(mux, s.checker, s.version)
	if s.metrics.Enabled() {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger),
		middleware.RequestID,
		middleware.Timeout(s.config.WriteTimeout),
		middleware.Tracing(s.tracer),
		middleware.CORS(s.config.CORS),
		middleware.BodyLimit(s.config.MaxBodyBytes),
		middleware.Metrics(s.metrics),
	)
}
