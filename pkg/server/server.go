package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"paythru/trustdesk/pkg/audit"
	"paythru/trustdesk/pkg/config"
	"paythru/trustdesk/pkg/registry"
	"paythru/trustdesk/pkg/server/handlers"
	"paythru/trustdesk/pkg/server/middleware"
	"paythru/trustdesk/pkg/telemetry/logging"
	"paythru/trustdesk/pkg/telemetry/metrics"
	"paythru/trustdesk/pkg/trustcenter"
)

// Server is the Trustdesk HTTP server. It serves the internal registry
// API, the audit trail, the public trust center portal, health probes,
// and the metrics endpoint.
type Server struct {
	config     *config.Config
	logger     *logging.Logger
	metrics    *metrics.Metrics
	service    *registry.Service
	auditStore audit.Store
	index      *trustcenter.Index

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a Server wiring the given components.
func New(cfg *config.Config, logger *logging.Logger, m *metrics.Metrics,
	service *registry.Service, auditStore audit.Store, index *trustcenter.Index) *Server {
	return &Server{
		config:       cfg,
		logger:       logger,
		metrics:      m,
		service:      service,
		auditStore:   auditStore,
		index:        index,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", map[string]any{
			"address":     s.config.Server.ListenAddress,
			"environment": s.config.Environment,
		})

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", map[string]any{"signal": sig.String()})
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", map[string]any{
			"timeout": s.config.Server.ShutdownTimeout.String(),
		})

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", map[string]any{"error": err})
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

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the fully assembled HTTP handler: all routes wrapped in
// the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	handlers.NewRegistryHandler(s.service).Register(mux)
	handlers.NewAuditHandler(s.auditStore).Register(mux)
	handlers.NewTrustCenterHandler(s.service, s.index, s.config.TrustCenter.RoutePrefix).Register(mux)
	handlers.NewHealthHandler(map[string]handlers.Pinger{
		"registry": s.service,
		"audit":    s.auditStore,
	}).Register(mux)

	if s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux

	// Innermost first: the actor tag must be present before handlers run.
	handler = actorMiddleware(handler)
	handler = middleware.CSPMiddleware(s.config.TrustCenter.RoutePrefix)(handler)
	handler = middleware.CORSMiddleware(s.corsConfig())(handler)
	handler = middleware.MetricsMiddleware(s.metrics)(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// corsConfig maps the configuration onto the middleware settings. In
// development mode, local browser origins are allowed in addition to the
// configured patterns.
func (s *Server) corsConfig() *middleware.CORSConfig {
	cors := s.config.Server.CORS

	origins := make([]string, len(cors.AllowedOrigins))
	copy(origins, cors.AllowedOrigins)
	if s.config.Environment == "development" {
		origins = append(origins,
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		)
	}

	return &middleware.CORSConfig{
		Enabled:          cors.Enabled,
		AllowedOrigins:   origins,
		AllowedMethods:   cors.AllowedMethods,
		AllowedHeaders:   cors.AllowedHeaders,
		ExposedHeaders:   cors.ExposedHeaders,
		MaxAge:           cors.MaxAge,
		AllowCredentials: cors.AllowCredentials,
	}
}

// actorMiddleware tags the request context with the acting user for audit
// attribution. Unauthenticated requests fall back to "anonymous".
func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get("X-User-ID"); actor != "" {
			r = r.WithContext(audit.WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}
