package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/hardyz/internal/config"
	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/logging"
	"github.com/agbru/hardyz/internal/service"
	"github.com/agbru/hardyz/internal/zeta"
)

// Server is the HTTP API over the Hardy Z evaluators. It wraps http.Server
// with the middleware chain and graceful shutdown.
type Server struct {
	factory        zeta.CalculatorFactory
	service        service.Service
	catalog        service.ZeroCatalog
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a server answering on cfg.Port with the calculators of
// factory. Options are applied before the service and rate limiter are
// built, so WithService and WithRateLimiter replace the defaults.
func NewServer(factory zeta.CalculatorFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:        factory,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		svcOpts := []service.Option{}
		if s.catalog != nil {
			svcOpts = append(svcOpts, service.WithCatalog(s.catalog))
		}
		s.service = service.NewEvaluationService(s.factory, s.cfg, s.securityConfig.Limits(), svcOpts...)
	}

	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()

	// Security -> RateLimit -> Logging -> Metrics -> Handler
	mux.HandleFunc("/z", s.wrapWithMiddleware("/z", s.handleZ))
	mux.HandleFunc("/block", s.wrapWithMiddleware("/block", s.handleBlock))
	mux.HandleFunc("/theta", s.wrapWithMiddleware("/theta", s.handleTheta))
	mux.HandleFunc("/bernoulli", s.wrapWithMiddleware("/bernoulli", s.handleBernoulli))
	mux.HandleFunc("/gram", s.wrapWithMiddleware("/gram", s.handleGram))
	mux.HandleFunc("/zeros", s.wrapWithMiddleware("/zeros", s.handleZeros))
	mux.HandleFunc("/methods", s.wrapWithMiddleware("/methods", s.handleMethods))
	mux.HandleFunc("/health", s.wrapWithMiddleware("/health", s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware("/metrics", s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) wrapWithMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(route, handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully within
// the shutdown timeout.
func (s *Server) Start() error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.String("default_method", zeta.DefaultMethod.Key()),
			logging.Float64("max_t", s.securityConfig.MaxT),
			logging.Int("max_points", s.securityConfig.MaxPoints))
		s.logger.Info("endpoints: /z /block /theta /bernoulli /gram /zeros /methods /health /metrics")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received, draining connections")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
