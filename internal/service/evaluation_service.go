// Package service holds the evaluation logic shared by the HTTP server:
// input limits, method lookup, result caching and the zero catalog.
package service

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/agbru/hardyz/internal/service Service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/hardyz/internal/config"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/zeta"
)

var (
	// ErrLimitExceeded is wrapped by every error reporting an input above
	// the service limits.
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrNoCatalog is returned by CatalogZeros when no catalog is attached.
	ErrNoCatalog = errors.New("no zero catalog configured")
)

// Limits bounds the work a single request may ask for. Zero disables a
// limit.
type Limits struct {
	MaxT        float64
	MaxPoints   int
	MaxScanSpan float64
	// MaxScanSamples bounds (to-from)/step of a scan.
	MaxScanSamples int
}

// Evaluation is a single computed value of Z.
type Evaluation struct {
	T        float64
	Z        float64
	Method   zeta.Method
	Duration time.Duration
	Cached   bool
}

// Service is the evaluation API used by the HTTP handlers.
type Service interface {
	// Evaluate computes Z(t) with the named method.
	Evaluate(ctx context.Context, method string, t float64) (Evaluation, error)
	// EvaluateBlock computes Z on every sample of b.
	EvaluateBlock(ctx context.Context, method string, b zeta.Block) ([]float64, zeta.Method, error)
	// Zeros scans [from, to] and records the result in the catalog.
	Zeros(ctx context.Context, method string, from, to, step float64) (*scan.Result, error)
	// CatalogZeros returns previously recorded zeros without scanning.
	CatalogZeros(ctx context.Context, method string, from, to float64) ([]scan.Zero, error)
}

// ZeroCatalog is the persistence used for zero scans.
type ZeroCatalog interface {
	Put(ctx context.Context, method string, zeros []scan.Zero) error
	Range(ctx context.Context, method string, from, to float64) ([]scan.Zero, error)
}

// EvaluationService implements Service over a calculator factory.
type EvaluationService struct {
	factory zeta.CalculatorFactory
	config  config.AppConfig
	limits  Limits
	cache   *resultCache
	catalog ZeroCatalog
	logger  zerolog.Logger
}

var _ Service = (*EvaluationService)(nil)

// DefaultCacheSize is the number of single-point results kept in memory.
const DefaultCacheSize = 4096

// Option configures an EvaluationService.
type Option func(*EvaluationService)

// WithCatalog attaches a zero catalog. Scans are written through to it.
func WithCatalog(c ZeroCatalog) Option {
	return func(s *EvaluationService) { s.catalog = c }
}

// WithCacheSize sets the result cache capacity; 0 disables caching.
func WithCacheSize(n int) Option {
	return func(s *EvaluationService) {
		if n <= 0 {
			s.cache = nil
			return
		}
		s.cache = newResultCache(n)
	}
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *EvaluationService) { s.logger = l }
}

// NewEvaluationService creates a service over factory. cfg supplies the
// scan defaults (window, workers, refinement tolerance).
func NewEvaluationService(factory zeta.CalculatorFactory, cfg config.AppConfig, limits Limits, opts ...Option) *EvaluationService {
	s := &EvaluationService{
		factory: factory,
		config:  cfg,
		limits:  limits,
		cache:   newResultCache(DefaultCacheSize),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the configured limits.
func (s *EvaluationService) Limits() Limits {
	return s.limits
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *EvaluationService) checkHeight(name string, t float64) error {
	if !finite(t) {
		return fmt.Errorf("%w: got %s = %v", zeta.ErrInvalidHeight, name, t)
	}
	if s.limits.MaxT > 0 && math.Abs(t) > s.limits.MaxT {
		return fmt.Errorf("%w: |%s| = %g is above %g", ErrLimitExceeded, name, math.Abs(t), s.limits.MaxT)
	}
	return nil
}

// resolve maps a method key or name to a calculator. An empty name selects
// the default method.
func (s *EvaluationService) resolve(name string) (zeta.Calculator, error) {
	if name == "" {
		name = zeta.DefaultMethod.Key()
	}
	if calc, err := s.factory.Get(name); err == nil {
		return calc, nil
	}
	m, err := zeta.ParseMethod(name)
	if err != nil {
		return nil, err
	}
	return s.factory.Get(m.Key())
}

// Evaluate computes Z(t), serving repeated heights from the cache.
func (s *EvaluationService) Evaluate(ctx context.Context, method string, t float64) (Evaluation, error) {
	if err := s.checkHeight("t", t); err != nil {
		return Evaluation{}, err
	}
	calc, err := s.resolve(method)
	if err != nil {
		return Evaluation{}, err
	}
	key := calc.Method().Key()
	if s.cache != nil {
		if z, ok := s.cache.get(key, t); ok {
			return Evaluation{T: t, Z: z, Method: calc.Method(), Cached: true}, nil
		}
	}

	start := time.Now()
	z, err := calc.Evaluate(ctx, t)
	if err != nil {
		return Evaluation{}, err
	}
	if s.cache != nil {
		s.cache.put(key, t, z)
	}
	return Evaluation{T: t, Z: z, Method: calc.Method(), Duration: time.Since(start)}, nil
}

// EvaluateBlock computes Z on every sample of b.
func (s *EvaluationService) EvaluateBlock(ctx context.Context, method string, b zeta.Block) ([]float64, zeta.Method, error) {
	if err := b.Validate(); err != nil {
		return nil, 0, err
	}
	if s.limits.MaxPoints > 0 && b.Points > s.limits.MaxPoints {
		return nil, 0, fmt.Errorf("%w: %d points requested, at most %d allowed", ErrLimitExceeded, b.Points, s.limits.MaxPoints)
	}
	if err := s.checkHeight("start", b.Start); err != nil {
		return nil, 0, err
	}
	if err := s.checkHeight("start+length", b.Start+b.Length); err != nil {
		return nil, 0, err
	}
	calc, err := s.resolve(method)
	if err != nil {
		return nil, 0, err
	}
	values, err := calc.EvaluateBlockWithObservers(ctx, nil, 0, b)
	return values, calc.Method(), err
}

// Zeros scans [from, to] with the configured scan defaults and step, then
// records the zeros in the catalog when one is attached. A catalog write
// failure is logged and does not fail the request.
func (s *EvaluationService) Zeros(ctx context.Context, method string, from, to, step float64) (*scan.Result, error) {
	if err := s.checkHeight("from", from); err != nil {
		return nil, err
	}
	if err := s.checkHeight("to", to); err != nil {
		return nil, err
	}
	if s.limits.MaxScanSpan > 0 && to-from > s.limits.MaxScanSpan {
		return nil, fmt.Errorf("%w: scan span %g is above %g", ErrLimitExceeded, to-from, s.limits.MaxScanSpan)
	}
	calc, err := s.resolve(method)
	if err != nil {
		return nil, err
	}

	cfg := s.config
	cfg.From, cfg.To = from, to
	opts := cfg.ScanOptions()
	if step > 0 {
		opts.Step = step
	}
	if limit := s.limits.MaxScanSamples; limit > 0 && opts.Step > 0 && (to-from)/opts.Step > float64(limit) {
		return nil, fmt.Errorf("%w: step %g gives %.0f samples, at most %d allowed",
			ErrLimitExceeded, opts.Step, math.Ceil((to-from)/opts.Step), limit)
	}
	res, err := scan.New(calc, scan.WithLogger(s.logger)).Scan(ctx, opts, nil)
	if err != nil {
		return nil, err
	}
	if s.catalog != nil {
		if err := s.catalog.Put(ctx, calc.Method().Key(), res.Zeros); err != nil {
			s.logger.Warn().Err(err).Str("method", calc.Method().Key()).Msg("failed to record zeros")
		}
	}
	return res, nil
}

// CatalogZeros returns the recorded zeros of method in [from, to].
func (s *EvaluationService) CatalogZeros(ctx context.Context, method string, from, to float64) ([]scan.Zero, error) {
	if s.catalog == nil {
		return nil, ErrNoCatalog
	}
	calc, err := s.resolve(method)
	if err != nil {
		return nil, err
	}
	return s.catalog.Range(ctx, calc.Method().Key(), from, to)
}
