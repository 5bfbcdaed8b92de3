// Package zeta evaluates the Hardy Z-function on the critical line of the
// Riemann zeta function, together with the Riemann-Siegel theta function and
// the Bernoulli numbers its Euler-Maclaurin method depends on.
//
// The numerical core (Evaluator, Theta, Bernoulli, Binomial) is generic over
// float32 and float64, synchronous and free of I/O. The Calculator interface
// wraps a float64 view of it for the application layers, adding tracing,
// metrics, logging, cancellation and progress reporting.
package zeta

//go:generate mockgen -destination=mocks/mock_calculator.go -package=mocks github.com/agbru/hardyz/internal/zeta Calculator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidHeight is returned for NaN or infinite block parameters.
var ErrInvalidHeight = errors.New("height must be a finite number")

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hardyz_evaluations_total",
			Help: "The total number of Hardy Z block evaluations processed",
		},
		[]string{"method", "status"},
	)
	samplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hardyz_samples_total",
			Help: "The total number of Z(t) samples produced",
		},
		[]string{"method"},
	)
	evaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hardyz_evaluation_duration_seconds",
			Help:    "The duration of Hardy Z block evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"method"},
	)
)

// Block describes points evenly spaced samples t_k = Start + k·Step() over
// [Start, Start+Length]. A single-point block samples Start only.
type Block struct {
	Start  float64
	Length float64
	Points int
}

// Point returns the one-sample block at t.
func Point(t float64) Block {
	return Block{Start: t, Points: 1}
}

// Validate reports whether the block can be evaluated.
func (b Block) Validate() error {
	if b.Points <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPoints, b.Points)
	}
	if math.IsNaN(b.Start) || math.IsInf(b.Start, 0) || math.IsNaN(b.Length) || math.IsInf(b.Length, 0) {
		return fmt.Errorf("%w: start=%v length=%v", ErrInvalidHeight, b.Start, b.Length)
	}
	return nil
}

// Step returns the spacing between consecutive samples.
func (b Block) Step() float64 {
	return BlockStep(b.Length, b.Points)
}

// At returns the height of sample k.
func (b Block) At(k int) float64 {
	return b.Start + float64(k)*b.Step()
}

// Calculator defines the interface used by the orchestration, scanning and
// server layers to evaluate Z(t) with one method.
type Calculator interface {
	// Evaluate returns Z(t).
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - t: The height on the critical line.
	//
	// Returns:
	//   - float64: The value of Z(t).
	//   - error: An error if the context was canceled or t is not finite.
	Evaluate(ctx context.Context, t float64) (float64, error)

	// EvaluateBlock evaluates every sample of b in index order. Progress
	// updates are sent asynchronously to progressChan, which may be nil.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates.
	//   - calcIndex: A unique index for the calculator instance.
	//   - b: The block to evaluate.
	//
	// Returns:
	//   - []float64: One value per sample, aligned with the sample indices.
	//   - error: An error if one occurred (e.g., context cancellation).
	EvaluateBlock(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, b Block) ([]float64, error)

	// EvaluateBlockWithObservers is EvaluateBlock with observer-based
	// progress reporting. A nil subject discards progress.
	EvaluateBlockWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, b Block) ([]float64, error)

	// Name returns the display name of the method (e.g., "Riemann-Siegel").
	Name() string

	// Method returns the algorithm this calculator runs.
	Method() Method
}

// coreCalculator is the pure evaluation behind a Calculator.
type coreCalculator interface {
	Samples(b Block) iter.Seq2[int, float64]
	Method() Method
	Precision() int
}

// methodCore runs one method at precision T and widens results to float64.
type methodCore[T Float] struct {
	method Method
	eval   *Evaluator[T]
}

func newMethodCore[T Float](m Method) *methodCore[T] {
	return &methodCore[T]{method: m, eval: NewEvaluator[T]()}
}

func (c *methodCore[T]) Method() Method { return c.method }

func (c *methodCore[T]) Precision() int {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return 32
	}
	return 64
}

func (c *methodCore[T]) Samples(b Block) iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for k, z := range c.eval.Samples(T(b.Start), T(b.Length), b.Points, c.method) {
			if !yield(k, float64(z)) {
				return
			}
		}
	}
}

// ZCalculator implements Calculator as a decorator around a coreCalculator.
// It adds tracing, Prometheus metrics, debug logging, cancellation between
// samples and progress reporting.
type ZCalculator struct {
	core coreCalculator
}

// NewCalculator returns the float64 calculator for m.
func NewCalculator(m Method) Calculator {
	return newCalculator(newMethodCore[float64](m))
}

// NewCalculatorWithPrecision returns a calculator running m in float32 when
// bits is 32 and in float64 otherwise.
func NewCalculatorWithPrecision(m Method, bits int) Calculator {
	if bits == 32 {
		return newCalculator(newMethodCore[float32](m))
	}
	return NewCalculator(m)
}

func newCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("zeta: the `coreCalculator` implementation cannot be nil")
	}
	return &ZCalculator{core: core}
}

// Name returns the display name of the wrapped method, suffixed with the
// precision when it is not float64.
func (c *ZCalculator) Name() string {
	if p := c.core.Precision(); p != 64 {
		return fmt.Sprintf("%s (float%d)", c.core.Method(), p)
	}
	return c.core.Method().String()
}

// Method returns the wrapped method.
func (c *ZCalculator) Method() Method {
	return c.core.Method()
}

// Evaluate returns Z(t) as a one-point block.
func (c *ZCalculator) Evaluate(ctx context.Context, t float64) (float64, error) {
	values, err := c.EvaluateBlockWithObservers(ctx, nil, 0, Point(t))
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// EvaluateBlock evaluates b, forwarding progress to progressChan.
func (c *ZCalculator) EvaluateBlock(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, b Block) ([]float64, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.EvaluateBlockWithObservers(ctx, subject, calcIndex, b)
}

// EvaluateBlockWithObservers evaluates b and notifies subject roughly every
// percent of the samples and once at completion. The context is checked
// before each sample.
func (c *ZCalculator) EvaluateBlockWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, b Block) (result []float64, err error) {
	method := c.core.Method()
	tracer := otel.Tracer("zeta")
	ctx, span := tracer.Start(ctx, "EvaluateBlock", trace.WithAttributes(
		attribute.String("method", method.Key()),
		attribute.Float64("start", b.Start),
		attribute.Float64("length", b.Length),
		attribute.Int("points", b.Points),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		evaluationsTotal.WithLabelValues(method.Key(), status).Inc()
		evaluationDuration.WithLabelValues(method.Key()).Observe(duration)
		samplesTotal.WithLabelValues(method.Key()).Add(float64(len(result)))

		log.Debug().
			Str("method", method.Key()).
			Float64("start", b.Start).
			Int("points", b.Points).
			Float64("duration", duration).
			Str("status", status).
			Msg("evaluation completed")
	}()

	if err = b.Validate(); err != nil {
		return nil, err
	}

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	} else {
		reporter = func(float64) {}
	}

	stride := ProgressStride(b.Points)
	result = make([]float64, 0, b.Points)
	for k, z := range c.core.Samples(b) {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		result = append(result, z)
		if done := k + 1; done%stride == 0 && done < b.Points {
			reporter(float64(done) / float64(b.Points))
		}
	}
	reporter(1.0)
	return result, nil
}
