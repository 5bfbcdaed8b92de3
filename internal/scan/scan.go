// Package scan locates zeros of the Hardy Z-function on an interval by
// sampling it in blocks, detecting sign changes and refining each bracket by
// bisection.
package scan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/hardyz/internal/parallel"
	"github.com/agbru/hardyz/internal/zeta"
)

// ErrInvalidOptions is wrapped by every error returned from Options.Validate.
var ErrInvalidOptions = errors.New("invalid scan options")

// Default scan parameters.
const (
	DefaultStep          = 0.05
	DefaultWindowPoints  = 128
	DefaultTolerance     = 1e-10
	DefaultMaxIterations = 60
)

// Options configures a scan of [From, To].
type Options struct {
	From, To float64
	// Step is the spacing of the sampling grid. Two zeros closer than Step
	// may cancel out and go undetected.
	Step float64
	// WindowPoints is the number of samples per block. Consecutive windows
	// share their boundary sample.
	WindowPoints int
	// Workers bounds the number of windows and brackets processed at once.
	Workers int
	// Tolerance is the bracket width at which bisection stops.
	Tolerance float64
	// MaxIterations caps bisection steps per bracket.
	MaxIterations int
}

// DefaultOptions returns options for [from, to] with the package defaults.
func DefaultOptions(from, to float64) Options {
	return Options{
		From:          from,
		To:            to,
		Step:          DefaultStep,
		WindowPoints:  DefaultWindowPoints,
		Workers:       runtime.NumCPU(),
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	switch {
	case math.IsNaN(o.From) || math.IsInf(o.From, 0) || math.IsNaN(o.To) || math.IsInf(o.To, 0):
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidOptions)
	case o.To <= o.From:
		return fmt.Errorf("%w: to (%g) must be greater than from (%g)", ErrInvalidOptions, o.To, o.From)
	case !(o.Step > 0):
		return fmt.Errorf("%w: step must be positive", ErrInvalidOptions)
	case o.WindowPoints < 2:
		return fmt.Errorf("%w: window must hold at least 2 points", ErrInvalidOptions)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidOptions)
	case !(o.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidOptions)
	case o.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations must be at least 1", ErrInvalidOptions)
	}
	return nil
}

// Zero is one located zero of Z(t).
type Zero struct {
	// T is the refined height.
	T float64 `json:"t"`
	// Z is the residual Z(T).
	Z float64 `json:"z"`
	// Left and Right bound the final bracket.
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	// Iterations is the number of bisection steps, 0 for a sample that was
	// already exactly zero.
	Iterations int `json:"iterations"`
	// GramIndex is n such that g_n <= T < g_{n+1}.
	GramIndex int `json:"gram_index"`
	// Method is the short key of the method that produced the samples.
	Method string `json:"method"`
}

// Result summarizes a scan.
type Result struct {
	Method   zeta.Method   `json:"method"`
	From     float64       `json:"from"`
	To       float64       `json:"to"`
	Samples  int           `json:"samples"`
	Windows  int           `json:"windows"`
	Zeros    []Zero        `json:"zeros"`
	Duration time.Duration `json:"duration"`
}

// Scanner runs scans with a single calculator.
type Scanner struct {
	calc   zeta.Calculator
	logger zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for scan summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New returns a scanner evaluating with calc.
func New(calc zeta.Calculator, opts ...Option) *Scanner {
	s := &Scanner{calc: calc, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// bracket is an interval whose endpoints have opposite signs.
type bracket struct {
	a, b   float64
	za, zb float64
}

// window is a contiguous run of grid indices [first, last].
type window struct {
	first, last int
}

// plan splits the grid From + i·Step, i = 0..n-1, into windows sharing
// their boundary index.
func plan(o Options) (windows []window, samples int) {
	samples = int(math.Floor((o.To-o.From)/o.Step)) + 1
	stride := o.WindowPoints - 1
	for first := 0; first < samples-1; first += stride {
		windows = append(windows, window{first: first, last: min(first+stride, samples-1)})
	}
	if len(windows) == 0 {
		windows = append(windows, window{first: 0, last: 0})
	}
	return windows, samples
}

// Scan samples [From, To] window by window, then refines every sign change.
// Progress is reported on subject as the fraction of finished windows, with
// calculator index 0. The returned zeros are sorted by height.
func (s *Scanner) Scan(ctx context.Context, o Options, subject *zeta.ProgressSubject) (*Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	windows, samples := plan(o)

	type windowOut struct {
		brackets []bracket
		exact    []float64
	}
	outs := make([]windowOut, len(windows))

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i, w := range windows {
		// g.Go blocks while Workers windows are in flight.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			block := zeta.Block{
				Start:  o.From + float64(w.first)*o.Step,
				Length: float64(w.last-w.first) * o.Step,
				Points: w.last - w.first + 1,
			}
			values, err := s.calc.EvaluateBlockWithObservers(gctx, nil, i, block)
			if err != nil {
				return err
			}
			var out windowOut
			if i == 0 && values[0] == 0 {
				out.exact = append(out.exact, block.Start)
			}
			for k := 0; k+1 < len(values); k++ {
				za, zb := values[k], values[k+1]
				switch {
				case zb == 0:
					out.exact = append(out.exact, block.At(k+1))
				case za*zb < 0:
					out.brackets = append(out.brackets, bracket{a: block.At(k), b: block.At(k + 1), za: za, zb: zb})
				}
			}
			outs[i] = out
			if subject != nil {
				subject.Notify(0, float64(done.Add(1))/float64(len(windows)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var brackets []bracket
	var zeros []Zero
	key := s.calc.Method().Key()
	for _, out := range outs {
		brackets = append(brackets, out.brackets...)
		for _, t := range out.exact {
			zeros = append(zeros, Zero{T: t, Left: t, Right: t, GramIndex: GramIndex(t), Method: key})
		}
	}

	refined := make([]Zero, len(brackets))
	err := parallel.ForEach(len(brackets), o.Workers, func(i int) error {
		z, err := s.refine(ctx, brackets[i], o)
		if err != nil {
			return err
		}
		refined[i] = z
		return nil
	})
	if err != nil {
		return nil, err
	}
	zeros = append(zeros, refined...)
	sort.Slice(zeros, func(i, j int) bool { return zeros[i].T < zeros[j].T })

	res := &Result{
		Method:   s.calc.Method(),
		From:     o.From,
		To:       o.To,
		Samples:  samples,
		Windows:  len(windows),
		Zeros:    zeros,
		Duration: time.Since(started),
	}
	s.logger.Info().
		Str("method", key).
		Float64("from", o.From).
		Float64("to", o.To).
		Int("samples", samples).
		Int("zeros", len(zeros)).
		Dur("duration", res.Duration).
		Msg("scan completed")
	return res, nil
}

// refine bisects br until its width drops below the tolerance, the midpoint
// is an exact zero, or the iteration cap is reached.
func (s *Scanner) refine(ctx context.Context, br bracket, o Options) (Zero, error) {
	a, b, za := br.a, br.b, br.za
	iter := 0
	for ; iter < o.MaxIterations && b-a > o.Tolerance; iter++ {
		mid := a + (b-a)/2
		zm, err := s.calc.Evaluate(ctx, mid)
		if err != nil {
			return Zero{}, err
		}
		if zm == 0 {
			a, b = mid, mid
			iter++
			break
		}
		if (za < 0) == (zm < 0) {
			a, za = mid, zm
		} else {
			b = mid
		}
	}
	t := a + (b-a)/2
	zt, err := s.calc.Evaluate(ctx, t)
	if err != nil {
		return Zero{}, err
	}
	return Zero{
		T:          t,
		Z:          zt,
		Left:       a,
		Right:      b,
		Iterations: iter,
		GramIndex:  GramIndex(t),
		Method:     s.calc.Method().Key(),
	}, nil
}

// GramIndex returns n with g_n <= t < g_{n+1}, i.e. floor(θ(t)/π).
func GramIndex(t float64) int {
	return int(math.Floor(zeta.Theta(t) / math.Pi))
}
