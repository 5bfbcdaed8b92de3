package calibration

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/agbru/hardyz/internal/zeta"
)

const (
	// ComplexityIterations is the number of timed batches per height; the
	// fastest batch is kept.
	ComplexityIterations = 3

	// complexityMinBatch is the shortest duration a timed batch aims for.
	complexityMinBatch = 2 * time.Millisecond

	// complexityMaxEvals caps the evaluations of one batch.
	complexityMaxEvals = 10_000
)

// DefaultHeights are the heights sampled by MeasureComplexity.
var DefaultHeights = []float64{1e2, 1e3, 1e4, 1e5}

// CostSample is the measured cost of one evaluation at height T.
type CostSample struct {
	T       float64       `json:"t"`
	PerEval time.Duration `json:"per_eval_ns"`
}

// Complexity is the empirical cost curve of one method.
type Complexity struct {
	Method  zeta.Method  `json:"method"`
	Samples []CostSample `json:"samples"`
	// Slope is the least-squares exponent a of cost ~ t^a. About 1 for
	// Euler-Maclaurin and 0.5 for the main-sum methods.
	Slope float64 `json:"slope"`
}

// MeasureComplexity times single evaluations of calc at each height and fits
// the growth exponent of the cost. A nil or empty heights uses
// DefaultHeights.
func MeasureComplexity(ctx context.Context, calc zeta.Calculator, heights []float64) (Complexity, error) {
	if len(heights) == 0 {
		heights = DefaultHeights
	}
	c := Complexity{Method: calc.Method(), Samples: make([]CostSample, 0, len(heights))}
	for _, t := range heights {
		perEval, err := timeEvaluation(ctx, calc, t)
		if err != nil {
			return c, fmt.Errorf("measuring %s at t=%g: %w", calc.Name(), t, err)
		}
		c.Samples = append(c.Samples, CostSample{T: t, PerEval: perEval})
	}
	c.Slope = fitSlope(c.Samples)
	return c, nil
}

// timeEvaluation returns the fastest per-evaluation time over
// ComplexityIterations batches.
func timeEvaluation(ctx context.Context, calc zeta.Calculator, t float64) (time.Duration, error) {
	best := time.Duration(math.MaxInt64)
	for range ComplexityIterations {
		start := time.Now()
		n := 0
		for {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			if _, err := calc.Evaluate(ctx, t); err != nil {
				return 0, err
			}
			n++
			if elapsed := time.Since(start); elapsed >= complexityMinBatch || n >= complexityMaxEvals {
				best = min(best, elapsed/time.Duration(n))
				break
			}
		}
	}
	return best, nil
}

// fitSlope is the least-squares slope of ln(cost) against ln(t). Samples
// with a non-positive height or cost are ignored; fewer than two usable
// samples give 0.
func fitSlope(samples []CostSample) float64 {
	var n, sx, sy, sxx, sxy float64
	for _, s := range samples {
		if s.T <= 0 || s.PerEval <= 0 {
			continue
		}
		x, y := math.Log(s.T), math.Log(float64(s.PerEval))
		n++
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	if n < 2 || den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
