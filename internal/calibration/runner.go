package calibration

import (
	"context"
	"time"

	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/zeta"
)

// The interval scanned by every window trial. It holds about eight zeros.
const (
	calibrationFrom = 1000.0
	calibrationTo   = 1010.0
)

// windowResult holds the result of a single window trial.
type windowResult struct {
	Window   int
	Duration time.Duration
	Zeros    int
	Err      error
}

// calibrationRunner encapsulates the trial run logic for calibration.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
	workers  int
}

func newCalibrationRunner(ctx context.Context, timeout time.Duration, workers int) *calibrationRunner {
	perTrial := max(timeout/6, 2*time.Second)
	return &calibrationRunner{ctx: ctx, perTrial: perTrial, workers: max(workers, 1)}
}

// runWindowTrial scans the calibration interval with the given window size.
func (r *calibrationRunner) runWindowTrial(calc zeta.Calculator, window int) windowResult {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()

	opts := scan.DefaultOptions(calibrationFrom, calibrationTo)
	opts.WindowPoints = window
	opts.Workers = r.workers

	start := time.Now()
	res, err := scan.New(calc).Scan(ctx, opts, nil)
	out := windowResult{Window: window, Duration: time.Since(start), Err: err}
	if err == nil {
		out.Zeros = len(res.Zeros)
	}
	return out
}

// findBestWindow runs one trial per candidate and returns the fastest
// window, or defaultWindow when every trial failed.
func (r *calibrationRunner) findBestWindow(calc zeta.Calculator, candidates []int, defaultWindow int) (int, []windowResult) {
	best := defaultWindow
	bestDur := time.Duration(1<<63 - 1)
	results := make([]windowResult, 0, len(candidates))

	for _, window := range candidates {
		if r.ctx.Err() != nil {
			break
		}
		res := r.runWindowTrial(calc, window)
		results = append(results, res)
		if res.Err == nil && res.Duration < bestDur {
			bestDur, best = res.Duration, window
		}
	}
	return best, results
}
