// Package orchestration runs the selected evaluation methods concurrently and
// compares their results.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/hardyz/internal/cli"
	"github.com/agbru/hardyz/internal/config"
	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
)

// EvaluationResult is the outcome of evaluating the configured block with one
// method.
type EvaluationResult struct {
	// Name is the display name of the method.
	Name string
	// Method identifies the method.
	Method zeta.Method
	// Values holds Z at every sample of the block. It is nil on error.
	Values []float64
	// Duration is the wall time of the evaluation.
	Duration time.Duration
	// Err is the evaluation error, if any.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel relative to the number
// of calculators so slow rendering does not block the evaluations.
const ProgressBufferMultiplier = 5

// ExecuteEvaluations evaluates cfg.Block() with every calculator concurrently
// while rendering their aggregated progress on out. Results are returned in
// the order of calculators; individual failures are recorded in Err and do
// not cancel the others.
func ExecuteEvaluations(ctx context.Context, calculators []zeta.Calculator, cfg config.AppConfig, out io.Writer) []EvaluationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]EvaluationResult, len(calculators))
	progressChan := make(chan zeta.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	block := cfg.Block()
	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			values, err := calc.EvaluateBlock(ctx, progressChan, i, block)
			results[i] = EvaluationResult{
				Name:     calc.Name(),
				Method:   calc.Method(),
				Values:   values,
				Duration: time.Since(start),
				Err:      err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// Spread returns the largest difference between any two successful results
// at the same sample. Results of different lengths give +Inf.
func Spread(results []EvaluationResult) float64 {
	var ok [][]float64
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r.Values)
		}
	}
	if len(ok) < 2 {
		return 0
	}
	spread := 0.0
	for _, v := range ok[1:] {
		if len(v) != len(ok[0]) {
			return math.Inf(1)
		}
	}
	for k := range ok[0] {
		lo, hi := ok[0][k], ok[0][k]
		for _, v := range ok[1:] {
			lo, hi = min(lo, v[k]), max(hi, v[k])
		}
		spread = max(spread, hi-lo)
	}
	return spread
}

// AnalyzeComparisonResults prints a summary of results sorted by duration,
// checks that the successful methods agree within cfg.Tolerance and displays
// the fastest successful result. It returns the process exit code.
func AnalyzeComparisonResults(results []EvaluationResult, cfg config.AppConfig, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var best *EvaluationResult
	var firstError error

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sMethod%s\t%sDuration%s\t%sZ(t₀)%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i := range results {
		res := &results[i]
		var status, first string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			first = "-"
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			if len(res.Values) > 0 {
				first = cli.FormatValue(res.Values[0])
			}
			if best == nil {
				best = res
			}
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), cli.FormatExecutionDuration(res.Duration), ui.ColorReset(),
			first, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if best == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No method could complete the evaluation.\n")
		return apperrors.HandleEvaluationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	spread := Spread(results)
	fmt.Fprintf(out, "\nMax spread between methods: %s (tolerance %s)\n", cli.FormatValue(spread), cli.FormatValue(cfg.Tolerance))
	if spread > cfg.Tolerance {
		fmt.Fprintf(out, "%sGlobal Status: CRITICAL ERROR! The methods disagree beyond the tolerance.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "Global Status: Success. All valid results are consistent.\n")
	block := cfg.Block()
	if block.Points == 1 {
		cli.DisplayResult(out, block.Start, best.Values[0], best.Method, best.Duration)
	} else {
		cli.DisplayBlock(out, block, best.Values, best.Method, best.Duration)
	}
	return apperrors.ExitSuccess
}

// Best returns the fastest successful result, or nil when every evaluation
// failed.
func Best(results []EvaluationResult) *EvaluationResult {
	var best *EvaluationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}
