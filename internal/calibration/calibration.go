package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/agbru/hardyz/internal/cli"
	"github.com/agbru/hardyz/internal/config"
	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save the calibration profile.
	// If empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// Heights overrides DefaultHeights.
	Heights []float64
	// Windows overrides GenerateWindowCandidates.
	Windows []int
	// Timeout bounds the whole run and sizes the per-trial deadline.
	Timeout time.Duration
}

// RunCalibration measures every calculator's cost curve, then tunes the scan
// window size on the calculator used for scans, and saves the results to
// the default profile. It returns the process exit code.
func RunCalibration(ctx context.Context, out io.Writer, calculators map[string]zeta.Calculator) int {
	return RunCalibrationWithOptions(ctx, out, calculators, CalibrationOptions{SaveProfile: true})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, calculators map[string]zeta.Calculator, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Measuring the Cost of Each Method ---\n")

	if len(calculators) == 0 {
		fmt.Fprintf(out, "%sCritical error: no calculators available for calibration.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	keys := make([]string, 0, len(calculators))
	for k := range calculators {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	calibrationStart := time.Now()
	costs := make([]Complexity, 0, len(keys))
	for _, key := range keys {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
			return apperrors.ExitErrorCanceled
		}
		calc := calculators[key]
		fmt.Fprintf(out, "Measuring %s%s%s...\n", ui.ColorCyan(), calc.Name(), ui.ColorReset())
		c, err := MeasureComplexity(ctx, calc, opts.Heights)
		if err != nil {
			if apperrors.IsContextError(err) {
				return apperrors.HandleEvaluationError(err, time.Since(calibrationStart), out, cli.CLIColorProvider{})
			}
			fmt.Fprintf(out, "%s❌ Failure (%v)%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		costs = append(costs, c)
	}
	if len(costs) == 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	printComplexityResults(out, costs)

	candidates := opts.Windows
	if len(candidates) == 0 {
		candidates = GenerateWindowCandidates()
	}
	workers := EstimateOptimalWorkers()
	scanCalc := scanCalculator(calculators, keys)
	fmt.Fprintf(out, "\n%sTuning the scan window with %s on %d CPU cores%s\n",
		ui.ColorCyan(), scanCalc.Name(), runtime.NumCPU(), ui.ColorReset())

	runner := newCalibrationRunner(ctx, opts.Timeout, workers)
	bestWindow, results := runner.findBestWindow(scanCalc, candidates, scan.DefaultWindowPoints)
	if err := ctx.Err(); err != nil {
		return apperrors.HandleEvaluationError(err, time.Since(calibrationStart), out, cli.CLIColorProvider{})
	}
	printWindowResults(out, results, bestWindow)

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-window %d -workers %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), bestWindow, workers, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalWindow = bestWindow
		profile.OptimalWorkers = workers
		profile.Methods = MethodCosts(costs)
		profile.CalibrationTime = time.Since(calibrationStart).String()

		path := opts.ProfilePath
		if path == "" {
			path = GetDefaultProfilePath()
		}
		if err := profile.SaveProfile(path); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n", ui.ColorGreen(), path, ui.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// scanCalculator picks the calculator whose window size matters most: the
// block method when present, then the default method, then the first key.
func scanCalculator(calculators map[string]zeta.Calculator, keys []string) zeta.Calculator {
	for _, m := range []zeta.Method{zeta.OdlyzkoSchonhage, zeta.DefaultMethod} {
		if c, ok := calculators[m.Key()]; ok {
			return c
		}
	}
	return calculators[keys[0]]
}

// LoadCachedCalibration applies a valid cached profile to cfg. The window is
// only replaced while cfg still holds the default, and workers only while
// they are unset, so explicit flags win. Returns false when no valid profile
// was found.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (updated config.AppConfig, ok bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() {
		return cfg, false
	}

	updated = cfg
	if updated.Window == scan.DefaultWindowPoints && profile.OptimalWindow > 0 {
		updated.Window = ValidateWindow(profile.OptimalWindow)
	}
	if updated.Workers == 0 && profile.OptimalWorkers > 0 {
		updated.Workers = profile.OptimalWorkers
	}
	return updated, true
}
