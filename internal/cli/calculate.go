package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/hardyz/internal/config"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
)

// GetCalculatorsToRun returns the calculators selected by cfg.Method, in the
// factory's sorted key order for "all".
func GetCalculatorsToRun(cfg config.AppConfig, factory zeta.CalculatorFactory) []zeta.Calculator {
	if cfg.Method == "all" {
		keys := factory.List()
		calculators := make([]zeta.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Method); err == nil {
		return []zeta.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig displays the evaluation target, timeout and
// environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	b := cfg.Block()
	if b.Points > 1 {
		fmt.Fprintf(out, "Evaluating %sZ(t)%s on %s%d%s points of [%s, %s] with a timeout of %s%s%s.\n",
			ui.ColorMagenta(), ui.ColorReset(), ui.ColorCyan(), b.Points, ui.ColorReset(),
			FormatValue(b.Start), FormatValue(b.Start+b.Length), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Evaluating %sZ(%s)%s with a timeout of %s%s%s.\n",
			ui.ColorMagenta(), FormatValue(b.Start), ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s%d-bit%s floats.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), cfg.Precision, ui.ColorReset())
}

// PrintExecutionMode displays whether one method runs or several are
// compared.
func PrintExecutionMode(calculators []zeta.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %d methods", len(calculators))
	} else {
		modeDesc = fmt.Sprintf("Single evaluation with the %s%s%s method",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
