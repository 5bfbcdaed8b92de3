package calibration

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/agbru/hardyz/internal/cli"
	"github.com/agbru/hardyz/internal/ui"
)

// printComplexityResults prints one row per method with its cost at every
// measured height and the fitted exponent.
func printComplexityResults(out io.Writer, costs []Complexity) {
	if len(costs) == 0 {
		return
	}
	fmt.Fprintf(out, "\n--- Method Cost Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	header := []string{"Method"}
	for _, s := range costs[0].Samples {
		header = append(header, fmt.Sprintf("t=%s", formatHeight(s.T)))
	}
	header = append(header, "Slope")
	fmt.Fprintf(tw, "  %s%s%s\n", ui.ColorUnderline(), strings.Join(header, "\t"), ui.ColorReset())

	for _, c := range costs {
		cells := []string{fmt.Sprintf("%s%s%s", ui.ColorCyan(), c.Method, ui.ColorReset())}
		for _, s := range c.Samples {
			cells = append(cells, cli.FormatExecutionDuration(s.PerEval))
		}
		cells = append(cells, fmt.Sprintf("%s%.2f%s", ui.ColorYellow(), c.Slope, ui.ColorReset()))
		fmt.Fprintf(tw, "  %s\n", strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// printWindowResults formats and prints the window trials table.
func printWindowResults(out io.Writer, results []windowResult, bestWindow int) {
	fmt.Fprintf(out, "\n--- Scan Window Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sWindow%s\t│ %sExecution Time%s\t│ Zeros\n", ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s\t┼%s\t┼%s\n", strings.Repeat("─", 8), strings.Repeat("─", 18), strings.Repeat("─", 6))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		zeros := "-"
		if res.Err == nil {
			durationStr = cli.FormatExecutionDuration(res.Duration)
			zeros = fmt.Sprintf("%d", res.Zeros)
		}
		highlight := ""
		if res.Window == bestWindow && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%d%s\t│ %s%s%s%s\t│ %s\n", ui.ColorCyan(), res.Window, ui.ColorReset(), ui.ColorYellow(), durationStr, ui.ColorReset(), highlight, zeros)
	}
	tw.Flush()
}

// formatHeight prints powers of ten as 1e5 and anything else with %g.
func formatHeight(t float64) string {
	if t >= 100 {
		if e := math.Round(math.Log10(t)); math.Pow(10, e) == t {
			return fmt.Sprintf("1e%d", int(e))
		}
	}
	return fmt.Sprintf("%g", t)
}
