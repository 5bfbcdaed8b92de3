package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
)

const (
	// ThetaTableSize and ThetaTableStep describe the default θ table,
	// t = 0, 0.1, ..., 0.9.
	ThetaTableSize = 10
	ThetaTableStep = 0.1
	// MaxDisplayedSamples is the number of block rows printed before the
	// table is elided. Every sample still goes to the CSV output.
	MaxDisplayedSamples = 200
)

// FormatValue formats a Z(t) or θ(t) value with 15 significant digits.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}

func colored(color, s string) string {
	return color + s + ui.ColorReset()
}

// DisplayResult prints a single evaluation of Z at height t.
func DisplayResult(out io.Writer, t, z float64, m zeta.Method, duration time.Duration) {
	fmt.Fprintf(out, "\n%s--- Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Method          : %s\n", colored(ui.ColorCyan(), m.String()))
	fmt.Fprintf(out, "Height t        : %s\n", FormatValue(t))
	fmt.Fprintf(out, "Z(t)            : %s\n", colored(ui.SignColor(z), FormatValue(z)))
	fmt.Fprintf(out, "θ(t)            : %s\n", FormatValue(zeta.Theta(t)))
	fmt.Fprintf(out, "Terms (N)       : %d\n", m.Terms(t))
	fmt.Fprintf(out, "Evaluation time : %s\n", colored(ui.ColorGreen(), FormatExecutionDuration(duration)))
}

// DisplayBlock prints the samples of a block as a table. A "*" marks every
// sample whose sign differs from the previous one.
func DisplayBlock(out io.Writer, b zeta.Block, values []float64, m zeta.Method, duration time.Duration) {
	fmt.Fprintf(out, "\n%s--- Block [%s, %s], %d points, %s ---%s\n", ui.ColorBold(),
		FormatValue(b.Start), FormatValue(b.Start+b.Length), b.Points, m, ui.ColorReset())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "k\tt\tZ(t)\t\t")
	for k, z := range values[:min(len(values), MaxDisplayedSamples)] {
		mark := ""
		if k > 0 && (values[k-1] < 0) != (z < 0) {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%.6f\t%s\t%s\t\n", k, b.At(k), colored(ui.SignColor(z), fmt.Sprintf("%.12f", z)), mark)
	}
	tw.Flush()
	if len(values) > MaxDisplayedSamples {
		fmt.Fprintf(out, "... %d more samples (use -o to export all)\n", len(values)-MaxDisplayedSamples)
	}
	fmt.Fprintf(out, "Sign changes    : %s\n", colored(ui.ColorYellow(), strconv.Itoa(CountSignChanges(values))))
	fmt.Fprintf(out, "Evaluation time : %s\n", colored(ui.ColorGreen(), FormatExecutionDuration(duration)))
}

// DisplayZeros prints the zeros found by a scan.
func DisplayZeros(out io.Writer, res *scan.Result) {
	fmt.Fprintf(out, "\n%s--- Zeros of Z on [%s, %s] (%s) ---%s\n", ui.ColorBold(),
		FormatValue(res.From), FormatValue(res.To), res.Method, ui.ColorReset())
	if len(res.Zeros) == 0 {
		fmt.Fprintf(out, "%sNo sign change found.%s\n", ui.ColorYellow(), ui.ColorReset())
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "#\tt\tZ(t)\tGram interval\tsteps\t")
		for i, z := range res.Zeros {
			fmt.Fprintf(tw, "%d\t%.10f\t%.3e\t%d\t%d\t\n", i+1, z.T, z.Z, z.GramIndex, z.Iterations)
		}
		tw.Flush()
	}
	fmt.Fprintf(out, "Zeros found     : %s (%d samples in %d windows)\n",
		colored(ui.ColorGreen(), strconv.Itoa(len(res.Zeros))), res.Samples, res.Windows)
	fmt.Fprintf(out, "Scan time       : %s\n", colored(ui.ColorGreen(), FormatExecutionDuration(res.Duration)))
}

// DisplayThetaTable prints θ(t) for t = 0, 0.1, ..., 0.9, one value per line.
func DisplayThetaTable(out io.Writer) {
	t := 0.0
	for range ThetaTableSize {
		fmt.Fprintf(out, "θ(%.1f) = %s\n", t, FormatValue(zeta.Theta(t)))
		t += ThetaTableStep
	}
}

// DisplayBernoulliTable prints B_0 .. B_{n-1}. Odd indices above 1 are zero
// and are skipped.
func DisplayBernoulliTable(out io.Writer, n int) {
	if n <= 0 {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "n\tB_n\t")
	for i, b := range zeta.SharedBernoulli[float64]().Values(n - 1) {
		if i > 1 && i%2 == 1 {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", i, FormatValue(b))
	}
	tw.Flush()
}

// DisplayGramPoints prints the Gram points g_0 .. g_{n-1}.
func DisplayGramPoints(out io.Writer, n int) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "n\tg_n\t")
	for i := range n {
		g, err := zeta.GramPoint(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%.12f\t\n", i, g)
	}
	return tw.Flush()
}
