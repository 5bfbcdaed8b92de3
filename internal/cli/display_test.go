package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/testutil"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
)

func withoutColors(t *testing.T) {
	t.Helper()
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })
}

func TestDisplayResult(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	DisplayResult(&buf, 1000, 0.5, zeta.RiemannSiegel, 3*time.Millisecond)

	want := []string{
		"Method          : Riemann-Siegel",
		"Height t        : 1000",
		"Z(t)            : 0.5",
		"θ(t)            : "+FormatValue(zeta.Theta(1000.0)),
		"Terms (N)       : 12",
		"Evaluation time : 3ms",
	}
	if missing := testutil.MissingLines(buf.String(), want...); len(missing) > 0 {
		t.Errorf("missing %q in:\n%s", missing, buf.String())
	}
}

func TestDisplayBlock(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	b := zeta.Block{Start: 10, Length: 2, Points: 3}
	DisplayBlock(&buf, b, []float64{1, -1, -2}, zeta.EulerMaclaurin, time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "Block [10, 12], 3 points, Euler-Maclaurin") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "Sign changes    : 1") {
		t.Errorf("sign change count missing:\n%s", out)
	}
	if strings.Count(out, "*") != 1 {
		t.Errorf("expected exactly one sign change marker:\n%s", out)
	}
}

func TestDisplayBlock_Elides(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	values := make([]float64, MaxDisplayedSamples+5)
	DisplayBlock(&buf, zeta.Block{Start: 0, Length: 1, Points: len(values)}, values, zeta.EulerMaclaurin, 0)
	if !strings.Contains(buf.String(), "... 5 more samples") {
		t.Errorf("elision note missing:\n%s", buf.String())
	}
}

func TestDisplayZeros(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	res := &scan.Result{
		Method: zeta.EulerMaclaurin, From: 10, To: 30, Samples: 401, Windows: 4,
		Zeros: []scan.Zero{
			{T: 14.134725141734693, GramIndex: -1, Iterations: 30},
			{T: 21.022039638771555, GramIndex: 0, Iterations: 30},
		},
	}
	DisplayZeros(&buf, res)
	out := buf.String()
	for _, want := range []string{"14.1347251417", "21.0220396388", "Zeros found     : 2 (401 samples in 4 windows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	DisplayZeros(&buf, &scan.Result{Method: zeta.RiemannSiegel, From: 1, To: 2})
	if !strings.Contains(buf.String(), "No sign change found.") {
		t.Errorf("empty result message missing:\n%s", buf.String())
	}
}

func TestDisplayThetaTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayThetaTable(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != ThetaTableSize {
		t.Fatalf("got %d lines, want %d", len(lines), ThetaTableSize)
	}
	if lines[0] != "θ(0.0) = 0" || !strings.HasPrefix(lines[9], "θ(0.9) = ") {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}

func TestDisplayBernoulliTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayBernoulliTable(&buf, 7)
	out := buf.String()
	for _, want := range []string{"-0.5", "0.1666666666666", "-0.0333333333333", "0.0238095238095"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	// B_3 and B_5 are skipped.
	if strings.Count(out, "\n") != 6 {
		t.Errorf("expected header plus 5 rows:\n%s", out)
	}

	buf.Reset()
	DisplayBernoulliTable(&buf, 0)
	if buf.Len() != 0 {
		t.Errorf("n=0 should print nothing, got %q", buf.String())
	}
}

func TestDisplayGramPoints(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := DisplayGramPoints(&buf, 3); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"17.84559954", "23.17028270", "27.67018221"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in:\n%s", want, buf.String())
		}
	}
}
