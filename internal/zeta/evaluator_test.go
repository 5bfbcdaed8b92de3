package zeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const firstZero = 14.134725141734693

func TestCompute_Origin(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, m := range Methods() {
		for _, x := range []float64{0, 1e-10, -5e-10} {
			if got := ev.Compute(x, m); got != -0.5 {
				t.Errorf("Compute(%v, %s) = %v, want -0.5", x, m, got)
			}
		}
	}
}

func TestCompute_FirstZero(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, m := range []Method{EulerMaclaurin, RiemannSiegel} {
		if got := ev.Compute(firstZero, m); math.Abs(got) > 1e-3 {
			t.Errorf("Compute(%v, %s) = %v, want |Z| <= 1e-3", firstZero, m, got)
		}
	}
}

func TestEulerMaclaurin_KnownZeros(t *testing.T) {
	t.Parallel()

	file, err := os.ReadFile(filepath.Join("testdata", "zeros_reference.json"))
	if err != nil {
		t.Fatalf("Failed to read reference zeros: %v", err)
	}
	var zeros []float64
	if err := json.Unmarshal(file, &zeros); err != nil {
		t.Fatalf("Failed to decode reference zeros: %v", err)
	}

	ev := NewEvaluator[float64]()
	for _, z := range zeros {
		if got := ev.Compute(z, EulerMaclaurin); math.Abs(got) > 1e-3 {
			t.Errorf("Z(%v) = %v, want |Z| <= 1e-3", z, got)
		}
	}
}

// TestEulerMaclaurin_SignChanges checks that Z changes sign between the
// neighbourhoods of consecutive known zeros.
func TestEulerMaclaurin_SignChanges(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	left := ev.Compute(firstZero-0.1, EulerMaclaurin)
	right := ev.Compute(firstZero+0.1, EulerMaclaurin)
	if left*right >= 0 {
		t.Errorf("no sign change around the first zero: Z(-)=%v Z(+)=%v", left, right)
	}
}

func TestRiemannSiegel_DegenerateTruncation(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, x := range []float64{1, 6.3, 20, 25.1, -100, -1000} {
		if got := ev.Compute(x, RiemannSiegel); got != 0 {
			t.Errorf("Compute(%v, RS) = %v, want 0", x, got)
		}
	}
	if ev.Compute(26, RiemannSiegel) == 0 {
		t.Error("Compute(26, RS) = 0, want the two-term main sum")
	}
}

func TestTruncationRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		t          float64
		em, rs, os int
	}{
		{1, 15, 0, 1},
		{14.13, 19, 1, 1},
		{100, 105, 3, 3},
		{1000, 1005, 12, 12},
		{-20, 25, 0, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.t), func(t *testing.T) {
			t.Parallel()
			if got := EulerMaclaurinTerms(tt.t); got != tt.em {
				t.Errorf("EulerMaclaurinTerms(%v) = %d, want %d", tt.t, got, tt.em)
			}
			if got := RiemannSiegelTerms(tt.t); got != tt.rs {
				t.Errorf("RiemannSiegelTerms(%v) = %d, want %d", tt.t, got, tt.rs)
			}
			if got := OdlyzkoSchonhageTerms(tt.t); got != tt.os {
				t.Errorf("OdlyzkoSchonhageTerms(%v) = %d, want %d", tt.t, got, tt.os)
			}
		})
	}
}

func TestComputeBlock_OdlyzkoSchonhageMatchesRiemannSiegel(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	want := []float64{
		1.1121050167191948,
		1.642911224765474,
		-0.8535634382056988,
		0.7530137685301013,
		-1.880386466539983,
		1.3071995679053177,
	}

	got, err := ev.ComputeBlock(1000, 5, 6, OdlyzkoSchonhage)
	if err != nil {
		t.Fatalf("ComputeBlock error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for k := range got {
		tk := 1000 + float64(k)
		rs := ev.Compute(tk, RiemannSiegel)
		if math.Abs(got[k]-rs) > 1e-9 {
			t.Errorf("sample %d (t=%v): OS=%v RS=%v", k, tk, got[k], rs)
		}
		if math.Abs(got[k]-want[k]) > 1e-9 {
			t.Errorf("sample %d (t=%v): OS=%v, want %v", k, tk, got[k], want[k])
		}
	}
}

func TestComputeBlock_PerPointMethods(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, m := range []Method{EulerMaclaurin, RiemannSiegel} {
		got, err := ev.ComputeBlock(100, 2, 5, m)
		if err != nil {
			t.Fatalf("ComputeBlock(%s) error = %v", m, err)
		}
		for k, z := range got {
			tk := 100 + 0.5*float64(k)
			if want := ev.Compute(tk, m); z != want {
				t.Errorf("%s sample %d = %v, want %v", m, k, z, want)
			}
		}
	}
}

func TestComputeBlock_InvalidPoints(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, points := range []int{0, -3} {
		got, err := ev.ComputeBlock(100, 1, points, EulerMaclaurin)
		if !errors.Is(err, ErrInvalidPoints) {
			t.Errorf("ComputeBlock(points=%d) error = %v, want ErrInvalidPoints", points, err)
		}
		if got != nil {
			t.Errorf("ComputeBlock(points=%d) = %v, want nil", points, got)
		}
	}
}

func TestComputeBlock_SinglePointIgnoresLength(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, m := range Methods() {
		got, err := ev.ComputeBlock(500, 123, 1, m)
		if err != nil {
			t.Fatal(err)
		}
		if want := ev.Compute(500, m); got[0] != want {
			t.Errorf("%s: single-point block = %v, want %v", m, got[0], want)
		}
	}
}

func TestComputeBlock_OriginSampleInsideBlock(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	got, err := ev.ComputeBlock(-1, 2, 3, OdlyzkoSchonhage)
	if err != nil {
		t.Fatal(err)
	}
	if got[1] != -0.5 {
		t.Errorf("sample at t=0 = %v, want -0.5", got[1])
	}
}

func TestSamples_EarlyBreak(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator[float64]()
	for _, m := range Methods() {
		seen := 0
		for k := range ev.Samples(1000, 10, 50, m) {
			if k != seen {
				t.Fatalf("%s: got index %d, want %d", m, k, seen)
			}
			seen++
			if seen == 3 {
				break
			}
		}
		if seen != 3 {
			t.Errorf("%s: consumed %d samples, want 3", m, seen)
		}
	}
}

func TestCompute_UnknownMethodPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Compute with Method(7) did not panic")
		}
	}()
	NewEvaluator[float64]().Compute(100, Method(7))
}

func TestCompute_Float32(t *testing.T) {
	t.Parallel()

	ev32 := NewEvaluator[float32]()
	ev64 := NewEvaluator[float64]()
	for _, m := range Methods() {
		if got := ev32.Compute(0, m); got != -0.5 {
			t.Errorf("float32 Compute(0, %s) = %v", m, got)
		}
		got := float64(ev32.Compute(100, m))
		want := ev64.Compute(100, m)
		if math.Abs(got-want) > 1e-2 {
			t.Errorf("float32 Compute(100, %s) = %v, float64 = %v", m, got, want)
		}
	}
}

func TestNewEvaluatorWithTable(t *testing.T) {
	t.Parallel()

	tbl := NewBernoulliTable[float64]()
	ev := NewEvaluatorWithTable(tbl)
	ev.Compute(50, EulerMaclaurin)
	if tbl.Len() != 5 {
		t.Errorf("Euler-Maclaurin grew the injected table to %d entries, want 5", tbl.Len())
	}

	defer func() {
		if recover() == nil {
			t.Error("NewEvaluatorWithTable(nil) did not panic")
		}
	}()
	NewEvaluatorWithTable[float64](nil)
}

// TestComputeBlock_PropertyBased checks that a zero-length single-point block
// reproduces Compute exactly for every method.
func TestComputeBlock_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	ev := NewEvaluator[float64]()

	for _, m := range Methods() {
		properties.Property(m.String()+" single-point block equals Compute", prop.ForAll(
			func(x float64) bool {
				got, err := ev.ComputeBlock(x, 0, 1, m)
				return err == nil && len(got) == 1 && got[0] == ev.Compute(x, m)
			},
			gen.Float64Range(-100, 3000),
		))
	}

	properties.Property("Z is even", prop.ForAll(
		func(x float64) bool {
			return math.Abs(ev.Compute(x, EulerMaclaurin)-ev.Compute(-x, EulerMaclaurin)) < 1e-9
		},
		gen.Float64Range(1, 200),
	))

	properties.TestingRun(t)
}
