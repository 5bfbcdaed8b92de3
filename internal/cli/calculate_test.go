package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/hardyz/internal/config"
	"github.com/agbru/hardyz/internal/testutil"
	"github.com/agbru/hardyz/internal/zeta"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := zeta.NewDefaultFactory()

	tests := []struct {
		method   string
		wantKeys []string
	}{
		{"all", []string{"em", "os", "rs"}},
		{"rs", []string{"rs"}},
		{"em", []string{"em"}},
		{"nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			calcs := GetCalculatorsToRun(config.AppConfig{Method: tt.method}, factory)
			if len(calcs) != len(tt.wantKeys) {
				t.Fatalf("got %d calculators, want %d", len(calcs), len(tt.wantKeys))
			}
			for i, c := range calcs {
				if c.Method().Key() != tt.wantKeys[i] {
					t.Errorf("calculator %d = %s, want %s", i, c.Method().Key(), tt.wantKeys[i])
				}
			}
		})
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	withoutColors(t)

	t.Run("single height", func(t *testing.T) {
		var buf bytes.Buffer
		PrintExecutionConfig(config.AppConfig{T: 100, Timeout: time.Minute, Precision: 64}, &buf)
		missing := testutil.MissingLines(buf.String(),
			"--- Execution Configuration ---",
			"Evaluating Z(100) with a timeout of 1m0s.",
			"64-bit floats.",
		)
		if len(missing) > 0 {
			t.Errorf("missing %q in:\n%s", missing, buf.String())
		}
	})

	t.Run("block", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.AppConfig{Start: 10, Length: 5, Points: 50, Timeout: time.Second, Precision: 32}
		PrintExecutionConfig(cfg, &buf)
		if !strings.Contains(buf.String(), "Evaluating Z(t) on 50 points of [10, 15] with a timeout of 1s.") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

func TestPrintExecutionMode(t *testing.T) {
	withoutColors(t)

	var buf bytes.Buffer
	PrintExecutionMode([]zeta.Calculator{&zeta.MockCalculator{Label: "Riemann-Siegel"}}, &buf)
	if !strings.Contains(buf.String(), "Single evaluation with the Riemann-Siegel method.") {
		t.Errorf("unexpected single mode output:\n%s", buf.String())
	}

	buf.Reset()
	PrintExecutionMode([]zeta.Calculator{&zeta.MockCalculator{}, &zeta.MockCalculator{}}, &buf)
	if !strings.Contains(buf.String(), "Parallel comparison of 2 methods.") {
		t.Errorf("unexpected comparison output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "--- Starting Execution ---") {
		t.Error("missing execution header")
	}
}
