package calibration

import (
	"runtime"
	"slices"
	"testing"
)

func TestGenerateWindowCandidates(t *testing.T) {
	t.Parallel()
	got := GenerateWindowCandidates()
	if !slices.IsSorted(got) {
		t.Errorf("candidates not sorted: %v", got)
	}
	if !slices.Contains(got, 128) || got[len(got)-1] != 512 {
		t.Errorf("unexpected candidates %v", got)
	}
	if runtime.NumCPU() > 1 && got[0] != 16 {
		t.Errorf("multi-core candidates should start at 16: %v", got)
	}

	got[0] = -1
	if GenerateWindowCandidates()[0] == -1 {
		t.Error("GenerateWindowCandidates must return a fresh slice")
	}
}

func TestEstimateOptimalWorkers(t *testing.T) {
	t.Parallel()
	w := EstimateOptimalWorkers()
	if w < 1 || w > runtime.NumCPU() {
		t.Errorf("EstimateOptimalWorkers() = %d with %d CPUs", w, runtime.NumCPU())
	}
}

func TestValidateWindow(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want int }{
		{-5, 2}, {0, 2}, {2, 2}, {128, 128}, {4096, 4096}, {1 << 20, 4096},
	}
	for _, tt := range tests {
		if got := ValidateWindow(tt.in); got != tt.want {
			t.Errorf("ValidateWindow(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
