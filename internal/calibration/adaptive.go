package calibration

import (
	"runtime"
	"slices"
)

// windowCandidates are the scan window sizes tried by RunCalibration.
var windowCandidates = []int{16, 32, 64, 128, 256, 512}

// GenerateWindowCandidates returns the scan window sizes to test, in
// ascending order.
//
// Small windows only pay off when there are enough cores to keep several of
// them in flight, so single-core machines skip 16 and 32.
func GenerateWindowCandidates() []int {
	if runtime.NumCPU() == 1 {
		return slices.DeleteFunc(slices.Clone(windowCandidates), func(w int) bool { return w < 64 })
	}
	return slices.Clone(windowCandidates)
}

// EstimateOptimalWorkers provides a heuristic number of scan workers without
// running benchmarks. Windows are independent, so one worker per core is the
// baseline; very large machines leave a few cores to the refinement phase.
func EstimateOptimalWorkers() int {
	numCPU := runtime.NumCPU()

	if numCPU <= 16 {
		return numCPU
	}
	return numCPU - numCPU/8
}

// ValidateWindow clamps a window size into [2, 4096].
func ValidateWindow(window int) int {
	return min(max(window, 2), 4096)
}
