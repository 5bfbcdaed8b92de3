package zeta

// ProgressUpdate is a data transfer object (DTO) that encapsulates the
// progress state of an evaluation. It is sent over a channel from the
// calculator to the user interface to provide asynchronous progress updates.
type ProgressUpdate struct {
	// CalculatorIndex is a unique identifier for the calculator instance, allowing
	// the UI to distinguish between multiple concurrent evaluations.
	CalculatorIndex int
	// Value represents the normalized progress, ranging from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback form of progress reporting.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
type ProgressReporter func(progress float64)

// progressReportSteps is the number of intermediate reports per block.
const progressReportSteps = 100

// ProgressStride returns how many samples pass between two progress reports
// for a block of the given size.
func ProgressStride(points int) int {
	return max(1, points/progressReportSteps)
}
