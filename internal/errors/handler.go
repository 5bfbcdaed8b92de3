package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies terminal color codes without importing the cli
// package.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

// DefaultColorProvider provides no color codes (for non-terminal output).
type DefaultColorProvider struct{}

func (d DefaultColorProvider) Yellow() string { return "" }
func (d DefaultColorProvider) Reset() string  { return "" }

// HandleEvaluationError prints a status line for a failed evaluation or scan
// and returns the matching exit code.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: How long the work ran before failing (0 to omit).
//   - out: The io.Writer to which the error message will be written.
//   - colors: Provider for terminal color codes (can be nil for no colors).
//
// Returns:
//   - int: The appropriate exit code for the error type.
func HandleEvaluationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	code := ExitCode(err)
	var valErr ValidationError
	switch {
	case code == ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
	case code == ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
	case errors.As(err, &valErr):
		fmt.Fprintf(out, "Status: Invalid input. %v\n", err)
	case code == ExitErrorConfig:
		fmt.Fprintf(out, "Status: Configuration error. %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
