// Package apperrors defines the structured error types shared by the CLI and
// the HTTP server, and maps them to process exit codes.
//
// Every type that carries a cause implements Unwrap, so errors.Is and
// errors.As see through them. Wrap with fmt.Errorf and %w elsewhere.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Generic failure.
	ExitErrorTimeout  = 2   // The -timeout deadline was reached.
	ExitErrorMismatch = 3   // Methods disagreed beyond the comparison tolerance.
	ExitErrorConfig   = 4   // Invalid flags, environment or config file.
	ExitErrorCanceled = 130 // Interrupted (e.g., SIGINT).
)

// ConfigError is a user configuration error, such as an invalid flag value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvaluationError records which method failed and why.
type EvaluationError struct {
	// Method is the short key of the failing method, if known.
	Method string
	// Cause is the underlying error.
	Cause error
}

// Error returns the cause message, prefixed with the method when set.
func (e EvaluationError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("%s: %v", e.Method, e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap returns the cause.
func (e EvaluationError) Unwrap() error { return e.Cause }

// NewEvaluationError wraps cause. It returns nil when cause is nil.
func NewEvaluationError(method string, cause error) error {
	if cause == nil {
		return nil
	}
	return EvaluationError{Method: method, Cause: cause}
}

// ServerError represents errors that occur in the HTTP server component.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error combines the message and the cause when present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError prefixes err with a formatted context message, or returns nil
// when err is nil.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError is an invalid request or flag value.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// ExitCode maps err to the exit code the process should return.
func ExitCode(err error) int {
	var cfgErr ConfigError
	var valErr ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
