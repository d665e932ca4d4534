// Package errors provides standardized error types for analysis and
// cleaning operations. It defines EngineError for consistent error handling
// across all public APIs, with operation context, a failure-kind taxonomy,
// and error wrapping support.
package errors

import (
	"fmt"
)

// Kind classifies engine failures.
type Kind int

const (
	// KindInternal marks unexpected failures recovered at a stage boundary.
	KindInternal Kind = iota
	// KindUnsupportedFormat marks unreadable or unknown file types. Fatal
	// for the invocation.
	KindUnsupportedFormat
	// KindInsufficientData marks statistical routines given too few rows or
	// columns. Reported as a typed result inside the analyzer's section,
	// never a hard failure of the whole run.
	KindInsufficientData
	// KindDegenerateStatistic marks zero-variance, zero-MAD and similar
	// degenerate inputs that degrade to a documented fallback.
	KindDegenerateStatistic
	// KindConversionFailure marks a failed type-standardization attempt.
	// Caught locally; the column retains its prior type.
	KindConversionFailure
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindInsufficientData:
		return "insufficient_data"
	case KindDegenerateStatistic:
		return "degenerate_statistic"
	case KindConversionFailure:
		return "conversion_failure"
	default:
		return "internal"
	}
}

// EngineError represents standardized errors across analysis and cleaning.
type EngineError struct {
	Op      string // Operation name (e.g., "AnalyzeOutliers", "Impute")
	Column  string // Column name if applicable
	Kind    Kind   // Failure classification
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s failed on column '%s': %s (%s)", e.Op, e.Column, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s failed: %s (%s)", e.Op, e.Message, e.Kind)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
func (e *EngineError) Is(target error) bool {
	if ee, ok := target.(*EngineError); ok {
		return e.Op == ee.Op && e.Column == ee.Column && e.Kind == ee.Kind && e.Message == ee.Message
	}
	return false
}

// IsKind reports whether err is an *EngineError of the given kind.
func IsKind(err error, kind Kind) bool {
	if ee, ok := err.(*EngineError); ok {
		return ee.Kind == kind
	}
	return false
}

// Common error constructors for consistent error creation.

// NewUnsupportedFormatError creates an error for unreadable or unknown
// file formats.
func NewUnsupportedFormatError(op, format string) *EngineError {
	return &EngineError{
		Op:      op,
		Kind:    KindUnsupportedFormat,
		Message: fmt.Sprintf("unsupported format: %s", format),
	}
}

// NewInsufficientDataError creates an error for statistical routines that
// need more rows or columns than the table provides.
func NewInsufficientDataError(op, message string) *EngineError {
	return &EngineError{
		Op:      op,
		Kind:    KindInsufficientData,
		Message: message,
	}
}

// NewDegenerateStatisticError creates an error for zero-variance and
// similar degenerate inputs.
func NewDegenerateStatisticError(op, column, message string) *EngineError {
	return &EngineError{
		Op:      op,
		Column:  column,
		Kind:    KindDegenerateStatistic,
		Message: message,
	}
}

// NewConversionFailureError creates an error for a failed column type
// conversion.
func NewConversionFailureError(op, column string, cause error) *EngineError {
	return &EngineError{
		Op:      op,
		Column:  column,
		Kind:    KindConversionFailure,
		Message: "type conversion failed",
		Cause:   cause,
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent
// columns.
func NewColumnNotFoundError(op, column string) *EngineError {
	return &EngineError{
		Op:      op,
		Column:  column,
		Kind:    KindInternal,
		Message: "column does not exist",
	}
}

// NewInvalidInputError creates an error for invalid operation inputs.
func NewInvalidInputError(op, message string) *EngineError {
	return &EngineError{
		Op:      op,
		Kind:    KindInternal,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures.
func NewInternalError(op string, cause error) *EngineError {
	return &EngineError{
		Op:      op,
		Kind:    KindInternal,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Predefined error variables for common cases.
var (
	// ErrEmptyTable indicates operations on empty tables.
	ErrEmptyTable = &EngineError{
		Op:      "validation",
		Kind:    KindInsufficientData,
		Message: "operation not supported on empty table",
	}

	// ErrMismatchedLength indicates length mismatches in operations.
	ErrMismatchedLength = &EngineError{
		Op:      "validation",
		Kind:    KindInternal,
		Message: "columns must have the same length",
	}
)
