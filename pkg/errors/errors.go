// Package errors provides structured error handling for framestat with error
// categorization, key-value details and stack traces.
//
// # Overview
//
// Every fallible operation in framestat returns an *Error whose Type names the
// failure class (missing column, out of range index, invalid quantile, ...).
// Callers branch on the class with IsType instead of matching message text:
//
//	v, err := df.Quantile("price", 1.5)
//	if errors.IsType(err, errors.ErrorTypeInvalidQuantile) {
//	    // q must lie in [0, 1)
//	}
//
// Errors wrap their cause, so the standard library errors.Is and errors.As keep
// working through an *Error chain.
//
// # Thread Safety
//
// Error instances are not safe for concurrent modification. Add details with
// WithDetail before sharing an error across goroutines.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// ErrorTypeInvalidColumnType means no candidate type could represent a column.
	// Only reachable when a column is forced to parse as datetime.
	ErrorTypeInvalidColumnType ErrorType = "invalid_column_type"
	// ErrorTypeOutOfRange means an index or range lies outside the column.
	ErrorTypeOutOfRange ErrorType = "out_of_range"
	// ErrorTypeMissingColumn means no column carries the requested name.
	ErrorTypeMissingColumn ErrorType = "missing_column"
	// ErrorTypeInvalidQuantile means a quantile level outside [0, 1).
	ErrorTypeInvalidQuantile ErrorType = "invalid_quantile"
	// ErrorTypeInvalidMetricType means a statistic was requested on a non-numeric column.
	ErrorTypeInvalidMetricType ErrorType = "invalid_metric_type"
	// ErrorTypeEmptyColumn means a statistic was requested on a zero-row column.
	ErrorTypeEmptyColumn ErrorType = "empty_column"
	// ErrorTypeUnexpectedEndOfInput means the input ended before a header row.
	ErrorTypeUnexpectedEndOfInput ErrorType = "unexpected_end_of_input"
	// ErrorTypeUnimplemented means a metric has no definition for the column kind.
	ErrorTypeUnimplemented ErrorType = "unimplemented"
	// ErrorTypeRaggedColumns means the raw columns do not share one length.
	ErrorTypeRaggedColumns ErrorType = "ragged_columns"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeValidation represents argument validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context.
//
// Fields:
//   - Type: the failure class
//   - Message: human-readable description
//   - Cause: the underlying error, if any
//   - Details: key-value context (column name, index, quantile level, ...)
//   - Stack: call stack at the point of creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Calls can be chained.
//
//	return errors.New(errors.ErrorTypeOutOfRange, "row index out of range").
//	    WithDetail("index", i).
//	    WithDetail("len", n)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, capturing the call
// stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps err with a type and message, keeping err as the cause. The stack
// of an already structured cause is preserved. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether the outermost *Error in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// GetType returns the type of the outermost *Error in err's chain, or
// ErrorTypeInternal when err carries no structured error.
func GetType(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// As is errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// captureStack records up to 32 frames, skipping the given number of frames.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
