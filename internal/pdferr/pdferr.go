// Package pdferr defines the error taxonomy shared by the surface
// generation, fill and diagnostics operations.
package pdferr

import (
	"errors"
	"fmt"
)

// Kind categorizes an operation failure.
type Kind int

const (
	// KindInput marks caller-side failures: missing or unreadable base
	// documents, malformed schema payloads. Not retryable.
	KindInput Kind = iota
	// KindGeneration marks overlay construction or merge failures. The
	// surface artifact is never partially written.
	KindGeneration
	// KindFill marks widget mutation failures during form filling. A
	// partial fill aborts the whole operation.
	KindFill
	// KindValidation marks non-fatal findings collected alongside a
	// successful result.
	KindValidation
)

// String returns the taxonomy label for the kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "INPUT_ERROR"
	case KindGeneration:
		return "GENERATION_ERROR"
	case KindFill:
		return "FILL_ERROR"
	case KindValidation:
		return "VALIDATION_WARNING"
	default:
		return "UNKNOWN"
	}
}

// Error is a categorized operation error. The wrapped cause keeps the
// original library or parse message reachable via errors.Unwrap.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Op)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(": %s", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Input wraps err as a caller-side input failure.
func Input(op, path string, err error) *Error {
	return &Error{Kind: KindInput, Op: op, Path: path, Err: err}
}

// Inputf creates an input failure from a format string.
func Inputf(op, path, format string, args ...any) *Error {
	return &Error{Kind: KindInput, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// Generation wraps err as an overlay construction or merge failure.
func Generation(op, field string, err error) *Error {
	return &Error{Kind: KindGeneration, Op: op, Field: field, Err: err}
}

// Generationf creates a generation failure from a format string.
func Generationf(op, field, format string, args ...any) *Error {
	return &Error{Kind: KindGeneration, Op: op, Field: field, Err: fmt.Errorf(format, args...)}
}

// Fill wraps err as a widget mutation failure.
func Fill(op, field string, err error) *Error {
	return &Error{Kind: KindFill, Op: op, Field: field, Err: err}
}

// kindOf extracts the taxonomy kind of err, if any.
func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsInput reports whether err is categorized as an input failure.
func IsInput(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindInput
}

// IsGeneration reports whether err is categorized as a generation failure.
func IsGeneration(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindGeneration
}

// IsFill reports whether err is categorized as a fill failure.
func IsFill(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindFill
}
