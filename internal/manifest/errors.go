package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPublic is returned when an update function is not declared pub.
	ErrNotPublic = errors.New("update fn must be pub")
	// ErrReturnType is returned when an update function does not return bool.
	ErrReturnType = errors.New("return type of update fn must be 'bool'")
)

// SignatureError reports a line that mentions the update function but does
// not match the signature grammar.
type SignatureError struct {
	Line   string // trimmed source line
	Reason string // which part of the grammar failed
}

func (e *SignatureError) Error() string {
	return "expected line to look like an update function: " + e.Line
}

// CapacityError reports a capacity annotation that is not a positive integer.
type CapacityError struct {
	Line  string
	Value string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity must be a positive integer, got %s: %s", e.Value, e.Line)
}

// LineError attaches a 1-based line number to a scan error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
