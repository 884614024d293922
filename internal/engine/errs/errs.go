// Package errs defines the error kinds reported by document edits.
//
// InvalidLocation, InvalidRange, ExpectedContainer and ExpectedText describe
// input that does not fit the current tree shape, typically a stale
// selection. OperationRejected is an expected outcome: the edit would break
// a document-level constraint and the caller should treat it as a no-op.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrInvalidLocation indicates a path or offset does not resolve against the tree.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidRange indicates two locations do not form a well-formed range.
	ErrInvalidRange = errors.New("invalid range")

	// ErrExpectedContainer indicates a container node was required.
	ErrExpectedContainer = errors.New("expected container node")

	// ErrExpectedText indicates a text node was required.
	ErrExpectedText = errors.New("expected text node")

	// ErrOperationRejected indicates the edit would violate a document constraint.
	ErrOperationRejected = errors.New("operation rejected")
)

// LocationError records the operation and location that failed.
type LocationError struct {
	Op       string // Operation that failed (trace, delete, break, ...)
	Location string // Location in text form
	Err      error  // Underlying error kind
}

// Error implements the error interface.
func (e *LocationError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Err)
}

// Unwrap returns the underlying error kind.
func (e *LocationError) Unwrap() error {
	return e.Err
}

// New creates a LocationError. loc is formatted with %v.
func New(op string, loc any, err error) *LocationError {
	var s string
	if loc != nil {
		s = fmt.Sprint(loc)
	}
	return &LocationError{Op: op, Location: s, Err: err}
}

// IsRejected returns true if err is an OperationRejected outcome.
func IsRejected(err error) bool {
	return errors.Is(err, ErrOperationRejected)
}

// IsInternal returns true if err is one of the input-shape error kinds.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInvalidLocation) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrExpectedContainer) ||
		errors.Is(err, ErrExpectedText)
}
