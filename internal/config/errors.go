package config

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates an explicitly requested configuration file doesn't exist.
var ErrFileNotFound = errors.New("config file not found")

// ValidationError reports a setting whose value cannot be used.
type ValidationError struct {
	// Field is the dotted setting path, e.g. "script.timeout".
	Field string
	// Value is the offending value as loaded.
	Value any
	// Message describes the problem.
	Message string
	// Err is the underlying decode error, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid setting %s = %v: %s", e.Field, e.Value, e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
