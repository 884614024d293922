package script

import "errors"

// Errors for script execution.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrInstructionLimit is returned when a run exhausts its call budget.
	ErrInstructionLimit = errors.New("lua instruction limit exceeded")
)
