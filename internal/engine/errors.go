package engine

import "errors"

// Errors returned by engine operations. Edit failures are reported with the
// kinds in package errs.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrNilRoot indicates SetRoot was called without a document.
	ErrNilRoot = errors.New("nil root")

	// ErrNotRoot indicates SetRoot was given a container that is not a root.
	ErrNotRoot = errors.New("container is not a root")

	// ErrCorrupted indicates the tree failed the invariant check after an
	// edit. It always points at a bug in the engine.
	ErrCorrupted = errors.New("document invariants violated")
)
