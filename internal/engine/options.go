package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithRoot sets the initial document. The root must not be attached to
// another engine.
func WithRoot(root *node.Container) Option {
	return func(e *Engine) {
		if root != nil && root.Kind() == node.KindRoot {
			e.root = root
		}
	}
}

// WithID sets the document id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// WithLogger sets the logger. The engine logs under the "engine" name.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithInvariantChecks runs node.CheckInvariants after every edit.
func WithInvariantChecks(on bool) Option {
	return func(e *Engine) {
		e.checkInvariants = on
	}
}

// WithTrace keeps the layout instructions of every pass until TakeTrace.
func WithTrace(on bool) Option {
	return func(e *Engine) {
		e.trace = on
	}
}

// WithReadOnly creates a read-only engine.
// Edits return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
