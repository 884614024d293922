package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/edit"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/layout"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// Re-export commonly used types for convenience.
type (
	// Location is a position in the tree.
	Location = location.Location

	// Range is a pair of locations.
	Range = location.Range

	// Result is the outcome of an edit.
	Result = edit.Result

	// RepairOutcome classifies the result of RepairRange.
	RepairOutcome = edit.RepairOutcome
)

// Report describes one layout pass.
type Report struct {
	// Revision is the document revision the pass rendered.
	Revision uint64
	// FromScratch is set when the rendering was rebuilt.
	FromScratch bool
	// Instructions is the number of instructions issued; only counted
	// when tracing.
	Instructions int
	// Stats are the unit counts the pass touched.
	Stats layout.Stats
}

// Engine is the main facade for one document.
// It owns the tree and its rendering and brackets every edit with the
// layout pass that brings the rendering up to date.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	id       uuid.UUID
	root     *node.Container
	stream   *layout.Stream
	laidOut  bool
	revision uint64
	last     Report
	traced   []string

	// Configuration
	log             *zap.Logger
	checkInvariants bool
	trace           bool
	readOnly        bool
}

// New creates a new Engine with the given options. Without WithRoot the
// document is empty.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:  uuid.New(),
		log: zap.NewNop(),
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	if e.root == nil {
		e.root = node.NewRoot()
	}
	e.log = e.log.Named("engine").With(zap.Stringer("doc", e.id))
	e.reconcile()
	return e
}

// ID returns the document id.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// ============================================================================
// Read Operations
// ============================================================================

// Revision returns the number of successful edits and root replacements.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// Read calls fn with the root under the read lock. fn must not modify the
// tree or keep references to it.
func (e *Engine) Read(fn func(root *node.Container)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.root)
}

// ContentLength returns the content length of the document.
func (e *Engine) ContentLength() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root.ContentLength()
}

// LayoutLength returns the layout length of the document.
func (e *Engine) LayoutLength() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root.LayoutLength()
}

// Tree returns the indented tree form of the document.
func (e *Engine) Tree() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return node.PrettyPrint(e.root)
}

// Synopsis returns the one-line form of the document.
func (e *Engine) Synopsis() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return node.Synopsis(e.root)
}

// Render returns the rendered text of the document.
func (e *Engine) Render() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stream.String()
}

// Dump lists the rendered units with their owners.
func (e *Engine) Dump() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stream.Dump()
}

// LastReport describes the most recent layout pass.
func (e *Engine) LastReport() Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// ============================================================================
// Locations
// ============================================================================

// Normalize resolves loc and moves it into an adjacent text run where one
// exists.
func (e *Engine) Normalize(loc Location) (Location, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := location.TraceFrom(loc, e.root)
	if err != nil {
		return Location{}, err
	}
	return location.BuildNormalizedLocation(t), nil
}

// ValidateRange reports whether r may be used as a selection.
func (e *Engine) ValidateRange(r Range) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return edit.ValidateRange(r, e.root)
}

// RepairRange moves the endpoints of r out of opaque nodes.
func (e *Engine) RepairRange(r Range) (Range, RepairOutcome) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return edit.RepairRange(r, e.root)
}

// ============================================================================
// Write Operations
// ============================================================================

// SetRoot replaces the document. The new rendering is built from scratch.
func (e *Engine) SetRoot(root *node.Container) error {
	if root == nil {
		return ErrNilRoot
	}
	if root.Kind() != node.KindRoot {
		return fmt.Errorf("%w: %s", ErrNotRoot, root.Kind())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	e.root = root
	e.laidOut = false
	e.revision++
	e.reconcile()
	e.log.Debug("root replaced", zap.Uint64("revision", e.revision), zap.Int("length", root.ContentLength()))
	return nil
}

// InsertString inserts s at loc.
func (e *Engine) InsertString(s string, loc Location) (Result, error) {
	return e.apply("insert", loc, func(root *node.Container) (Result, error) {
		return edit.InsertString(s, loc, root)
	})
}

// DeleteRange removes the content of r.
func (e *Engine) DeleteRange(r Range) (Result, error) {
	return e.apply("delete", r, func(root *node.Container) (Result, error) {
		return edit.DeleteRange(r, root)
	})
}

// InsertParagraphBreak splits the paragraph at loc.
func (e *Engine) InsertParagraphBreak(loc Location) (Result, error) {
	return e.apply("break", loc, func(root *node.Container) (Result, error) {
		return edit.InsertParagraphBreak(loc, root)
	})
}

func (e *Engine) apply(op string, at fmt.Stringer, fn func(*node.Container) (Result, error)) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return Result{}, ErrReadOnly
	}

	res, err := fn(e.root)
	if err != nil {
		if errs.IsRejected(err) {
			e.log.Warn("edit rejected", zap.String("op", op), zap.Stringer("at", at), zap.Error(err))
		} else {
			e.log.Error("edit failed", zap.String("op", op), zap.Stringer("at", at), zap.Error(err))
		}
		if e.root.IsDirty() {
			e.reconcile()
		}
		return Result{}, err
	}

	e.revision++
	if e.checkInvariants {
		if err := node.CheckInvariants(e.root); err != nil {
			e.log.Error("invariant check failed", zap.String("op", op), zap.Stringer("at", at), zap.Error(err))
			return Result{}, fmt.Errorf("%s at %s: %w: %w", op, at, ErrCorrupted, err)
		}
	}
	rep := e.reconcile()

	e.log.Debug("edit",
		zap.String("op", op),
		zap.Stringer("at", at),
		zap.Stringer("location", res.Location),
		zap.Bool("moved", res.Moved),
		zap.Uint64("revision", e.revision),
		zap.Int("inserted", rep.Stats.Inserted),
		zap.Int("deleted", rep.Stats.Deleted),
	)
	return res, nil
}

// ============================================================================
// Layout
// ============================================================================

// TakeTrace returns the layout instructions recorded since the previous
// call. It is empty unless the engine was created WithTrace.
func (e *Engine) TakeTrace() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.traced
	e.traced = nil
	return out
}

// reconcile runs a layout pass. The caller holds the write lock.
func (e *Engine) reconcile() Report {
	fromScratch := !e.laidOut
	if fromScratch {
		e.stream = layout.NewStream()
	}
	e.stream.ResetStats()

	var ctx node.LayoutContext = e.stream
	var rec *layout.Recorder
	if e.trace {
		rec = layout.NewRecorder()
		ctx = layout.Tee(rec, e.stream)
	}

	e.stream.Begin()
	e.root.PerformLayout(ctx, fromScratch)
	e.stream.End()
	e.laidOut = true

	r := Report{
		Revision:    e.revision,
		FromScratch: fromScratch,
		Stats:       e.stream.Stats(),
	}
	if rec != nil {
		r.Instructions = rec.Len()
		e.traced = append(e.traced, rec.Lines()...)
	}
	e.last = r

	e.log.Debug("layout",
		zap.Uint64("revision", r.Revision),
		zap.Bool("fromScratch", fromScratch),
		zap.Int("instructions", r.Instructions),
		zap.Int("units", e.stream.Len()),
	)
	return r
}
