package layout

import (
	"fmt"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// Recorder logs layout instructions, one line each. Instructions for math
// components are prefixed with the component name.
type Recorder struct {
	prefix string
	lines  *[]string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{lines: new([]string)}
}

// Lines returns the recorded instructions.
func (r *Recorder) Lines() []string {
	return append([]string(nil), *r.lines...)
}

// Len returns the number of recorded instructions.
func (r *Recorder) Len() int { return len(*r.lines) }

// Reset discards the recorded instructions.
func (r *Recorder) Reset() { *r.lines = (*r.lines)[:0] }

func (r *Recorder) add(format string, args ...any) {
	*r.lines = append(*r.lines, r.prefix+fmt.Sprintf(format, args...))
}

func (r *Recorder) SkipBackwards(n int)           { r.add("skip %d", n) }
func (r *Recorder) DeleteBackwards(n int)         { r.add("delete %d", n) }
func (r *Recorder) InvalidateBackwards(n int)     { r.add("invalidate %d", n) }
func (r *Recorder) InsertNewline(*node.Container) { r.add("newline") }
func (r *Recorder) InsertText(t *node.Text)       { r.add("text %q", t.String()) }
func (r *Recorder) InsertUnit(n node.Node)        { r.add("unit %s", n.Kind()) }
func (r *Recorder) InsertMath(m *node.Math)       { r.add("math %s", m.Kind()) }

// ComponentContext logs entry into a component and returns a recorder that
// prefixes its lines with the component name.
func (r *Recorder) ComponentContext(_ *node.Math, idx node.MathIndex, fromScratch bool) node.LayoutContext {
	if fromScratch {
		r.add("enter %s", idx)
	} else {
		r.add("update %s", idx)
	}
	return &Recorder{prefix: r.prefix + idx.String() + ": ", lines: r.lines}
}
