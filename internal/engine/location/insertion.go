package location

import (
	"slices"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// InsertionPoint is a caret position threaded through a mutation. Edits
// rectify it by replacing the tail of its path below the level they
// restructured; the prefix above that level stays accurate.
type InsertionPoint struct {
	path      []node.Index
	rectified bool
}

// NewInsertionPoint starts from loc.
func NewInsertionPoint(loc Location) *InsertionPoint {
	return &InsertionPoint{path: loc.Path()}
}

// Path returns a copy of the current path; the last index is the offset.
func (p *InsertionPoint) Path() []node.Index {
	return slices.Clone(p.path)
}

// Len returns the length of the path.
func (p *InsertionPoint) Len() int {
	return len(p.path)
}

// At returns path index i.
func (p *InsertionPoint) At(i int) node.Index {
	return p.path[i]
}

// IsRectified reports whether any rectification happened.
func (p *InsertionPoint) IsRectified() bool {
	return p.rectified
}

// Rectify truncates the path to its first i entries and appends index.
func (p *InsertionPoint) Rectify(i, index int) {
	p.path = append(p.path[:i:i], node.ChildIndex(index))
	p.rectified = true
}

// RectifyOffset truncates the path to its first i entries and appends index
// and offset.
func (p *InsertionPoint) RectifyOffset(i, index, offset int) {
	p.path = append(p.path[:i:i], node.ChildIndex(index), node.ChildIndex(offset))
	p.rectified = true
}

// Location converts the path back to a location.
func (p *InsertionPoint) Location() Location {
	n := len(p.path)
	offset, ok := p.path[n-1].Child()
	if !ok {
		panic("location: insertion point ends with a component index")
	}
	return Location{Indices: slices.Clone(p.path[:n-1]), Offset: offset}
}
