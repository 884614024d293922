package location

import (
	"fmt"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// Element pairs a node with the index followed out of it.
type Element struct {
	Node  node.Node
	Index node.Index
}

// Trace is the sequence of elements from the root to a location. The last
// element carries the location's offset as a child index.
type Trace []Element

// Last returns the final element.
func (t Trace) Last() Element {
	return t[len(t)-1]
}

// Child returns the node reached by following element i.
func (e Element) Child() (node.Node, bool) {
	return e.Node.Child(e.Index)
}

// TraceFrom follows loc from root.
func TraceFrom(loc Location, root node.Node) (Trace, error) {
	t, _, err := TraceUntil(loc, root, func(node.Node) bool { return false })
	return t, err
}

// TraceUntil follows loc from subtree, stopping at the first node that
// satisfies pred without descending into it. When stopped, the last element
// leads to the returned node; otherwise the returned node is nil and the
// trace ends with the offset.
func TraceUntil(loc Location, subtree node.Node, pred func(node.Node) bool) (Trace, node.Node, error) {
	trace := make(Trace, 0, len(loc.Indices)+1)
	n := subtree
	for _, x := range loc.Indices {
		child, ok := n.Child(x)
		if !ok {
			return nil, nil, errs.New("trace", loc, noChild(n, x))
		}
		trace = append(trace, Element{n, x})
		if pred(child) {
			return trace, child, nil
		}
		n = child
	}
	if !ValidateOffset(loc.Offset, n) {
		return nil, nil, errs.New("trace", loc,
			fmt.Errorf("%w: offset %d out of range for %s", errs.ErrInvalidLocation, loc.Offset, n.Kind()))
	}
	trace = append(trace, Element{n, node.ChildIndex(loc.Offset)})
	return trace, nil, nil
}

func noChild(n node.Node, x node.Index) error {
	if _, ok := n.(*node.Math); ok {
		return fmt.Errorf("%w: no component %s in %s", errs.ErrInvalidLocation, x, n.Kind())
	}
	return fmt.Errorf("%w: no child %s in %s", errs.ErrInvalidLocation, x, n.Kind())
}

// ValidateOffset reports whether offset is a valid position inside n.
func ValidateOffset(offset int, n node.Node) bool {
	switch n := n.(type) {
	case *node.Text:
		return offset >= 0 && offset <= n.Len()
	case *node.Container:
		return offset >= 0 && offset <= n.ChildCount()
	case *node.Math, *node.Linebreak, *node.Unknown:
		return false
	default:
		panic(fmt.Sprintf("location: unhandled node type %T", n))
	}
}

// BuildNormalizedLocation converts a trace produced by TraceFrom back to a
// location, moving the position into an adjacent text run where one exists.
// At the root, a slot before a container child moves to the start of that
// child and the slot after a trailing container to its end. Slots next to
// other root children stay at the root unless a text run is adjacent.
func BuildNormalizedLocation(t Trace) Location {
	last := t.Last()
	offset, ok := last.Index.Child()
	if !ok {
		panic("location: trace does not end with an offset")
	}
	path := make([]node.Index, 0, len(t)+1)
	for _, e := range t[:len(t)-1] {
		path = append(path, e.Index)
	}

	if root, ok := last.Node.(*node.Container); ok && root.Kind() == node.KindRoot && root.ChildCount() > 0 {
		i, end := offset, false
		if i == root.ChildCount() {
			i, end = i-1, true
		}
		if c, ok := root.ChildAt(i).(*node.Container); ok {
			inner := 0
			if end {
				inner = c.ChildCount()
			}
			return fixLast(append(path, node.ChildIndex(i)), c, inner)
		}
	}
	return fixLast(path, last.Node, offset)
}

func fixLast(path []node.Index, n node.Node, offset int) Location {
	if c, ok := n.(*node.Container); ok {
		if offset < c.ChildCount() {
			if _, ok := c.ChildAt(offset).(*node.Text); ok {
				return Location{Indices: append(path, node.ChildIndex(offset)), Offset: 0}
			}
		}
		if offset > 0 {
			if t, ok := c.ChildAt(offset - 1).(*node.Text); ok {
				return Location{Indices: append(path, node.ChildIndex(offset-1)), Offset: t.Len()}
			}
		}
	}
	return Location{Indices: path, Offset: offset}
}
