package edit

import (
	"slices"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// InsertString inserts s at loc. When loc points into a text run the run is
// spliced and loc remains the insertion point. Otherwise the string extends
// an adjacent text run or becomes a new one, and the result is the location
// inside that run where s begins.
func InsertString(s string, loc location.Location, root *node.Container) (Result, error) {
	if s == "" {
		return Result{Location: loc}, nil
	}
	correction, err := insertString(s, loc, root)
	if err != nil {
		return Result{}, errs.New("insert", loc, err)
	}
	if correction == nil {
		return Result{Location: loc}, nil
	}
	indices := append(slices.Clone(loc.Indices), childIndices(correction[:len(correction)-1])...)
	return Result{
		Location: location.Location{Indices: indices, Offset: correction[len(correction)-1]},
		Moved:    true,
	}, nil
}

// insertString inserts s at loc relative to subtree and returns the path
// below the traced node where s begins, or nil when loc stays valid. Math
// nodes are entered through their components, each acting as a subtree of
// its own.
func insertString(s string, loc location.Location, subtree *node.Container) ([]int, error) {
	trace, stop, err := location.TraceUntil(loc, subtree, node.IsPivotal)
	if err != nil {
		return nil, err
	}
	if stop != nil {
		rest := location.Location{Indices: loc.Indices[len(trace):], Offset: loc.Offset}
		if len(rest.Indices) == 0 {
			return nil, errs.ErrInvalidLocation
		}
		child, ok := stop.Child(rest.Indices[0])
		if !ok {
			return nil, errs.ErrInvalidLocation
		}
		component, ok := child.(*node.Container)
		if !ok {
			return nil, errs.ErrExpectedContainer
		}
		rest.Indices = rest.Indices[1:]
		return insertString(s, rest, component)
	}

	switch n := trace.Last().Node.(type) {
	case *node.Text:
		if len(trace) < 2 {
			return nil, errs.ErrInvalidLocation
		}
		prev := trace[len(trace)-2]
		parent, ok := prev.Node.(*node.Container)
		if !ok {
			return nil, errs.ErrExpectedContainer
		}
		index, _ := prev.Index.Child()
		parent.ReplaceChild(n.Inserted(loc.Offset, s), index, true)
		return nil, nil

	case *node.Container:
		if n.Kind() == node.KindRoot {
			return insertIntoRoot(s, n, loc.Offset)
		}
		i, off := insertIntoContainer(s, n, loc.Offset)
		return []int{i, off}, nil

	default:
		return nil, errs.ErrExpectedContainer
	}
}

func childIndices(v []int) []node.Index {
	out := make([]node.Index, len(v))
	for i, x := range v {
		out[i] = node.ChildIndex(x)
	}
	return out
}

// insertIntoRoot inserts s at child slot index of the root. Text goes into
// the paragraph at or before the slot. It returns the path below the root
// where s begins.
func insertIntoRoot(s string, root *node.Container, index int) ([]int, error) {
	count := root.ChildCount()
	switch {
	case count == 0:
		root.InsertChild(node.NewParagraph(node.NewText(s)), 0, true)
		return []int{0, 0, 0}, nil

	case index == count:
		last, ok := root.ChildAt(count - 1).(*node.Container)
		if !ok {
			return nil, errs.ErrExpectedContainer
		}
		i, off := insertIntoContainer(s, last, last.ChildCount())
		return []int{count - 1, i, off}, nil

	default:
		c, ok := root.ChildAt(index).(*node.Container)
		if !ok {
			return nil, errs.ErrExpectedContainer
		}
		if c.ChildCount() > 0 {
			if t, ok := c.ChildAt(0).(*node.Text); ok {
				c.ReplaceChild(t.Inserted(0, s), 0, true)
				return []int{index, 0, 0}, nil
			}
		}
		c.InsertChild(node.NewText(s), 0, true)
		return []int{index, 0, 0}, nil
	}
}

// insertIntoContainer inserts s at child slot index of c, preferring to
// extend the text run after the slot, then the one before it. It returns
// the child and offset where s begins.
func insertIntoContainer(s string, c *node.Container, index int) (int, int) {
	if index < c.ChildCount() {
		if t, ok := c.ChildAt(index).(*node.Text); ok {
			c.ReplaceChild(t.Inserted(0, s), index, true)
			return index, 0
		}
	}
	if index > 0 {
		if t, ok := c.ChildAt(index - 1).(*node.Text); ok {
			n := t.Len()
			c.ReplaceChild(t.Inserted(n, s), index-1, true)
			return index - 1, n
		}
	}
	c.InsertChild(node.NewText(s), index, true)
	return index, 0
}
