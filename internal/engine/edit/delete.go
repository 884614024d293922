package edit

import (
	"fmt"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// DeleteRange removes the content of r from the tree rooted at root. The
// range must be valid for selection (see ValidateRange).
func DeleteRange(r location.Range, root *node.Container) (Result, error) {
	if _, err := location.TraceFrom(r.Start, root); err != nil {
		return Result{}, err
	}
	if _, err := location.TraceFrom(r.End, root); err != nil {
		return Result{}, err
	}
	if location.Compare(r.Start, r.End) > 0 || !ValidateRange(r, root) {
		return Result{}, errs.New("delete", r, errs.ErrInvalidRange)
	}

	d := &deleter{ip: location.NewInsertionPoint(r.Start), r: r}
	remove, err := d.removeSubrange(partialOf(r.Start), partialOf(r.End), root, nil, 0)
	if err != nil {
		return Result{}, err
	}
	if remove {
		panic("edit: root reported for removal")
	}

	if !d.ip.IsRectified() {
		return Result{Location: r.Start}, nil
	}
	return Result{Location: d.ip.Location(), Moved: true}, nil
}

type deleter struct {
	ip *location.InsertionPoint
	r  location.Range
}

func (d *deleter) fail(err error, format string, args ...any) error {
	return errs.New("delete", d.r, fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}

// removeSubrange removes [start, end) below subtree, which is child index of
// parent (parent is nil at the root and below math nodes). It reports
// whether subtree itself should be removed by the caller.
func (d *deleter) removeSubrange(start, end partial, subtree node.Node, parent *node.Container, index int) (bool, error) {
	switch n := subtree.(type) {
	case *node.Text:
		if parent == nil {
			return false, d.fail(errs.ErrInvalidLocation, "text without a parent container")
		}
		return removeText(start.offset, end.offset, n, parent, index), nil

	case *node.Container:
		return d.removeInContainer(start, end, n)

	case *node.Math, *node.Linebreak, *node.Unknown:
		return d.removeInOpaque(start, end, n)

	default:
		panic(fmt.Sprintf("edit: unhandled node type %T", n))
	}
}

func (d *deleter) removeInContainer(start, end partial, c *node.Container) (bool, error) {
	switch {
	case start.count() == 1 && end.count() == 1:
		return d.removeExt(start.offset, end.offset, c, start.depth), nil

	case start.count() == 1:
		index := start.offset
		endIndex, endChild, ok := childOf(c, end)
		if !ok {
			return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", end.first(), c)
		}
		removeEnd, err := d.removeEnd(end.rest(), endChild, c, endIndex)
		if err != nil {
			return false, err
		}
		if removeEnd {
			return d.removeExt(index, endIndex+1, c, start.depth), nil
		}
		if i, off, ok := removeChildren(index, endIndex, c); ok {
			d.ip.RectifyOffset(start.depth, i, off)
		}
		return false, nil

	case end.count() == 1:
		index, child, ok := childOf(c, start)
		if !ok {
			return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", start.first(), c)
		}
		endIndex := end.offset
		removeStart, err := d.removeStart(start.rest(), child, c, index)
		if err != nil {
			return false, err
		}
		if removeStart {
			d.ip.Rectify(start.depth, index)
			return d.removeExt(index, endIndex, c, start.depth), nil
		}
		removeChildren(index+1, endIndex, c)
		return false, nil
	}

	index, child, ok := childOf(c, start)
	if !ok {
		return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", start.first(), c)
	}
	endIndex, endChild, ok := childOf(c, end)
	if !ok {
		return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", end.first(), c)
	}

	if index == endIndex {
		remove, err := d.removeSubrange(start.rest(), end.rest(), child, c, index)
		if err != nil || !remove {
			return false, err
		}
		d.ip.Rectify(start.depth, index)
		return d.removeExt(index, index+1, c, start.depth), nil
	}
	if index > endIndex {
		return false, d.fail(errs.ErrInvalidRange, "start child %d after end child %d", index, endIndex)
	}

	// snapshot c before the removals below replace its children
	c.MakeSnapshotOnce()

	removeStart, err := d.removeStart(start.rest(), child, c, index)
	if err != nil {
		return false, err
	}
	removeEnd, err := d.removeEnd(end.rest(), endChild, c, endIndex)
	if err != nil {
		return false, err
	}

	switch {
	case !removeStart && !removeEnd:
		lhs, lok := child.(*node.Container)
		rhs, rok := endChild.(*node.Container)
		if !lok || !rok || !node.IsMergeable(lhs, rhs) {
			removeChildren(index+1, endIndex, c)
			return false, nil
		}
		// the point can only be corrected if it sits at the end of lhs
		at := start.depth + 1
		atEnd := at == d.ip.Len()-1 && isChildIndex(d.ip.At(at), lhs.ChildCount())

		moved := rhs.TakeChildren(true)
		for _, m := range moved {
			node.Reidentify(m)
		}
		if i, off, ok := appendChildren(moved, lhs); ok && atEnd {
			d.ip.RectifyOffset(at, i, off)
		}
		c.RemoveSubrange(index+1, endIndex+1, true)
		return false, nil

	case !removeStart && removeEnd:
		removeChildren(index+1, endIndex+1, c)
		return false, nil

	case removeStart && !removeEnd:
		if i, off, ok := removeChildren(index, endIndex, c); ok {
			d.ip.RectifyOffset(start.depth, i, off)
		} else {
			d.ip.Rectify(start.depth, index)
		}
		return false, nil

	default:
		d.ip.Rectify(start.depth, index)
		return d.removeExt(index, endIndex+1, c, start.depth), nil
	}
}

// removeInOpaque walks through math nodes to the component container both
// endpoints share and deletes there. A component is emptied rather than
// removed.
func (d *deleter) removeInOpaque(start, end partial, subtree node.Node) (bool, error) {
	n := subtree
	for {
		if start.count() <= 1 || end.count() <= 1 {
			return false, d.fail(errs.ErrInvalidLocation, "range ends inside %s", n.Kind())
		}
		if start.first() != end.first() {
			return false, d.fail(errs.ErrInvalidLocation, "range forks inside %s", n.Kind())
		}
		child, ok := n.Child(start.first())
		if !ok {
			return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", start.first(), n.Kind())
		}
		n, start, end = child, start.rest(), end.rest()
		if isContainerOrText(n) {
			break
		}
	}

	remove, err := d.removeSubrange(start, end, n, nil, 0)
	if err != nil || !remove {
		return false, err
	}
	c, ok := n.(*node.Container)
	if !ok {
		return false, d.fail(errs.ErrExpectedContainer, "got %s", n.Kind())
	}
	c.RemoveSubrange(0, c.ChildCount(), true)
	d.ip.Rectify(start.depth, 0)
	return false, nil
}

// removeStart removes everything from start to the end of subtree, which is
// child index of parent.
func (d *deleter) removeStart(start partial, subtree node.Node, parent *node.Container, index int) (bool, error) {
	switch n := subtree.(type) {
	case *node.Text:
		return removeText(start.offset, n.Len(), n, parent, index), nil

	case *node.Container:
		if start.count() == 1 {
			return removeExtForStart(start.offset, n.ChildCount(), n), nil
		}
		i, child, ok := childOf(n, start)
		if !ok {
			return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", start.first(), n)
		}
		remove, err := d.removeStart(start.rest(), child, n, i)
		if err != nil {
			return false, err
		}
		if remove {
			d.ip.Rectify(start.depth, i)
			return removeExtForStart(i, n.ChildCount(), n), nil
		}
		removeChildren(i+1, n.ChildCount(), n)
		return false, nil

	default:
		return false, d.fail(errs.ErrExpectedContainer, "range starts inside %s", n.Kind())
	}
}

// removeEnd removes everything from the start of subtree to end.
func (d *deleter) removeEnd(end partial, subtree node.Node, parent *node.Container, index int) (bool, error) {
	switch n := subtree.(type) {
	case *node.Text:
		return removeText(0, end.offset, n, parent, index), nil

	case *node.Container:
		if end.count() == 1 {
			return removeExtPlain(0, end.offset, n), nil
		}
		i, child, ok := childOf(n, end)
		if !ok {
			return false, d.fail(errs.ErrInvalidLocation, "no child %s in %s", end.first(), n)
		}
		remove, err := d.removeEnd(end.rest(), child, n, i)
		if err != nil {
			return false, err
		}
		if remove {
			return removeExtPlain(0, i+1, n), nil
		}
		removeChildren(0, i, n)
		return false, nil

	default:
		return false, d.fail(errs.ErrExpectedContainer, "range ends inside %s", n.Kind())
	}
}

// removeExt removes [from, to) from c and rectifies the point at depth, or
// reports that c should be removed instead.
func (d *deleter) removeExt(from, to int, c *node.Container, depth int) bool {
	if !node.IsVoidable(c) && from == 0 && to == c.ChildCount() {
		return true
	}
	if i, off, ok := removeChildren(from, to, c); ok {
		d.ip.RectifyOffset(depth, i, off)
	}
	return false
}

func removeExtPlain(from, to int, c *node.Container) bool {
	if !node.IsVoidable(c) && from == 0 && to == c.ChildCount() {
		return true
	}
	removeChildren(from, to, c)
	return false
}

// removeExtForStart is removeExtPlain for the start side of a range, where
// an emptied paragraph is removed too.
func removeExtForStart(from, to int, c *node.Container) bool {
	if from == 0 && to == c.ChildCount() && (!node.IsVoidable(c) || node.IsParagraphLike(c)) {
		return true
	}
	removeChildren(from, to, c)
	return false
}

// removeChildren removes children [from, to) of c and compacts the text
// runs on either side of the gap. If they join, it returns where a point at
// (c, from) moves to: child i at offset off.
func removeChildren(from, to int, c *node.Container) (i, off int, ok bool) {
	if from >= to {
		return 0, 0, false
	}
	c.RemoveSubrange(from, to, true)
	return compactSeam(from, c)
}

// appendChildren appends nodes to c and compacts the seam. If a trailing
// text run of c joins a leading text run of nodes, it returns where a point
// at (c, ChildCount) moves to.
func appendChildren(nodes []node.Node, c *node.Container) (i, off int, ok bool) {
	if len(nodes) == 0 {
		return 0, 0, false
	}
	n := c.ChildCount()
	c.InsertChildren(nodes, n, true)
	return compactSeam(n, c)
}

// compactSeam merges the text runs at children at-1 and at, reporting the
// merged child and the length of its left part.
func compactSeam(at int, c *node.Container) (i, off int, ok bool) {
	if at <= 0 || at >= c.ChildCount() {
		return 0, 0, false
	}
	lhs, ok := c.ChildAt(at - 1).(*node.Text)
	if !ok {
		return 0, 0, false
	}
	off = lhs.Len()
	if !c.CompactSubrange(at-1, at+1, true) {
		return 0, 0, false
	}
	return at - 1, off, true
}

// removeText removes [from, to) of t, child index of parent. It reports
// whether the whole run should be removed instead.
func removeText(from, to int, t *node.Text, parent *node.Container, index int) bool {
	if from == 0 && to == t.Len() {
		return true
	}
	if from < to {
		parent.ReplaceChild(t.Removed(from, to), index, true)
	}
	return false
}

func isContainerOrText(n node.Node) bool {
	switch n.(type) {
	case *node.Container, *node.Text:
		return true
	default:
		return false
	}
}

func isChildIndex(x node.Index, want int) bool {
	i, ok := x.Child()
	return ok && i == want
}
