package edit

import (
	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// InsertParagraphBreak splits the paragraph enclosing loc. At the root it
// inserts an empty paragraph at the slot instead. The result is the start
// of the paragraph that follows the break. A location that is not inside a
// paragraph through transparent nodes only is rejected with
// ErrOperationRejected.
func InsertParagraphBreak(loc location.Location, root *node.Container) (Result, error) {
	trace, stop, err := location.TraceUntil(loc, root, node.IsPivotal)
	if err != nil {
		return Result{}, err
	}
	if stop != nil {
		// math components never hold paragraphs
		if _, err := location.TraceFrom(loc, root); err != nil {
			return Result{}, err
		}
		return Result{}, errs.New("break", loc, errs.ErrOperationRejected)
	}

	if last := trace.Last(); last.Node == node.Node(root) {
		index, _ := last.Index.Child()
		return Result{Location: breakAtRoot(index, root), Moved: true}, nil
	}

	paragraphIndex, ok := paragraphIndex(trace)
	if !ok {
		return Result{}, errs.New("break", loc, errs.ErrOperationRejected)
	}

	ip := location.NewInsertionPoint(loc)
	if err := insertBreak(partialOf(loc), root, paragraphIndex, ip); err != nil {
		return Result{}, err
	}
	return Result{Location: ip.Location(), Moved: true}, nil
}

// breakAtRoot inserts an empty paragraph at index of the root.
func breakAtRoot(index int, root *node.Container) location.Location {
	switch {
	case root.ChildCount() == 0:
		root.InsertChild(node.NewParagraph(), 0, true)
		return location.New([]int{0}, 0)
	case index == root.ChildCount():
		var next node.Node = node.NewParagraph()
		if c, ok := root.ChildAt(index - 1).(*node.Container); ok {
			if s, ok := c.CreateSuccessor(); ok {
				next = s
			}
		}
		root.InsertChild(next, index, true)
		return location.New([]int{index}, 0)
	default:
		var prev node.Node = node.NewParagraph()
		if c, ok := root.ChildAt(index).(*node.Container); ok {
			prev = c.CloneEmpty()
		}
		root.InsertChild(prev, index, true)
		return location.New([]int{index + 1}, 0)
	}
}

// paragraphIndex returns the trace position of the innermost paragraph-like
// node, provided every node below it is transparent.
func paragraphIndex(trace location.Trace) (int, bool) {
	i := len(trace) - 1
	for ; i > 0; i-- {
		n := trace[i].Node
		if node.IsParagraphLike(n) {
			break
		}
		if !node.IsTransparent(n) {
			return 0, false
		}
	}
	return i, i > 0
}

func insertBreak(loc partial, subtree node.Node, paragraphIndex int, ip *location.InsertionPoint) error {
	if loc.depth < paragraphIndex-1 {
		if len(loc.indices) == 0 {
			return errs.New("break", ip.Location(), errs.ErrInvalidLocation)
		}
		child, ok := subtree.Child(loc.first())
		if !ok {
			return errs.New("break", ip.Location(), errs.ErrInvalidLocation)
		}
		return insertBreak(loc.rest(), child, paragraphIndex, ip)
	}

	container, ok := subtree.(*node.Container)
	if !ok {
		return errs.New("break", ip.Location(), errs.ErrExpectedContainer)
	}
	index, child, ok := childOf(container, loc)
	if !ok {
		return errs.New("break", ip.Location(), errs.ErrInvalidLocation)
	}
	paragraph, ok := child.(*node.Container)
	if !ok {
		return errs.New("break", ip.Location(), errs.ErrExpectedContainer)
	}

	tail, err := takeTail(loc.rest(), paragraph)
	if err != nil {
		return errs.New("break", ip.Location(), err)
	}
	switch tail.kind {
	case tailEmpty:
		next, ok := paragraph.CreateSuccessor()
		if !ok {
			panic("edit: paragraph-like node without successor")
		}
		container.InsertChild(next, index+1, true)
	case tailFull:
		container.InsertChild(paragraph.CloneEmpty(), index, true)
	case tailPartial:
		container.InsertChild(tail.node, index+1, true)
	}
	ip.RectifyOffset(paragraphIndex-1, index+1, 0)
	return nil
}

type tailKind uint8

const (
	tailEmpty   tailKind = iota // split point at the end
	tailFull                    // split point at the start
	tailPartial                 // node holds the detached tail
)

type tailSegment struct {
	kind tailKind
	node node.Node
}

// takeTail detaches the part of c after loc. A split point at either edge
// detaches nothing and reports which edge.
func takeTail(loc partial, c *node.Container) (tailSegment, error) {
	if loc.count() == 1 {
		return takeTailAt(loc.offset, c)
	}

	index, child, ok := childOf(c, loc)
	if !ok {
		return tailSegment{}, errs.ErrInvalidLocation
	}

	var seg tailSegment
	switch child := child.(type) {
	case *node.Container:
		var err error
		if seg, err = takeTail(loc.rest(), child); err != nil {
			return tailSegment{}, err
		}
	case *node.Text:
		if loc.count() != 2 {
			return tailSegment{}, errs.ErrInvalidLocation
		}
		seg = splitText(loc.offset, child, c, index)
	default:
		return tailSegment{}, errs.ErrExpectedContainer
	}

	switch seg.kind {
	case tailEmpty:
		return takeTailAt(index+1, c)
	case tailFull:
		return takeTailAt(index, c)
	default:
		siblings := c.TakeSubrange(index+1, c.ChildCount(), true)
		clone := c.CloneEmpty()
		clone.InsertChildren(append([]node.Node{seg.node}, siblings...), 0, false)
		return tailSegment{kind: tailPartial, node: clone}, nil
	}
}

func takeTailAt(index int, c *node.Container) (tailSegment, error) {
	switch {
	case index < 0 || index > c.ChildCount():
		return tailSegment{}, errs.ErrInvalidLocation
	case index == c.ChildCount():
		return tailSegment{kind: tailEmpty}, nil
	case index == 0:
		return tailSegment{kind: tailFull}, nil
	default:
		segment := c.TakeSubrange(index, c.ChildCount(), true)
		clone := c.CloneEmpty()
		clone.InsertChildren(segment, 0, false)
		return tailSegment{kind: tailPartial, node: clone}, nil
	}
}

func splitText(offset int, t *node.Text, parent *node.Container, index int) tailSegment {
	switch offset {
	case t.Len():
		return tailSegment{kind: tailEmpty}
	case 0:
		return tailSegment{kind: tailFull}
	default:
		front, back := t.Split(offset)
		parent.ReplaceChild(front, index, true)
		return tailSegment{kind: tailPartial, node: back}
	}
}
