package edit

import (
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// partial is the suffix of a location below some node. depth is the number
// of indices consumed to reach that node.
type partial struct {
	indices []node.Index
	offset  int
	depth   int
}

func partialOf(l location.Location) partial {
	return partial{indices: l.Indices, offset: l.Offset}
}

// count returns the number of path entries including the offset.
func (p partial) count() int { return len(p.indices) + 1 }

func (p partial) first() node.Index { return p.indices[0] }

func (p partial) rest() partial {
	return partial{indices: p.indices[1:], offset: p.offset, depth: p.depth + 1}
}

// childOf resolves the first index of p against c.
func childOf(c *node.Container, p partial) (int, node.Node, bool) {
	if len(p.indices) == 0 {
		return 0, nil, false
	}
	i, ok := p.first().Child()
	if !ok || i < 0 || i >= c.ChildCount() {
		return 0, nil, false
	}
	return i, c.ChildAt(i), true
}
