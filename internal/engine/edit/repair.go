package edit

import (
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// RepairOutcome classifies the result of RepairRange.
type RepairOutcome int

const (
	// Unchanged means the range was already valid for selection.
	Unchanged RepairOutcome = iota
	// Repaired means the returned range differs from the input.
	Repaired
	// Failed means the range cannot be made valid.
	Failed
)

func (o RepairOutcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Repaired:
		return "repaired"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// nodesAlong returns the nodes visited by following indices from root,
// root included.
func nodesAlong(indices []node.Index, root node.Node) ([]node.Node, bool) {
	out := make([]node.Node, 0, len(indices)+1)
	out = append(out, root)
	n := root
	for _, x := range indices {
		child, ok := n.Child(x)
		if !ok {
			return nil, false
		}
		out = append(out, child)
		n = child
	}
	return out, true
}

// branchIndex returns the first position where a and b differ.
func branchIndex(a, b []node.Index) (int, bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i, true
		}
	}
	return 0, false
}

// ValidateRange reports whether r is valid for selection in the tree at
// root: both endpoints resolve, and below the node where their paths fork
// neither path passes through an opaque node.
func ValidateRange(r location.Range, root node.Node) bool {
	tail := func(nodes []node.Node, offset int) bool {
		for _, n := range nodes {
			if node.IsOpaque(n) {
				return false
			}
		}
		return location.ValidateOffset(offset, nodes[len(nodes)-1])
	}

	lhs, rhs := r.Start.Indices, r.End.Indices
	ln, lok := nodesAlong(lhs, root)
	rn, rok := nodesAlong(rhs, root)
	if !lok || !rok {
		return false
	}
	minCount := min(len(lhs), len(rhs))

	if b, ok := branchIndex(lhs, rhs); ok {
		return tail(ln[b+1:], r.Start.Offset) && tail(rn[b+1:], r.End.Offset)
	}
	switch {
	case len(lhs) < len(rhs):
		return location.ValidateOffset(r.Start.Offset, ln[len(ln)-1]) && tail(rn[minCount+1:], r.End.Offset)
	case len(lhs) > len(rhs):
		return tail(ln[minCount+1:], r.Start.Offset) && location.ValidateOffset(r.End.Offset, rn[len(rn)-1])
	default:
		last := ln[len(ln)-1]
		return location.ValidateOffset(r.Start.Offset, last) && location.ValidateOffset(r.End.Offset, last)
	}
}

// RepairRange makes r valid for selection by moving each endpoint that
// enters an opaque node below the fork up to that node's slot in its
// parent; the end side moves past the node. The result is r itself when it
// is already valid.
func RepairRange(r location.Range, root node.Node) (location.Range, RepairOutcome) {
	lhs, rhs := r.Start.Indices, r.End.Indices
	ln, lok := nodesAlong(lhs, root)
	rn, rok := nodesAlong(rhs, root)
	if !lok || !rok {
		return location.Range{}, Failed
	}
	minCount := min(len(lhs), len(rhs))

	var start, end location.Location
	var startMoved, endMoved, ok bool

	if b, forked := branchIndex(lhs, rhs); forked {
		if start, startMoved, ok = repairTail(ln, b+1, r.Start, false); !ok {
			return location.Range{}, Failed
		}
		if end, endMoved, ok = repairTail(rn, b+1, r.End, true); !ok {
			return location.Range{}, Failed
		}
	} else {
		switch {
		case len(lhs) < len(rhs):
			if !location.ValidateOffset(r.Start.Offset, ln[len(ln)-1]) {
				return location.Range{}, Failed
			}
			start = r.Start
			if end, endMoved, ok = repairTail(rn, minCount+1, r.End, true); !ok {
				return location.Range{}, Failed
			}
		case len(lhs) > len(rhs):
			if !location.ValidateOffset(r.End.Offset, rn[len(rn)-1]) {
				return location.Range{}, Failed
			}
			end = r.End
			if start, startMoved, ok = repairTail(ln, minCount+1, r.Start, false); !ok {
				return location.Range{}, Failed
			}
		default:
			last := ln[len(ln)-1]
			if !location.ValidateOffset(r.Start.Offset, last) || !location.ValidateOffset(r.End.Offset, last) {
				return location.Range{}, Failed
			}
			return r, Unchanged
		}
	}

	if !startMoved && !endMoved {
		return r, Unchanged
	}
	repaired, err := location.NewRange(start, end)
	if err != nil {
		return location.Range{}, Failed
	}
	return repaired, Repaired
}

// repairTail truncates loc at the first opaque node among nodes[from:].
func repairTail(nodes []node.Node, from int, loc location.Location, isEnd bool) (location.Location, bool, bool) {
	for k := from; k < len(nodes); k++ {
		if !node.IsOpaque(nodes[k]) {
			continue
		}
		if k == 0 {
			return location.Location{}, false, false
		}
		offset, ok := loc.Indices[k-1].Child()
		if !ok {
			return location.Location{}, false, false
		}
		if isEnd {
			offset++
		}
		indices := make([]node.Index, k-1)
		copy(indices, loc.Indices[:k-1])
		return location.Location{Indices: indices, Offset: offset}, true, true
	}
	if !location.ValidateOffset(loc.Offset, nodes[len(nodes)-1]) {
		return location.Location{}, false, false
	}
	return loc, false, true
}
