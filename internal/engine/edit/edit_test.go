package edit

import (
	"testing"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// Shorthands for building trees in tests.
var (
	text  = node.NewText
	para  = node.NewParagraph
	emph  = node.NewEmphasis
	lb    = node.NewLinebreak
	root_ = node.NewRoot
)

func frac(num, den string) *node.Math {
	var n, d []node.Node
	if num != "" {
		n = []node.Node{text(num)}
	}
	if den != "" {
		d = []node.Node{text(den)}
	}
	return node.NewFraction(n, d, false)
}

func mustRange(t *testing.T, start, end string) location.Range {
	t.Helper()
	r, err := location.NewRange(location.MustParse(start), location.MustParse(end))
	if err != nil {
		t.Fatalf("NewRange(%s, %s): %v", start, end, err)
	}
	return r
}

func checkTree(t *testing.T, root *node.Container, want string) {
	t.Helper()
	if got := node.Synopsis(root); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
	if err := node.CheckInvariants(root); err != nil {
		t.Errorf("invariants: %v", err)
	}
}
