package node

import (
	"fmt"
	"slices"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/newline"
)

// Container is a node with an ordered sequence of children: the root,
// paragraphs, headings, emphasis, text-mode spans and math components.
type Container struct {
	nodeBase
	kind  Kind
	level int

	children []Node
	newlines *newline.Table

	contentLength int
	layoutLength  int // excluding synthesized newlines
	dirty         bool
	laidOut       int // layout length as of the last layout pass

	snapshot *Snapshot
}

// NewRoot creates a root container.
func NewRoot(children ...Node) *Container { return newContainer(KindRoot, 0, children) }

// NewParagraph creates a paragraph.
func NewParagraph(children ...Node) *Container { return newContainer(KindParagraph, 0, children) }

// NewHeading creates a heading of the given level.
func NewHeading(level int, children ...Node) *Container {
	return newContainer(KindHeading, level, children)
}

// NewEmphasis creates an emphasis span.
func NewEmphasis(children ...Node) *Container { return newContainer(KindEmphasis, 0, children) }

// NewContent creates a generic content container, as used for math components.
func NewContent(children ...Node) *Container { return newContainer(KindContent, 0, children) }

// NewTextMode creates a text-mode span for text inside math.
func NewTextMode(children ...Node) *Container { return newContainer(KindTextMode, 0, children) }

func newContainer(kind Kind, level int, children []Node) *Container {
	c := &Container{
		nodeBase: newBase(),
		kind:     kind,
		level:    level,
		newlines: newline.New(nil),
	}
	c.InsertChildren(children, 0, false)
	return c
}

// Kind returns the container kind.
func (c *Container) Kind() Kind { return c.kind }

// Level returns the heading level, or 0 for other kinds.
func (c *Container) Level() int { return c.level }

// ContentLength returns the sum of the children's content lengths.
func (c *Container) ContentLength() int { return c.contentLength }

// LayoutLength returns the sum of the children's layout lengths plus the
// synthesized newlines.
func (c *Container) LayoutLength() int { return c.layoutLength + c.newlines.TrueCount() }

// IsBlock reports whether the container is a block.
func (c *Container) IsBlock() bool { return IsBlockKind(c.kind) }

// IsDirty reports whether the container changed since the last layout pass.
func (c *Container) IsDirty() bool { return c.dirty }

// ChildCount returns the number of children.
func (c *Container) ChildCount() int { return len(c.children) }

// ChildAt returns the i-th child.
func (c *Container) ChildAt(i int) Node { return c.children[i] }

// Children returns a copy of the child sequence.
func (c *Container) Children() []Node { return slices.Clone(c.children) }

// Child returns the child at a plain index.
func (c *Container) Child(x Index) (Node, bool) {
	i, ok := x.Child()
	if !ok || i < 0 || i >= len(c.children) {
		return nil, false
	}
	return c.children[i], true
}

// NewlineAt reports whether a newline is synthesized after child i.
func (c *Container) NewlineAt(i int) bool { return c.newlines.At(i) }

// NewlineCount returns the number of synthesized newlines.
func (c *Container) NewlineCount() int { return c.newlines.TrueCount() }

// DeepCopy returns a copy of the subtree with fresh ids.
func (c *Container) DeepCopy() Node {
	children := make([]Node, len(c.children))
	for i, child := range c.children {
		children[i] = child.DeepCopy()
	}
	return newContainer(c.kind, c.level, children)
}

// CloneEmpty returns a childless container of the same kind and level.
func (c *Container) CloneEmpty() *Container {
	return newContainer(c.kind, c.level, nil)
}

// CreateSuccessor returns the container that follows c when a paragraph
// break is inserted at its end.
func (c *Container) CreateSuccessor() (*Container, bool) {
	switch c.kind {
	case KindParagraph, KindHeading:
		return NewParagraph(), true
	default:
		return nil, false
	}
}

// Snapshot returns the record of children taken before the first
// storage-affecting mutation since the last layout pass, or nil.
func (c *Container) Snapshot() *Snapshot { return c.snapshot }

// MakeSnapshotOnce records the current children unless a snapshot exists.
func (c *Container) MakeSnapshotOnce() {
	if c.snapshot != nil {
		return
	}
	if len(c.children) != c.newlines.Len() {
		panic("node: newline table out of sync with children")
	}
	records := make([]SnapshotRecord, len(c.children))
	for i, child := range c.children {
		records[i] = SnapshotRecord{
			ID:            child.ID(),
			InsertNewline: c.newlines.At(i),
			LayoutLength:  renderedLength(child),
		}
	}
	c.snapshot = &Snapshot{Records: records}
}

// renderedLength returns the layout length n had when last laid out.
func renderedLength(n Node) int {
	if c, ok := n.(*Container); ok && c.dirty {
		return c.laidOut
	}
	return n.LayoutLength()
}

// InsertChild inserts n at index at.
func (c *Container) InsertChild(n Node, at int, inStorage bool) {
	c.InsertChildren([]Node{n}, at, inStorage)
}

// InsertChildren inserts nodes at index at. Nodes must be unattached and
// distinct.
func (c *Container) InsertChildren(nodes []Node, at int, inStorage bool) {
	if len(nodes) == 0 {
		return
	}
	if at < 0 || at > len(c.children) {
		panic(fmt.Sprintf("node: insert index %d out of range [0,%d]", at, len(c.children)))
	}
	checkDetached(nodes)

	if inStorage {
		c.MakeSnapshotOnce()
	}

	var delta Delta
	blocks := make([]bool, len(nodes))
	for i, n := range nodes {
		delta = delta.Add(lengthOf(n))
		blocks[i] = n.IsBlock()
	}

	c.children = slices.Insert(c.children, at, nodes...)

	newlinesDelta := -c.newlines.TrueCount()
	c.newlines.InsertSlice(blocks, at)
	newlinesDelta += c.newlines.TrueCount()

	for _, n := range nodes {
		n.base().setParent(c)
	}
	c.contentChangedLocally(delta, newlinesDelta, inStorage)
}

// RemoveChild removes the child at index i.
func (c *Container) RemoveChild(i int, inStorage bool) {
	c.RemoveSubrange(i, i+1, inStorage)
}

// RemoveSubrange removes children [from, to).
func (c *Container) RemoveSubrange(from, to int, inStorage bool) {
	c.takeSubrange(from, to, inStorage)
}

// TakeSubrange removes children [from, to) and returns them detached.
func (c *Container) TakeSubrange(from, to int, inStorage bool) []Node {
	return c.takeSubrange(from, to, inStorage)
}

// TakeChildren removes and returns all children.
func (c *Container) TakeChildren(inStorage bool) []Node {
	return c.takeSubrange(0, len(c.children), inStorage)
}

func (c *Container) takeSubrange(from, to int, inStorage bool) []Node {
	if from < 0 || to > len(c.children) || from > to {
		panic(fmt.Sprintf("node: range [%d,%d) out of bounds [0,%d]", from, to, len(c.children)))
	}
	if from == to {
		return nil
	}

	if inStorage {
		c.MakeSnapshotOnce()
	}

	taken := slices.Clone(c.children[from:to])
	var delta Delta
	for _, n := range taken {
		n.base().clearParent()
		delta = delta.Sub(lengthOf(n))
	}

	c.children = slices.Delete(c.children, from, to)

	newlinesDelta := -c.newlines.TrueCount()
	c.newlines.RemoveRange(from, to)
	newlinesDelta += c.newlines.TrueCount()

	c.contentChangedLocally(delta, newlinesDelta, inStorage)
	return taken
}

// ReplaceChild replaces the child at index at with n.
func (c *Container) ReplaceChild(n Node, at int, inStorage bool) {
	if at < 0 || at >= len(c.children) {
		panic(fmt.Sprintf("node: replace index %d out of range", at))
	}
	if c.children[at] == n {
		panic("node: replacing a child with itself")
	}
	checkDetached([]Node{n})

	if inStorage {
		c.MakeSnapshotOnce()
	}

	old := c.children[at]
	delta := lengthOf(n).Sub(lengthOf(old))

	old.base().clearParent()
	c.children[at] = n
	n.base().setParent(c)

	newlinesDelta := -c.newlines.TrueCount()
	c.newlines.Set(n.IsBlock(), at)
	newlinesDelta += c.newlines.TrueCount()

	c.contentChangedLocally(delta, newlinesDelta, inStorage)
}

// CompactSubrange merges every run of two or more adjacent text children in
// [from, to) into a single text child. It reports whether anything merged.
// Merging preserves length except where normalization combines characters
// across the seam; that difference is propagated.
func (c *Container) CompactSubrange(from, to int, inStorage bool) bool {
	if from < 0 || to > len(c.children) || from > to {
		panic(fmt.Sprintf("node: range [%d,%d) out of bounds [0,%d]", from, to, len(c.children)))
	}
	if !hasAdjacentText(c.children[from:to]) {
		return false
	}

	if inStorage {
		c.MakeSnapshotOnce()
	}

	before := sumLengths(c.children[from:to])
	compacted := compactNodes(c.children[from:to])
	for _, n := range c.children[from:to] {
		n.base().clearParent()
	}
	for _, n := range compacted {
		n.base().setParent(c)
	}
	c.children = slices.Replace(c.children, from, to, compacted...)

	blocks := make([]bool, len(compacted))
	for i, n := range compacted {
		blocks[i] = n.IsBlock()
	}
	newlinesDelta := -c.newlines.TrueCount()
	c.newlines.ReplaceRange(from, to, blocks)
	newlinesDelta += c.newlines.TrueCount()

	c.contentChangedLocally(sumLengths(compacted).Sub(before), newlinesDelta, inStorage)
	return true
}

func hasAdjacentText(nodes []Node) bool {
	for i := 1; i < len(nodes); i++ {
		if _, ok := nodes[i-1].(*Text); ok {
			if _, ok := nodes[i].(*Text); ok {
				return true
			}
		}
	}
	return false
}

// compactNodes returns nodes with adjacent text runs concatenated.
func compactNodes(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for i := 0; i < len(nodes); {
		t, ok := nodes[i].(*Text)
		if !ok {
			out = append(out, nodes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(nodes) {
			u, ok := nodes[j].(*Text)
			if !ok {
				break
			}
			t = t.Concat(u)
			j++
		}
		out = append(out, t)
		i = j
	}
	return out
}

func sumLengths(nodes []Node) Delta {
	var d Delta
	for _, n := range nodes {
		d = d.Add(lengthOf(n))
	}
	return d
}

func checkDetached(nodes []Node) {
	seen := make(map[ID]bool, len(nodes))
	for _, n := range nodes {
		if n.Parent() != nil {
			panic(fmt.Sprintf("node: %s#%d is already attached", n.Kind(), n.ID()))
		}
		if seen[n.ID()] {
			panic(fmt.Sprintf("node: %s#%d appears twice", n.Kind(), n.ID()))
		}
		seen[n.ID()] = true
	}
}

// contentChanged applies a change reported by a descendant.
func (c *Container) contentChanged(delta Delta, inStorage bool) {
	c.contentLength += delta.Content
	c.layoutLength += delta.Layout
	if inStorage {
		c.dirty = true
	}
	c.propagate(delta, inStorage)
}

// contentChangedLocally applies a change of c's own children. Newlines are
// tracked by the table, so they are added to the propagated delta only.
func (c *Container) contentChangedLocally(delta Delta, newlinesDelta int, inStorage bool) {
	c.contentLength += delta.Content
	c.layoutLength += delta.Layout
	if inStorage {
		c.dirty = true
	}
	delta.Layout += newlinesDelta
	c.propagate(delta, inStorage)
}

func (c *Container) String() string {
	return fmt.Sprintf("%s#%d", c.kind, c.id)
}
