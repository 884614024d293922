package node

import (
	"fmt"
	"weak"
)

// Kind is the type tag of a node.
type Kind uint8

// Node kinds.
const (
	KindRoot Kind = iota
	KindContent
	KindParagraph
	KindHeading
	KindEmphasis
	KindTextMode
	KindText
	KindLinebreak
	KindFraction
	KindEquation
	KindUnknown
)

var kindNames = [...]string{
	KindRoot:      "root",
	KindContent:   "content",
	KindParagraph: "paragraph",
	KindHeading:   "heading",
	KindEmphasis:  "emphasis",
	KindTextMode:  "textMode",
	KindText:      "text",
	KindLinebreak: "linebreak",
	KindFraction:  "fraction",
	KindEquation:  "equation",
	KindUnknown:   "unknown",
}

// String returns the lower camel case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Delta is a signed change of content and layout length.
type Delta struct {
	Content int
	Layout  int
}

// Add returns d + o.
func (d Delta) Add(o Delta) Delta {
	return Delta{Content: d.Content + o.Content, Layout: d.Layout + o.Layout}
}

// Sub returns d - o.
func (d Delta) Sub(o Delta) Delta {
	return Delta{Content: d.Content - o.Content, Layout: d.Layout - o.Layout}
}

// Node is a node of the document tree. The concrete types are *Container,
// *Text, *Linebreak, *Math and *Unknown.
type Node interface {
	// ID returns the identity of the node.
	ID() ID
	// Kind returns the type tag.
	Kind() Kind
	// Parent returns the container or math node owning this node, or nil.
	Parent() Node

	// ContentLength returns the structural units the node contributes.
	ContentLength() int
	// LayoutLength returns the rendered units the node contributes.
	LayoutLength() int
	// IsBlock reports whether the node is laid out as a block.
	IsBlock() bool
	// IsDirty reports whether layout must be recomputed.
	IsDirty() bool

	// Child returns the child at index x.
	Child(x Index) (Node, bool)
	// DeepCopy returns an independent copy with fresh ids.
	DeepCopy() Node
	// PerformLayout replays pending changes to ctx, back to front.
	PerformLayout(ctx LayoutContext, fromScratch bool)

	base() *nodeBase
}

// parentLink is a non-owning reference to a node's parent.
type parentLink struct {
	container weak.Pointer[Container]
	math      weak.Pointer[Math]
}

type nodeBase struct {
	id     ID
	parent parentLink
}

func newBase() nodeBase {
	return nodeBase{id: nextID()}
}

// ID returns the identity of the node.
func (b *nodeBase) ID() ID { return b.id }

// Parent returns the owner of the node, or nil.
func (b *nodeBase) Parent() Node {
	if c := b.parent.container.Value(); c != nil {
		return c
	}
	if m := b.parent.math.Value(); m != nil {
		return m
	}
	return nil
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) setParent(p Node) {
	switch p := p.(type) {
	case *Container:
		b.parent = parentLink{container: weak.Make(p)}
	case *Math:
		b.parent = parentLink{math: weak.Make(p)}
	default:
		panic(fmt.Sprintf("node: %T cannot own children", p))
	}
}

func (b *nodeBase) clearParent() {
	b.parent = parentLink{}
}

// propagate forwards a length change to the parent.
func (b *nodeBase) propagate(delta Delta, inStorage bool) {
	if c := b.parent.container.Value(); c != nil {
		c.contentChanged(delta, inStorage)
	} else if m := b.parent.math.Value(); m != nil {
		m.contentChanged(delta, inStorage)
	}
}

// Reidentify allocates a fresh id for n. Nodes moved across a merge boundary
// are reidentified so the layout diff treats them as new.
func Reidentify(n Node) {
	n.base().id = nextID()
}

func lengthOf(n Node) Delta {
	return Delta{Content: n.ContentLength(), Layout: n.LayoutLength()}
}
