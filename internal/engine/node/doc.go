// Package node implements the editable document tree.
//
// A tree is made of five node variants: Container, Text, Linebreak, Math and
// Unknown. Algorithms switch over the concrete type, so a new variant has to
// be handled everywhere a switch names the others.
//
// # Lengths
//
// Every node reports a content length, in structural units, and a layout
// length, in rendered units. Text contributes one unit per grapheme cluster
// to both. A Container's layout length also counts the newlines synthesized
// between block children (see package newline). Math nodes are opaque: their
// layout length is always 1 regardless of what their components hold.
//
// Every structural mutation of a Container takes an inStorage flag. When the
// flag is set the container records a snapshot of its children before the
// first mutation, is marked dirty, and propagates the length delta to its
// ancestors, which are marked dirty as well.
//
// # Layout
//
// PerformLayout replays the changes since the previous pass to a
// LayoutContext, back to front. Containers pick one of three strategies:
// from scratch for nodes the consumer has never seen, a simple walk when
// only descendants changed, and a diff against the snapshot when children
// were inserted or removed. A pass clears the dirty flags and snapshots it
// visits.
//
// # Ownership
//
// A node has at most one parent. Parent links are weak and exist only for
// upward length propagation; children are owned by their container or math
// node. Inserting a node that already has a parent panics.
package node
