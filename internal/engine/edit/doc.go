// Package edit implements structural edits on a document tree: range
// deletion, paragraph-break insertion, string insertion, and validation and
// repair of selection ranges.
//
// Edits mutate the tree in place with storage-affecting mutations, so the
// next layout pass replays them. Each edit reports the resulting insertion
// point.
//
// # Insertion points
//
// Range deletion threads a location.InsertionPoint through its recursion.
// A recursive call that reports its subtree should be removed leaves the
// point's path above its own level untouched, so the caller can rectify it
// from that prefix. A call that keeps its subtree leaves the point accurate
// for the current tree.
package edit

import "github.com/satzlich/swift-rohan-sub002/internal/engine/location"

// Result is the insertion point after an edit. Moved is false when the
// location given to the edit is still the insertion point.
type Result struct {
	Location location.Location
	Moved    bool
}
