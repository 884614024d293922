// Package engine provides the document engine for rohan.
//
// The Engine type is a facade over one document tree. It combines the node
// tree, the structural edit operations and an incrementally maintained
// rendering into a thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - newline: synthesized-newline bookkeeping for block children
//   - node: the tree, its length accounting and the layout reconciler
//   - location: paths into the tree, traces and insertion points
//   - edit: range deletion, paragraph breaks, string insertion, range repair
//   - layout: consumers of the reconciler's instructions
//   - errs: error kinds shared by the packages above
//
// # Edits and layout
//
// Every edit method runs the edit and then a layout pass under one write
// lock, so readers never observe a tree whose rendering is stale. Edits
// return the location the caret should move to.
//
//	e := engine.New(engine.WithRoot(node.NewRoot(
//		node.NewParagraph(node.NewText("hello")),
//		node.NewParagraph(node.NewText("world")),
//	)))
//
//	r, _ := location.NewRange(location.MustParse("[0,0]:2"), location.MustParse("[1,0]:2"))
//	res, _ := e.DeleteRange(r)
//	e.Render()            // "herld"
//	res.Location.String() // "[0,0]:2"
//
// # Errors
//
// Edits fail with the kinds in package errs. errs.IsRejected separates an
// edit the document refused, such as a paragraph break inside a heading,
// from a location or range that does not fit the tree.
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use. The tree itself is not:
// code that holds a node obtained through Read must not keep it past the
// callback.
package engine
