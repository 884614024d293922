// Package newline maintains the synthesized-newline table of a container.
//
// A container renders a newline after child i iff child i or child i+1 is a
// block. The last child never gets a trailing newline. The table keeps the
// block flags alongside the derived newline flags and a running count of set
// newlines, and every mutation touches only the boundaries adjacent to the
// change.
package newline

import "slices"

// Table holds the block flags of a child sequence and the newline flags
// derived from them.
type Table struct {
	isBlock   []bool
	newline   []bool
	trueCount int
}

// New builds a table from per-child block flags.
func New(isBlock []bool) *Table {
	t := &Table{}
	t.InsertSlice(isBlock, 0)
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.newline)
}

// At reports whether a newline follows entry i.
func (t *Table) At(i int) bool {
	return t.newline[i]
}

// IsBlock returns the block flag recorded for entry i.
func (t *Table) IsBlock(i int) bool {
	return t.isBlock[i]
}

// TrueCount returns the number of entries followed by a newline.
func (t *Table) TrueCount() int {
	return t.trueCount
}

// Values returns a copy of the newline flags.
func (t *Table) Values() []bool {
	out := make([]bool, len(t.newline))
	copy(out, t.newline)
	return out
}

// Insert inserts one entry at index at.
func (t *Table) Insert(isBlock bool, at int) {
	t.InsertSlice([]bool{isBlock}, at)
}

// InsertSlice inserts entries for isBlock starting at index at.
func (t *Table) InsertSlice(isBlock []bool, at int) {
	if at < 0 || at > len(t.isBlock) {
		panic("newline: insert index out of range")
	}
	k := len(isBlock)
	if k == 0 {
		return
	}

	// only the entry before the insertion point changes among old entries
	t.discount(at-1, at)

	t.isBlock = slices.Insert(t.isBlock, at, isBlock...)
	t.newline = slices.Insert(t.newline, at, make([]bool, k)...)

	t.recount(at-1, at+k)
}

// RemoveRange removes entries [from, to).
func (t *Table) RemoveRange(from, to int) {
	if from < 0 || to > len(t.isBlock) || from > to {
		panic("newline: remove range out of bounds")
	}
	if from == to {
		return
	}

	t.discount(from-1, to)

	t.isBlock = slices.Delete(t.isBlock, from, to)
	t.newline = slices.Delete(t.newline, from, to)

	t.recount(from-1, from)
}

// RemoveAll clears the table.
func (t *Table) RemoveAll() {
	t.isBlock = t.isBlock[:0]
	t.newline = t.newline[:0]
	t.trueCount = 0
}

// Set replaces the block flag of entry at.
func (t *Table) Set(isBlock bool, at int) {
	if at < 0 || at >= len(t.isBlock) {
		panic("newline: set index out of range")
	}
	t.discount(at-1, at+1)
	t.isBlock[at] = isBlock
	t.recount(at-1, at+1)
}

// ReplaceRange replaces entries [from, to) with entries for isBlock.
func (t *Table) ReplaceRange(from, to int, isBlock []bool) {
	t.RemoveRange(from, to)
	t.InsertSlice(isBlock, from)
}

// discount subtracts the newline flags of [from, to) clamped to the table.
func (t *Table) discount(from, to int) {
	from, to = max(from, 0), min(to, len(t.newline))
	for i := from; i < to; i++ {
		if t.newline[i] {
			t.trueCount--
		}
	}
}

// recount recomputes the newline flags of [from, to) clamped to the table
// and adds them to the running count.
func (t *Table) recount(from, to int) {
	n := len(t.newline)
	from, to = max(from, 0), min(to, n)
	for i := from; i < to; i++ {
		v := i+1 < n && (t.isBlock[i] || t.isBlock[i+1])
		t.newline[i] = v
		if v {
			t.trueCount++
		}
	}
}
