package node

import "slices"

// LayoutContext consumes layout instructions. A consumer keeps a cursor into
// its rendered stream; the reconciler starts at the end of the stream and
// moves it backwards.
type LayoutContext interface {
	// SkipBackwards moves the cursor back over n unchanged units.
	SkipBackwards(n int)
	// DeleteBackwards removes the n units before the cursor.
	DeleteBackwards(n int)
	// InvalidateBackwards moves the cursor back over n units whose
	// rendering must be refreshed in place.
	InvalidateBackwards(n int)
	// InsertNewline inserts a synthesized newline owned by c at the cursor.
	InsertNewline(c *Container)
	// InsertText inserts the units of t at the cursor.
	InsertText(t *Text)
	// InsertUnit inserts the single unit of a linebreak or placeholder.
	InsertUnit(n Node)
	// InsertMath inserts the single unit of m after its components were
	// laid out.
	InsertMath(m *Math)
	// ComponentContext returns the context for a math component. With
	// fromScratch the component's previous rendering is discarded.
	ComponentContext(m *Math, idx MathIndex, fromScratch bool) LayoutContext
}

// SnapshotRecord is the lossy record of one child taken by MakeSnapshotOnce.
type SnapshotRecord struct {
	ID            ID
	InsertNewline bool
	LayoutLength  int
}

// Snapshot records a container's children as of its last layout pass.
type Snapshot struct {
	Records []SnapshotRecord
}

// IDs returns the recorded ids in order.
func (s *Snapshot) IDs() []ID {
	out := make([]ID, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.ID
	}
	return out
}

type mark uint8

const (
	markNone mark = iota
	markDirty
	markAdded
	markDeleted
)

type layoutRecord struct {
	mark          mark
	id            ID
	insertNewline bool
	layoutLength  int
}

// PerformLayout replays the changes since the last pass and clears the
// dirty flag and snapshot.
func (c *Container) PerformLayout(ctx LayoutContext, fromScratch bool) {
	switch {
	case fromScratch:
		c.layoutFromScratch(ctx)
	case c.snapshot == nil:
		c.layoutSimple(ctx)
	default:
		c.layoutFull(ctx)
	}
	c.dirty = false
	c.snapshot = nil
	c.laidOut = c.LayoutLength()
}

func (c *Container) layoutFromScratch(ctx LayoutContext) {
	for i := len(c.children) - 1; i >= 0; i-- {
		if c.newlines.At(i) {
			ctx.InsertNewline(c)
		}
		c.children[i].PerformLayout(ctx, true)
	}
}

// layoutSimple handles a container whose child sequence is unchanged.
func (c *Container) layoutSimple(ctx LayoutContext) {
	for i := len(c.children) - 1; i >= 0; i-- {
		if c.newlines.At(i) {
			ctx.SkipBackwards(1)
		}
		child := c.children[i]
		if child.IsDirty() {
			child.PerformLayout(ctx, false)
		} else {
			ctx.SkipBackwards(child.LayoutLength())
		}
	}
}

// layoutFull diffs the current children against the snapshot.
func (c *Container) layoutFull(ctx LayoutContext) {
	current, original := c.diffRecords()

	if !survivorsAligned(current, original) {
		c.relayout(ctx, original)
		return
	}

	newline := func(o, k layoutRecord) {
		switch {
		case !o.insertNewline && k.insertNewline:
			ctx.InsertNewline(c)
		case o.insertNewline && !k.insertNewline:
			ctx.DeleteBackwards(1)
		case o.insertNewline && k.insertNewline:
			ctx.SkipBackwards(1)
		}
	}

	// [cursor, end) is consistent with current[i+1:];
	// [0, cursor) is still the rendering of original[:j+1].
	i, j := len(current)-1, len(original)-1
	for i >= 0 || j >= 0 {
		for i >= 0 && current[i].mark == markAdded {
			if current[i].insertNewline {
				ctx.InsertNewline(c)
			}
			c.children[i].PerformLayout(ctx, true)
			i--
		}
		for j >= 0 && original[j].mark == markDeleted {
			if original[j].insertNewline {
				ctx.DeleteBackwards(1)
			}
			ctx.DeleteBackwards(original[j].layoutLength)
			j--
		}
		for i >= 0 && j >= 0 && current[i].mark == markNone && original[j].mark == markNone {
			newline(original[j], current[i])
			ctx.SkipBackwards(current[i].layoutLength)
			i--
			j--
		}

		if (i >= 0 && current[i].mark == markAdded) || (j >= 0 && original[j].mark == markDeleted) {
			continue
		}

		if i >= 0 {
			if j < 0 || current[i].mark != markDirty || original[j].mark != markDirty {
				panic("node: layout records out of step")
			}
			newline(original[j], current[i])
			c.children[i].PerformLayout(ctx, false)
			i--
			j--
		} else if j >= 0 {
			panic("node: layout records out of step")
		}
	}
}

func (c *Container) diffRecords() (current, original []layoutRecord) {
	records := c.snapshot.Records
	originalIDs := make(map[ID]bool, len(records))
	for _, r := range records {
		originalIDs[r.ID] = true
	}
	currentIDs := make(map[ID]bool, len(c.children))
	dirtyIDs := make(map[ID]bool)

	current = make([]layoutRecord, len(c.children))
	for i, child := range c.children {
		id := child.ID()
		currentIDs[id] = true
		m := markNone
		switch {
		case !originalIDs[id]:
			m = markAdded
		case child.IsDirty():
			m = markDirty
			dirtyIDs[id] = true
		}
		current[i] = layoutRecord{m, id, c.newlines.At(i), child.LayoutLength()}
	}

	original = make([]layoutRecord, len(records))
	for j, r := range records {
		m := markNone
		switch {
		case !currentIDs[r.ID]:
			m = markDeleted
		case dirtyIDs[r.ID]:
			m = markDirty
		}
		original[j] = layoutRecord{m, r.ID, r.InsertNewline, r.LayoutLength}
	}
	return current, original
}

// survivorsAligned reports whether the children present both before and
// after appear in the same relative order.
func survivorsAligned(current, original []layoutRecord) bool {
	var a, b []ID
	for _, r := range current {
		if r.mark != markAdded {
			a = append(a, r.id)
		}
	}
	for _, r := range original {
		if r.mark != markDeleted {
			b = append(b, r.id)
		}
	}
	return slices.Equal(a, b)
}

// relayout discards the previous rendering of every child and lays the
// container out again. Used when survivors were reordered, which the diff
// cannot express.
func (c *Container) relayout(ctx LayoutContext, original []layoutRecord) {
	total := 0
	for _, r := range original {
		total += r.layoutLength
		if r.insertNewline {
			total++
		}
	}
	if total > 0 {
		ctx.DeleteBackwards(total)
	}
	c.layoutFromScratch(ctx)
}
