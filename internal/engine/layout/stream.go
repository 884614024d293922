package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// UnitKind classifies a rendered unit.
type UnitKind uint8

const (
	UnitText        UnitKind = iota // one grapheme cluster
	UnitNewline                     // newline synthesized between blocks
	UnitLinebreak                   // explicit linebreak
	UnitPlaceholder                 // unknown node
	UnitMath                        // math node with nested components
)

var unitKindNames = [...]string{"text", "newline", "linebreak", "placeholder", "math"}

func (k UnitKind) String() string {
	if int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return fmt.Sprintf("UnitKind(%d)", uint8(k))
}

// Unit is one rendered unit. Owner is the node that produced it; for a
// newline that is the container holding the block.
type Unit struct {
	Kind  UnitKind
	Owner node.ID
	Text  string // grapheme, placeholder name or math kind

	components []component
}

type component struct {
	index  node.MathIndex
	stream *Stream
}

// Component returns the nested stream of a math unit.
func (u Unit) Component(idx node.MathIndex) (*Stream, bool) {
	for _, c := range u.components {
		if c.index == idx {
			return c.stream, true
		}
	}
	return nil, false
}

// Stats counts the instructions a stream has applied, nested streams
// included.
type Stats struct {
	Skipped     int
	Deleted     int
	Invalidated int
	Inserted    int
}

// Add returns s + o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Skipped:     s.Skipped + o.Skipped,
		Deleted:     s.Deleted + o.Deleted,
		Invalidated: s.Invalidated + o.Invalidated,
		Inserted:    s.Inserted + o.Inserted,
	}
}

// Stream is a rendered unit sequence that can be updated in place by layout
// passes.
type Stream struct {
	units  []Unit
	cursor int
	stats  *Stats

	// components laid out ahead of the InsertMath call that adopts them
	pending map[node.ID][]component
	// components entered by an incremental pass, checked once the cursor
	// moves on from their math unit
	open []*Stream
}

// NewStream returns an empty stream.
func NewStream() *Stream {
	return &Stream{stats: new(Stats)}
}

func (s *Stream) child() *Stream {
	return &Stream{stats: s.stats}
}

// Begin positions the cursor at the end for a new pass.
func (s *Stream) Begin() {
	s.cursor = len(s.units)
}

// End checks that a pass consumed the whole stream. A pass that stops
// short means the tree and the rendering disagree, which is a bug.
func (s *Stream) End() {
	s.closeComponents()
	if s.cursor != 0 {
		panic(fmt.Sprintf("layout: pass ended at unit %d of %d", s.cursor, len(s.units)))
	}
	if len(s.pending) != 0 {
		panic("layout: math components laid out without their node")
	}
}

// Len returns the number of units.
func (s *Stream) Len() int { return len(s.units) }

// Cursor returns the cursor position.
func (s *Stream) Cursor() int { return s.cursor }

// Units returns a copy of the units.
func (s *Stream) Units() []Unit { return slices.Clone(s.units) }

// Stats returns the counters accumulated since the stream was created or
// the last ResetStats.
func (s *Stream) Stats() Stats { return *s.stats }

// ResetStats zeroes the counters.
func (s *Stream) ResetStats() { *s.stats = Stats{} }

// closeComponents ends the component passes opened at the cursor.
func (s *Stream) closeComponents() {
	for _, c := range s.open {
		c.End()
	}
	s.open = s.open[:0]
}

func (s *Stream) back(n int) {
	s.closeComponents()
	if n < 0 || n > s.cursor {
		panic(fmt.Sprintf("layout: cannot move back %d units from %d", n, s.cursor))
	}
	s.cursor -= n
}

func (s *Stream) insert(units ...Unit) {
	s.closeComponents()
	s.units = slices.Insert(s.units, s.cursor, units...)
	s.stats.Inserted += len(units)
}

func (s *Stream) SkipBackwards(n int) {
	s.back(n)
	s.stats.Skipped += n
}

func (s *Stream) DeleteBackwards(n int) {
	s.back(n)
	s.units = slices.Delete(s.units, s.cursor, s.cursor+n)
	s.stats.Deleted += n
}

func (s *Stream) InvalidateBackwards(n int) {
	s.back(n)
	s.stats.Invalidated += n
}

func (s *Stream) InsertNewline(c *node.Container) {
	s.insert(Unit{Kind: UnitNewline, Owner: c.ID()})
}

func (s *Stream) InsertText(t *node.Text) {
	gs := t.Graphemes()
	units := make([]Unit, len(gs))
	for i, g := range gs {
		units[i] = Unit{Kind: UnitText, Owner: t.ID(), Text: g}
	}
	s.insert(units...)
}

func (s *Stream) InsertUnit(n node.Node) {
	switch n := n.(type) {
	case *node.Linebreak:
		s.insert(Unit{Kind: UnitLinebreak, Owner: n.ID()})
	case *node.Unknown:
		s.insert(Unit{Kind: UnitPlaceholder, Owner: n.ID(), Text: n.Name()})
	default:
		panic(fmt.Sprintf("layout: %s is not a unit node", n.Kind()))
	}
}

func (s *Stream) InsertMath(m *node.Math) {
	comps := s.pending[m.ID()]
	delete(s.pending, m.ID())
	s.insert(Unit{Kind: UnitMath, Owner: m.ID(), Text: m.Kind().String(), components: comps})
}

// ComponentContext returns the nested stream for a component. From
// scratch a new stream is started and held until InsertMath; otherwise the
// unit before the cursor must be the rendering of m, and the component pass
// is ended when the cursor next moves.
func (s *Stream) ComponentContext(m *node.Math, idx node.MathIndex, fromScratch bool) node.LayoutContext {
	if fromScratch {
		if s.pending == nil {
			s.pending = make(map[node.ID][]component)
		}
		c := s.child()
		s.pending[m.ID()] = append(s.pending[m.ID()], component{idx, c})
		return c
	}

	if s.cursor == 0 {
		panic("layout: no math unit before the cursor")
	}
	u := s.units[s.cursor-1]
	if u.Kind != UnitMath || u.Owner != m.ID() {
		panic(fmt.Sprintf("layout: unit before the cursor is %s of %s, want math of %s", u.Kind, u.Owner, m.ID()))
	}
	c, ok := u.Component(idx)
	if !ok {
		panic(fmt.Sprintf("layout: math %s has no rendered %s", m.ID(), idx))
	}
	c.Begin()
	s.open = append(s.open, c)
	return c
}

// String renders the stream as text. Newlines and linebreaks render as
// "\n" and "\u2028", placeholders as <name>, and math as its kind followed
// by its components in braces.
func (s *Stream) String() string {
	var sb strings.Builder
	s.render(&sb)
	return sb.String()
}

func (s *Stream) render(sb *strings.Builder) {
	for _, u := range s.units {
		switch u.Kind {
		case UnitText:
			sb.WriteString(u.Text)
		case UnitNewline:
			sb.WriteByte('\n')
		case UnitLinebreak:
			sb.WriteString("\u2028")
		case UnitPlaceholder:
			sb.WriteString("<" + u.Text + ">")
		case UnitMath:
			sb.WriteString(u.Text)
			for _, c := range u.components {
				sb.WriteByte('{')
				c.stream.render(sb)
				sb.WriteByte('}')
			}
		}
	}
}

// Dump lists the units with their owners, one per line, nested components
// indented.
func (s *Stream) Dump() string {
	var sb strings.Builder
	s.dump(&sb, "")
	return sb.String()
}

func (s *Stream) dump(sb *strings.Builder, indent string) {
	for _, u := range s.units {
		fmt.Fprintf(sb, "%s%s #%s", indent, u.Kind, u.Owner)
		if u.Text != "" {
			fmt.Fprintf(sb, " %q", u.Text)
		}
		sb.WriteByte('\n')
		for _, c := range u.components {
			fmt.Fprintf(sb, "%s  %s:\n", indent, c.index)
			c.stream.dump(sb, indent+"    ")
		}
	}
}
