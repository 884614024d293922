// Package location addresses positions in a document tree.
//
// A Location is a path of child indices from the root followed by an offset
// into the last node: a child slot for containers, a grapheme offset for
// text. Its text form is "[0,numerator,1]:3".
package location

import (
	"slices"
	"strconv"
	"strings"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/errs"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

// Location is a position in a document tree.
type Location struct {
	Indices []node.Index
	Offset  int
}

// New creates a location from child indices and an offset.
func New(indices []int, offset int) Location {
	path := make([]node.Index, len(indices))
	for i, v := range indices {
		path[i] = node.ChildIndex(v)
	}
	return Location{Indices: path, Offset: offset}
}

// Path returns the indices followed by the offset as a child index.
func (l Location) Path() []node.Index {
	path := make([]node.Index, 0, len(l.Indices)+1)
	path = append(path, l.Indices...)
	return append(path, node.ChildIndex(l.Offset))
}

// Equal reports whether l and o address the same position.
func (l Location) Equal(o Location) bool {
	return l.Offset == o.Offset && slices.Equal(l.Indices, o.Indices)
}

// String returns the text form of the location.
func (l Location) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range l.Indices {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(x.String())
	}
	sb.WriteString("]:")
	sb.WriteString(strconv.Itoa(l.Offset))
	return sb.String()
}

// Parse parses the text form produced by String.
func Parse(s string) (Location, error) {
	bad := func() (Location, error) {
		return Location{}, errs.New("parse", strconv.Quote(s), errs.ErrInvalidLocation)
	}

	path, offset, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || !strings.HasPrefix(path, "[") || !strings.HasSuffix(path, "]") {
		return bad()
	}
	off, err := strconv.Atoi(offset)
	if err != nil || off < 0 {
		return bad()
	}

	loc := Location{Offset: off}
	inner := strings.TrimSpace(path[1 : len(path)-1])
	if inner == "" {
		return loc, nil
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if m, ok := node.ParseMathIndex(part); ok {
			loc.Indices = append(loc.Indices, node.ComponentIndex(m))
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return bad()
		}
		loc.Indices = append(loc.Indices, node.ChildIndex(v))
	}
	return loc, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Location {
	loc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return loc
}

// Compare orders locations in document order. It returns -1, 0 or +1.
// A location that is a proper prefix of another orders first.
func Compare(a, b Location) int {
	pa, pb := a.Path(), b.Path()
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := pa[i].Ordinal() - pb[i].Ordinal(); c != 0 {
			if c < 0 {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	default:
		return 0
	}
}

// Range is a pair of locations with Start not after End.
type Range struct {
	Start Location
	End   Location
}

// NewRange creates a range. It fails with ErrInvalidRange if end precedes
// start.
func NewRange(start, end Location) (Range, error) {
	if Compare(start, end) > 0 {
		return Range{}, errs.New("range", start.String()+".."+end.String(), errs.ErrInvalidRange)
	}
	return Range{Start: start, End: end}, nil
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start.Equal(r.End)
}

// String returns "start..end".
func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}
