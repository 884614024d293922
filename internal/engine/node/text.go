package node

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Text is an immutable run of text. Its lengths count extended grapheme
// clusters of the NFC-normalized payload.
type Text struct {
	nodeBase
	s string
	n int
}

// NewText creates a text run. It panics if s is empty.
func NewText(s string) *Text {
	if s == "" {
		panic("node: empty text")
	}
	s = norm.NFC.String(s)
	return &Text{nodeBase: newBase(), s: s, n: uniseg.GraphemeClusterCount(s)}
}

// Kind returns KindText.
func (t *Text) Kind() Kind { return KindText }

// String returns the payload.
func (t *Text) String() string { return t.s }

// Len returns the number of grapheme clusters.
func (t *Text) Len() int { return t.n }

// ContentLength returns Len.
func (t *Text) ContentLength() int { return t.n }

// LayoutLength returns Len.
func (t *Text) LayoutLength() int { return t.n }

// IsBlock returns false.
func (t *Text) IsBlock() bool { return false }

// IsDirty returns false. Text is replaced, never edited in place.
func (t *Text) IsDirty() bool { return false }

// Child returns false; text has no children.
func (t *Text) Child(Index) (Node, bool) { return nil, false }

// DeepCopy returns a copy with a fresh id.
func (t *Text) DeepCopy() Node {
	return &Text{nodeBase: newBase(), s: t.s, n: t.n}
}

// PerformLayout inserts the run.
func (t *Text) PerformLayout(ctx LayoutContext, fromScratch bool) {
	ctx.InsertText(t)
}

// Slice returns the payload between grapheme offsets [from, to).
func (t *Text) Slice(from, to int) string {
	if from < 0 || to > t.n || from > to {
		panic("node: text slice out of range")
	}
	return t.s[t.byteOffset(from):t.byteOffset(to)]
}

// Graphemes returns the grapheme clusters of the payload.
func (t *Text) Graphemes() []string {
	out := make([]string, 0, t.n)
	rest, state := t.s, -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		out = append(out, cluster)
	}
	return out
}

// Concat returns a new run holding t followed by o.
func (t *Text) Concat(o *Text) *Text {
	return NewText(t.s + o.s)
}

// Removed returns a new run without [from, to). It panics if the result
// would be empty.
func (t *Text) Removed(from, to int) *Text {
	return NewText(t.s[:t.byteOffset(from)] + t.s[t.byteOffset(to):])
}

// Inserted returns a new run with s inserted at offset.
func (t *Text) Inserted(offset int, s string) *Text {
	b := t.byteOffset(offset)
	var sb strings.Builder
	sb.Grow(len(t.s) + len(s))
	sb.WriteString(t.s[:b])
	sb.WriteString(s)
	sb.WriteString(t.s[b:])
	return NewText(sb.String())
}

// Split splits t at offset into two non-empty runs. offset must lie
// strictly inside the run.
func (t *Text) Split(offset int) (*Text, *Text) {
	if offset <= 0 || offset >= t.n {
		panic("node: text split must be strictly inside the run")
	}
	b := t.byteOffset(offset)
	return NewText(t.s[:b]), NewText(t.s[b:])
}

// byteOffset converts a grapheme offset to a byte offset.
func (t *Text) byteOffset(g int) int {
	if g < 0 || g > t.n {
		panic("node: text offset out of range")
	}
	if g == t.n {
		return len(t.s)
	}
	rest, state, b := t.s, -1, 0
	for i := 0; i < g; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b += len(cluster)
	}
	return b
}
