package node

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"ascii", "hello", 5},
		{"combining normalized", "e\u0301", 1},
		{"flag emoji", "🇯🇵", 1},
		{"family emoji", "👨‍👩‍👧", 1},
		{"mixed", "a🇯🇵b", 3},
		{"cjk", "世界", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := NewText(tt.input)
			if txt.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", txt.Len(), tt.want)
			}
			if txt.ContentLength() != txt.LayoutLength() {
				t.Errorf("content %d != layout %d", txt.ContentLength(), txt.LayoutLength())
			}
			if got := len(txt.Graphemes()); got != tt.want {
				t.Errorf("len(Graphemes()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewTextEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewText(\"\") should panic")
		}
	}()
	NewText("")
}

func TestTextEdits(t *testing.T) {
	txt := NewText("a🇯🇵bc")

	if got := txt.Slice(1, 3); got != "🇯🇵b" {
		t.Errorf("Slice(1, 3) = %q", got)
	}
	if got := txt.Removed(1, 2).String(); got != "abc" {
		t.Errorf("Removed(1, 2) = %q", got)
	}
	if got := txt.Inserted(4, "d").String(); got != "a🇯🇵bcd" {
		t.Errorf("Inserted(4, d) = %q", got)
	}
	if got := txt.Inserted(0, "x").String(); got != "xa🇯🇵bc" {
		t.Errorf("Inserted(0, x) = %q", got)
	}

	lhs, rhs := txt.Split(2)
	if lhs.String() != "a🇯🇵" || rhs.String() != "bc" {
		t.Errorf("Split(2) = %q, %q", lhs, rhs)
	}
	if got := lhs.Concat(rhs).String(); got != txt.String() {
		t.Errorf("Concat = %q, want %q", got, txt)
	}
}

func TestTextSplitBoundsPanic(t *testing.T) {
	for _, offset := range []int{0, 3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Split(%d) should panic", offset)
				}
			}()
			NewText("abc").Split(offset)
		}()
	}
}

func TestTextIsImmutable(t *testing.T) {
	txt := NewText("abc")
	id := txt.ID()
	_ = txt.Removed(0, 1)
	_ = txt.Inserted(1, "x")
	if txt.String() != "abc" || txt.ID() != id {
		t.Errorf("text changed to %q#%d", txt, txt.ID())
	}
}

func TestIndex(t *testing.T) {
	i := ChildIndex(3)
	if v, ok := i.Child(); !ok || v != 3 {
		t.Errorf("Child() = %d, %v", v, ok)
	}
	if _, ok := i.Component(); ok {
		t.Error("child index reported a component")
	}

	c := ComponentIndex(Denominator)
	if m, ok := c.Component(); !ok || m != Denominator {
		t.Errorf("Component() = %v, %v", m, ok)
	}
	if _, ok := c.Child(); ok {
		t.Error("component index reported a child")
	}
	if c.String() != "denominator" || i.String() != "3" {
		t.Errorf("String() = %q, %q", c.String(), i.String())
	}
	if ComponentIndex(Numerator).Ordinal() >= ComponentIndex(Denominator).Ordinal() {
		t.Error("numerator should order before denominator")
	}

	var got []MathIndex
	for _, s := range []string{"nucleus", "numerator", "denominator"} {
		m, ok := ParseMathIndex(s)
		if !ok {
			t.Fatalf("ParseMathIndex(%q) failed", s)
		}
		got = append(got, m)
	}
	if diff := cmp.Diff([]MathIndex{Nucleus, Numerator, Denominator}, got); diff != "" {
		t.Errorf("ParseMathIndex mismatch (-want +got):\n%s", diff)
	}
	if _, ok := ParseMathIndex("radicand"); ok {
		t.Error("ParseMathIndex accepted an unknown name")
	}
}
