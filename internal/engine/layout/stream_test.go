package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/satzlich/swift-rohan-sub002/internal/engine/edit"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/location"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
)

func fraction(num, den string) *node.Math {
	return node.NewFraction([]node.Node{node.NewText(num)}, []node.Node{node.NewText(den)}, false)
}

// pass runs one incremental layout pass over root into s.
func pass(t *testing.T, s *Stream, root *node.Container, fromScratch bool) {
	t.Helper()
	s.Begin()
	root.PerformLayout(s, fromScratch)
	s.End()
}

// checkAgainstScratch compares s with a fresh rendering of root.
func checkAgainstScratch(t *testing.T, s *Stream, root *node.Container) {
	t.Helper()
	fresh := NewStream()
	pass(t, fresh, root, true)
	if diff := cmp.Diff(fresh.Dump(), s.Dump()); diff != "" {
		t.Errorf("incremental rendering differs from scratch (-scratch +incremental):\n%s", diff)
	}
	if got, want := s.Len(), root.LayoutLength(); got != want {
		t.Errorf("stream has %d units, root layout length is %d", got, want)
	}
}

func TestStreamFromScratch(t *testing.T) {
	root := node.NewRoot(
		node.NewHeading(1, node.NewText("Title")),
		node.NewParagraph(node.NewText("ab"), node.NewLinebreak(), fraction("x", "y")),
		node.NewParagraph(node.NewUnknown("img")),
	)
	s := NewStream()
	pass(t, s, root, true)

	want := "Title\nab\u2028fraction{x}{y}\n<img>"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if s.Len() != root.LayoutLength() {
		t.Errorf("Len() = %d, want %d", s.Len(), root.LayoutLength())
	}
	if st := s.Stats(); st.Inserted != s.Len()+2 || st.Skipped != 0 || st.Deleted != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestStreamUnits(t *testing.T) {
	frac := fraction("x", "yz")
	para := node.NewParagraph(frac)
	root := node.NewRoot(para)
	s := NewStream()
	pass(t, s, root, true)

	units := s.Units()
	if len(units) != 1 || units[0].Kind != UnitMath || units[0].Owner != frac.ID() {
		t.Fatalf("Units() = %+v", units)
	}
	den, ok := units[0].Component(node.Denominator)
	if !ok {
		t.Fatal("no denominator stream")
	}
	if den.String() != "yz" {
		t.Errorf("denominator = %q, want %q", den.String(), "yz")
	}
	if _, ok := units[0].Component(node.Nucleus); ok {
		t.Error("fraction has no nucleus")
	}
}

func TestIncrementalMatchesScratch(t *testing.T) {
	root := node.NewRoot(
		node.NewParagraph(node.NewText("hello")),
		node.NewParagraph(node.NewText("world"), fraction("a", "b")),
		node.NewHeading(1, node.NewText("title")),
	)
	s := NewStream()
	pass(t, s, root, true)

	loc := location.MustParse
	rng := func(a, b string) location.Range {
		r, err := location.NewRange(loc(a), loc(b))
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	steps := []struct {
		name string
		do   func() error
		want string
	}{
		{
			name: "insert into text",
			do:   func() error { _, err := edit.InsertString("XY", loc("[0,0]:2"), root); return err },
			want: "heXYllo\nworldfraction{a}{b}\ntitle",
		},
		{
			name: "break paragraph",
			do:   func() error { _, err := edit.InsertParagraphBreak(loc("[0,0]:4"), root); return err },
			want: "heXY\nllo\nworldfraction{a}{b}\ntitle",
		},
		{
			name: "insert into numerator",
			do:   func() error { _, err := edit.InsertString("z", loc("[2,1,numerator,0]:1"), root); return err },
			want: "heXY\nllo\nworldfraction{az}{b}\ntitle",
		},
		{
			name: "delete across paragraphs",
			do:   func() error { _, err := edit.DeleteRange(rng("[0,0]:2", "[1,0]:1"), root); return err },
			want: "helo\nworldfraction{az}{b}\ntitle",
		},
		{
			name: "delete fraction",
			do:   func() error { _, err := edit.DeleteRange(rng("[1]:1", "[1]:2"), root); return err },
			want: "helo\nworld\ntitle",
		},
		{
			name: "break at root end",
			do:   func() error { _, err := edit.InsertParagraphBreak(loc("[]:3"), root); return err },
			want: "helo\nworld\ntitle\n",
		},
		{
			name: "fill new paragraph",
			do:   func() error { _, err := edit.InsertString("end", loc("[3]:0"), root); return err },
			want: "helo\nworld\ntitle\nend",
		},
		{
			name: "delete nearly everything",
			do:   func() error { _, err := edit.DeleteRange(rng("[0,0]:0", "[3,0]:3"), root); return err },
			want: "",
		},
		{
			name: "insert at root",
			do:   func() error { _, err := edit.InsertString("again", loc("[]:0"), root); return err },
			want: "again",
		},
		{
			name: "break again",
			do:   func() error { _, err := edit.InsertParagraphBreak(loc("[0,0]:2"), root); return err },
			want: "ag\nain",
		},
	}

	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		pass(t, s, root, false)
		if got := s.String(); got != step.want {
			t.Errorf("%s: String() = %q, want %q", step.name, got, step.want)
		}
		checkAgainstScratch(t, s, root)
		if root.IsDirty() || root.Snapshot() != nil {
			t.Errorf("%s: root not clean after the pass", step.name)
		}
	}
}

func TestReorderedChildrenRelayout(t *testing.T) {
	root := node.NewRoot(
		node.NewParagraph(node.NewText("one")),
		node.NewParagraph(node.NewText("two")),
		node.NewParagraph(node.NewText("three")),
	)
	s := NewStream()
	pass(t, s, root, true)

	first := root.TakeSubrange(0, 1, true)
	root.InsertChildren(first, root.ChildCount(), true)
	pass(t, s, root, false)

	if got, want := s.String(), "two\nthree\none"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	checkAgainstScratch(t, s, root)
}

func TestMathComponentUpdate(t *testing.T) {
	root := node.NewRoot(node.NewParagraph(node.NewText("x"), fraction("a", "b")))
	s := NewStream()
	pass(t, s, root, true)
	s.ResetStats()

	if _, err := edit.InsertString("c", location.MustParse("[0,1,denominator,0]:1"), root); err != nil {
		t.Fatal(err)
	}
	pass(t, s, root, false)

	if got, want := s.String(), "xfraction{a}{bc}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	want := Stats{Invalidated: 1, Inserted: 2, Deleted: 1, Skipped: 1}
	if diff := cmp.Diff(want, s.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
	checkAgainstScratch(t, s, root)
}

func TestReconciliationIsLocal(t *testing.T) {
	const paragraphs, runs = 50, 10

	var blocks []node.Node
	for i := 0; i < paragraphs; i++ {
		var children []node.Node
		for j := 0; j < runs; j++ {
			if j > 0 {
				children = append(children, node.NewLinebreak())
			}
			children = append(children, node.NewText(fmt.Sprintf("p%dr%d", i, j)))
		}
		blocks = append(blocks, node.NewParagraph(children...))
	}
	root := node.NewRoot(blocks...)

	s := NewStream()
	pass(t, s, root, true)
	s.ResetStats()

	target := fmt.Sprintf("[%d,%d]:1", paragraphs/2, 2*(runs/2))
	if _, err := edit.InsertString("X", location.MustParse(target), root); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder()
	s.Begin()
	root.PerformLayout(Tee(rec, s), false)
	s.End()

	skips := 0
	for _, line := range rec.Lines() {
		if strings.HasPrefix(line, "skip ") {
			skips++
		}
	}
	// one skip per sibling and newline on the path, never per unit
	if limit := 2*paragraphs + 2*runs; skips > limit {
		t.Errorf("%d skip instructions, want at most %d", skips, limit)
	}
	st := s.Stats()
	if st.Inserted != len("p25r5")+1 || st.Deleted != len("p25r5") {
		t.Errorf("Stats() = %+v", st)
	}
	checkAgainstScratch(t, s, root)
}

func TestStreamEndPanics(t *testing.T) {
	root := node.NewRoot(node.NewParagraph(node.NewText("ab")))
	s := NewStream()
	pass(t, s, root, true)

	defer func() {
		if recover() == nil {
			t.Error("End() after an empty pass did not panic")
		}
	}()
	s.Begin()
	s.End()
}

func TestStreamComponentPassMustFinish(t *testing.T) {
	m := fraction("ab", "c")
	root := node.NewRoot(node.NewParagraph(m))
	s := NewStream()
	pass(t, s, root, true)

	s.Begin()
	sub := s.ComponentContext(m, node.Numerator, false)
	sub.SkipBackwards(1) // one of the two units

	defer func() {
		if recover() == nil {
			t.Error("moving past a partly laid out component did not panic")
		}
	}()
	s.InvalidateBackwards(1)
}

func TestStreamComponentPassFinished(t *testing.T) {
	m := fraction("ab", "c")
	root := node.NewRoot(node.NewParagraph(m))
	s := NewStream()
	pass(t, s, root, true)

	s.Begin()
	sub := s.ComponentContext(m, node.Numerator, false)
	sub.SkipBackwards(2)
	s.InvalidateBackwards(1)
	s.End()
	if got := s.Stats().Invalidated; got != 1 {
		t.Errorf("Invalidated = %d, want 1", got)
	}
}

func TestStreamDeletePastFrontPanics(t *testing.T) {
	s := NewStream()
	defer func() {
		if recover() == nil {
			t.Error("DeleteBackwards past the front did not panic")
		}
	}()
	s.DeleteBackwards(1)
}
