package newline

import (
	"math/rand"
	"testing"
	"testing/quick"
)

func expected(isBlock []bool) []bool {
	out := make([]bool, len(isBlock))
	for i := range isBlock {
		out[i] = i+1 < len(isBlock) && (isBlock[i] || isBlock[i+1])
	}
	return out
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func checkTable(t *testing.T, tbl *Table, isBlock []bool) {
	t.Helper()
	want := expected(isBlock)
	got := tbl.Values()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v (blocks %v)", i, got[i], want[i], isBlock)
		}
	}
	if tbl.TrueCount() != countTrue(want) {
		t.Errorf("TrueCount() = %d, want %d", tbl.TrueCount(), countTrue(want))
	}
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		isBlock []bool
		want    []bool
	}{
		{"empty", nil, []bool{}},
		{"single inline", []bool{false}, []bool{false}},
		{"single block", []bool{true}, []bool{false}},
		{"inline pair", []bool{false, false}, []bool{false, false}},
		{"block then inline", []bool{true, false}, []bool{true, false}},
		{"inline then block", []bool{false, true}, []bool{true, false}},
		{"block pair", []bool{true, true}, []bool{true, false}},
		{"mixed", []bool{false, false, true, false, false}, []bool{false, true, true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New(tt.isBlock)
			got := tbl.Values()
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if tbl.TrueCount() != countTrue(tt.want) {
				t.Errorf("TrueCount() = %d, want %d", tbl.TrueCount(), countTrue(tt.want))
			}
		})
	}
}

func TestInsertAtEdges(t *testing.T) {
	tbl := New([]bool{false, false})

	tbl.Insert(true, 0)
	checkTable(t, tbl, []bool{true, false, false})

	tbl.Insert(true, tbl.Len())
	checkTable(t, tbl, []bool{true, false, false, true})

	tbl.InsertSlice([]bool{false, true}, 2)
	checkTable(t, tbl, []bool{true, false, false, true, false, true})

	tbl.InsertSlice(nil, 1)
	checkTable(t, tbl, []bool{true, false, false, true, false, true})
}

func TestRemoveRange(t *testing.T) {
	blocks := []bool{false, true, false, false, true}
	tbl := New(blocks)

	tbl.RemoveRange(0, 1)
	checkTable(t, tbl, blocks[1:])

	tbl.RemoveRange(3, 4)
	checkTable(t, tbl, []bool{true, false, false})

	tbl.RemoveRange(1, 1)
	checkTable(t, tbl, []bool{true, false, false})

	tbl.RemoveRange(0, 3)
	checkTable(t, tbl, nil)
}

// The last entry never carries a newline, so growing or shrinking the
// tail must update the entry that was, or becomes, last.
func TestTailEntry(t *testing.T) {
	tbl := New([]bool{true})
	if tbl.At(0) {
		t.Fatal("single block has trailing newline")
	}

	tbl.Insert(false, 1)
	checkTable(t, tbl, []bool{true, false})
	if !tbl.At(0) || tbl.At(1) {
		t.Errorf("Values() = %v, want [true false]", tbl.Values())
	}

	tbl.RemoveRange(1, 2)
	checkTable(t, tbl, []bool{true})
	if tbl.TrueCount() != 0 {
		t.Errorf("TrueCount() = %d, want 0", tbl.TrueCount())
	}

	tbl.Set(false, 0)
	tbl.InsertSlice([]bool{false, true}, 1)
	checkTable(t, tbl, []bool{false, false, true})
}

func TestSetAndReplace(t *testing.T) {
	tbl := New([]bool{false, false, false})

	tbl.Set(true, 1)
	checkTable(t, tbl, []bool{false, true, false})

	tbl.Set(false, 1)
	checkTable(t, tbl, []bool{false, false, false})

	tbl.Set(true, 2)
	checkTable(t, tbl, []bool{false, false, true})

	tbl.ReplaceRange(0, 2, []bool{true})
	checkTable(t, tbl, []bool{true, true})

	tbl.RemoveAll()
	checkTable(t, tbl, nil)
}

func TestOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Table)
	}{
		{"insert past end", func(tbl *Table) { tbl.Insert(true, 3) }},
		{"insert negative", func(tbl *Table) { tbl.Insert(true, -1) }},
		{"remove past end", func(tbl *Table) { tbl.RemoveRange(1, 3) }},
		{"set past end", func(tbl *Table) { tbl.Set(true, 2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn(New([]bool{false, true}))
		})
	}
}

// Incremental edits must agree with a table rebuilt from scratch.
func TestIncrementalMatchesScratch(t *testing.T) {
	f := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		var blocks []bool
		tbl := New(nil)

		for step := 0; step < 64; step++ {
			switch op := r.Intn(4); {
			case op == 0 || len(blocks) == 0:
				at := r.Intn(len(blocks) + 1)
				k := r.Intn(3)
				ins := make([]bool, k)
				for i := range ins {
					ins[i] = r.Intn(2) == 0
				}
				blocks = append(blocks[:at:at], append(ins, blocks[at:]...)...)
				tbl.InsertSlice(ins, at)
			case op == 1:
				from := r.Intn(len(blocks))
				to := from + r.Intn(len(blocks)-from+1)
				blocks = append(blocks[:from:from], blocks[to:]...)
				tbl.RemoveRange(from, to)
			case op == 2:
				at := r.Intn(len(blocks))
				v := r.Intn(2) == 0
				blocks[at] = v
				tbl.Set(v, at)
			default:
				at := r.Intn(len(blocks) + 1)
				v := r.Intn(2) == 0
				blocks = append(blocks[:at:at], append([]bool{v}, blocks[at:]...)...)
				tbl.Insert(v, at)
			}

			scratch := New(blocks)
			got, want := tbl.Values(), scratch.Values()
			if len(got) != len(want) || tbl.TrueCount() != scratch.TrueCount() {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}
		}
		return true
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func FuzzTable(f *testing.F) {
	f.Add([]byte{0, 1, 1, 0})
	f.Add([]byte{1})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		blocks := make([]bool, len(data))
		for i, b := range data {
			blocks[i] = b&1 == 1
		}

		tbl := New(nil)
		for i, b := range blocks {
			tbl.Insert(b, i)
		}
		checkTable(t, tbl, blocks)

		for len(blocks) > 0 {
			tbl.RemoveRange(0, 1)
			blocks = blocks[1:]
			checkTable(t, tbl, blocks)
		}
	})
}
