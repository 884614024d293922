package script

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/satzlich/swift-rohan-sub002/internal/engine"
)

// runScript executes code against a fresh engine and returns what it printed.
func runScript(t *testing.T, code string) (*engine.Engine, string, error) {
	t.Helper()
	var out bytes.Buffer
	s := NewState(WithOutput(&out))
	t.Cleanup(func() { s.Close() })

	e := engine.New(engine.WithInvariantChecks(true))
	Register(s, e)
	err := s.DoString(context.Background(), code)
	return e, out.String(), err
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"text", `print(doc.text("ab"))`, `"ab"`},
		{"paragraph", `print(doc.paragraph{"a", doc.linebreak(), "b"})`, `paragraph["a", linebreak, "b"]`},
		{"heading", `print(doc.heading(2, {"T"}))`, `heading["T"]`},
		{"emphasis", `print(doc.emphasis{"e"})`, `emphasis["e"]`},
		{"content", `print(doc.content{})`, `content[]`},
		{"text mode", `print(doc.text_mode{"t"})`, `textMode["t"]`},
		{"fraction", `print(doc.fraction({"1"}, {"2"}))`, `fraction[numerator["1"], denominator["2"]]`},
		{"equation", `print(doc.equation({"x"}, true))`, `equation[nucleus["x"]]`},
		{"unknown", `print(doc.unknown("img"))`, `unknown "img"`},
		{"kind method", `print(doc.fraction({}, {}):kind())`, `fraction`},
		{"length method", `print(doc.paragraph{"ab", doc.linebreak()}:length())`, `3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := runScript(t, tt.code)
			if err != nil {
				t.Fatalf("script error = %v", err)
			}
			if got := strings.TrimSuffix(out, "\n"); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConstructorErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"bad element", `doc.paragraph{1}`, "must be a string or node"},
		{"not a table", `doc.paragraph("a")`, "table expected"},
		{"heading level", `doc.heading(0, {})`, "level must be positive"},
		{"bad location", `doc.insert_string("0:1", "x")`, "invalid location"},
		{"reversed range", `doc.set_root{doc.paragraph{"ab"}} doc.delete_range("[0,0]:2", "[0,0]:1")`, "invalid range"},
		{"unresolved location", `doc.insert_string("[4,0]:0", "x")`, "insert_string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runScript(t, tt.code)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestReusedNodesAreCopied(t *testing.T) {
	e, _, err := runScript(t, `
		local e = doc.emphasis{"a"}
		doc.set_root{doc.paragraph{e, "-", e}}
		doc.set_root{doc.paragraph{e}}
	`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.Synopsis(), `root[paragraph[emphasis["a"]]]`; got != want {
		t.Errorf("Synopsis() = %s, want %s", got, want)
	}
}

func TestEditing(t *testing.T) {
	e, out, err := runScript(t, `
		doc.set_root{doc.paragraph{"hello"}, doc.paragraph{"world"}}
		print(doc.delete_range("[0,0]:2", "[1,0]:2"))
		print(doc.insert_string("[0,0]:2", "XY"))
		print(doc.paragraph_break("[0,0]:2"))
		print(doc.render())
	`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	want := strings.Join([]string{
		"[0,0]:2\tfalse",
		"[0,0]:2\tfalse",
		"[1]:0\ttrue",
		"he\nXYrld",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if got, want := e.Synopsis(), `root[paragraph["he"], paragraph["XYrld"]]`; got != want {
		t.Errorf("Synopsis() = %s, want %s", got, want)
	}
}

func TestRejectedEditReturnsMessage(t *testing.T) {
	e, out, err := runScript(t, `
		doc.set_root{doc.heading(1, {"Title"})}
		local loc, msg = doc.paragraph_break("[0,0]:2")
		print(loc, msg ~= nil)
		print(string.find(msg, "rejected", 1, true) ~= nil)
	`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	if want := "nil\ttrue\ntrue\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if got := e.Synopsis(); got != `root[heading["Title"]]` {
		t.Errorf("Synopsis() = %s", got)
	}
}

func TestQueries(t *testing.T) {
	e, out, err := runScript(t, `
		doc.set_root{doc.paragraph{"x", doc.fraction({"1"}, {"2"})}}
		print(doc.synopsis())
		print(doc.length())
		print(doc.validate("[0,0]:0", "[0]:2"))
		print(doc.validate("[0,0]:0", "[0,1,numerator,0]:1"))
		print(doc.repair("[0,0]:0", "[0,1,numerator,0]:1"))
		print(doc.normalize("[0]:0"))
		local l = doc.layout()
		print(l.from_scratch, l.length)
		print(doc.id())
	`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	want := strings.Join([]string{
		`root[paragraph["x", fraction[numerator["1"], denominator["2"]]]]`,
		"3",
		"true",
		"false",
		"[0,0]:0\t[0]:2\trepaired",
		"[0,0]:0",
		"true\t2",
		e.ID().String(),
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeOutput(t *testing.T) {
	_, out, err := runScript(t, `
		doc.set_root{doc.paragraph{"ab"}}
		print(doc.tree())
	`)
	if err != nil {
		t.Fatal(err)
	}
	want := "root\n └ paragraph\n    └ text \"ab\"\n"
	if out != want {
		t.Errorf("tree = %q, want %q", out, want)
	}
}

func TestDocCallsAreCharged(t *testing.T) {
	var out bytes.Buffer
	s := NewState(WithOutput(&out), WithInstructionLimit(5))
	defer s.Close()
	Register(s, engine.New())

	if err := s.DoString(context.Background(), `for i = 1, 5 do doc.length() end`); err != nil {
		t.Fatalf("five calls: error = %v", err)
	}
	if err := s.DoString(context.Background(), `for i = 1, 6 do doc.length() end`); err == nil {
		t.Error("six calls: expected instruction limit error")
	}
}
