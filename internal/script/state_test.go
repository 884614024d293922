package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v, ok := s.GetGlobal("x").(lua.LNumber); !ok || float64(v) != 2 {
		t.Errorf("x = %v, want 2", s.GetGlobal("x"))
	}
}

func TestStateSyntaxError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(context.Background(), `invalid lua code !!!`); err == nil {
		t.Error("DoString() with invalid code should fail")
	}
}

func TestStateSafeLibraries(t *testing.T) {
	s := NewState()
	defer s.Close()

	tests := []struct {
		name   string
		global string
		want   bool
	}{
		{"string", "string", true},
		{"table", "table", true},
		{"math", "math", true},
		{"pairs", "pairs", true},
		{"io", "io", false},
		{"os", "os", false},
		{"debug", "debug", false},
		{"require", "require", false},
		{"dofile", "dofile", false},
		{"loadfile", "loadfile", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.GetGlobal(tt.global) != lua.LNil; got != tt.want {
				t.Errorf("%s available = %v, want %v", tt.global, got, tt.want)
			}
		})
	}
}

func TestStatePrint(t *testing.T) {
	var out bytes.Buffer
	s := NewState(WithOutput(&out))
	defer s.Close()

	if err := s.DoString(context.Background(), `print("a", 1, true, nil)`); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "a\t1\ttrue\tnil\n"; got != want {
		t.Errorf("print wrote %q, want %q", got, want)
	}
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	start := time.Now()
	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}

	// The state stays usable.
	if err := s.DoString(context.Background(), `y = 1`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateCancelled(t *testing.T) {
	s := NewState(WithTimeout(0))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := s.DoString(ctx, `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("DoString() error = %v, want context.Canceled", err)
	}
}

func TestStateInstructionLimit(t *testing.T) {
	s := NewState(WithInstructionLimit(3))
	defer s.Close()
	s.L.SetGlobal("tick", s.L.NewFunction(func(L *lua.LState) int {
		s.charge(L)
		return 0
	}))

	if err := s.DoString(context.Background(), `tick() tick() tick()`); err != nil {
		t.Fatalf("three calls: error = %v", err)
	}
	if got := s.Calls(); got != 3 {
		t.Errorf("Calls() = %d, want 3", got)
	}

	err := s.DoString(context.Background(), `for i = 1, 10 do tick() end`)
	if !errors.Is(err, ErrInstructionLimit) {
		t.Errorf("ten calls: error = %v, want ErrInstructionLimit", err)
	}

	// pcall cannot swallow the limit.
	err = s.DoString(context.Background(), `for i = 1, 10 do pcall(tick) end`)
	if !errors.Is(err, ErrInstructionLimit) {
		t.Errorf("pcall: error = %v, want ErrInstructionLimit", err)
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lua")
	if err := os.WriteFile(path, []byte(`z = "from file"`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewState()
	defer s.Close()
	if err := s.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if got := s.GetGlobal("z").String(); got != "from file" {
		t.Errorf("z = %q", got)
	}

	err := s.DoFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	if err == nil || !strings.Contains(err.Error(), "missing.lua") {
		t.Errorf("DoFile(missing) error = %v", err)
	}
}

func TestStateClose(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.DoString(context.Background(), `x = 1`); err != ErrStateClosed {
		t.Errorf("DoString() after Close error = %v, want ErrStateClosed", err)
	}
	if v := s.GetGlobal("x"); v != lua.LNil {
		t.Errorf("GetGlobal() after Close = %v, want nil", v)
	}
}
