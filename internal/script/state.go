package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a State.
const (
	DefaultTimeout          = 5 * time.Second
	DefaultInstructionLimit = 10_000_000
)

// State wraps gopher-lua for document scripts.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs
// started from different goroutines.
type State struct {
	L *lua.LState

	mu sync.Mutex

	timeout          time.Duration
	instructionLimit int64
	out              io.Writer

	// Per-run accounting, valid while a run holds mu.
	calls    int64
	exceeded bool
	cancel   context.CancelFunc

	closed bool
}

// Option configures a State.
type Option func(*State)

// WithTimeout bounds the wall time of each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		s.timeout = d
	}
}

// WithInstructionLimit bounds the number of doc calls of each run. Zero
// disables the bound.
func WithInstructionLimit(limit int64) Option {
	return func(s *State) {
		s.instructionLimit = limit
	}
}

// WithOutput redirects print. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		s.out = w
	}
}

// NewState creates a Lua state with only safe libraries opened.
func NewState(opts ...Option) *State {
	s := &State{
		timeout:          DefaultTimeout,
		instructionLimit: DefaultInstructionLimit,
		out:              os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
	return s
}

// openSafeLibraries opens the libraries that cannot reach the host.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	// The base library reaches the file system through these.
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// print writes its arguments separated by tabs.
func (s *State) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(s.out, strings.Join(parts, "\t"))
	return 0
}

// DoFile executes the Lua file at path.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error {
		return s.L.DoString(code)
	})
}

func (s *State) run(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	s.calls = 0
	s.exceeded = false
	s.cancel = cancel
	s.L.SetContext(ctx)
	defer func() {
		s.L.RemoveContext()
		s.cancel = nil
	}()

	err := doWithRecovery(fn)
	switch {
	case s.exceeded:
		return fmt.Errorf("%w after %d calls", ErrInstructionLimit, s.instructionLimit)
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrExecutionTimeout, s.timeout)
	case err != nil && ctx.Err() != nil:
		return fmt.Errorf("lua: %w", ctx.Err())
	}
	return err
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// charge counts one host call against the run's budget and aborts the run
// once the budget is spent.
func (s *State) charge(L *lua.LState) {
	s.calls++
	if s.instructionLimit > 0 && s.calls > s.instructionLimit {
		s.exceeded = true
		if s.cancel != nil {
			s.cancel()
		}
		L.RaiseError("%v", ErrInstructionLimit)
	}
}

// Calls returns the number of doc calls made by the last run.
func (s *State) Calls() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Close releases the interpreter. Later runs return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
