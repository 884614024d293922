// Package watch reports changes to a set of files.
//
// It watches the directory containing each file rather than the file itself,
// so editors that save by writing a temporary file and renaming it over the
// original are still seen. Bursts of events for one file are coalesced into
// a single Event after a quiet period.
package watch

import (
	"errors"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrClosed          = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("file is already being watched")
	ErrNotWatching     = errors.New("file is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrIsDirectory     = errors.New("path is a directory")
)

// Op is a set of file system operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns the names of the operations in op joined by "|".
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// Has returns true if op includes every operation in o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event reports that a watched file changed.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	// Op is every operation seen during the debounce window.
	Op Op
	// Timestamp is the time of the last operation in the window.
	Timestamp time.Time
}

// Config configures a Watcher.
type Config struct {
	// Debounce is the quiet period before an event is delivered.
	Debounce time.Duration
	// BufferSize is the capacity of the event and error channels.
	BufferSize int
}

// DefaultConfig returns a 100ms debounce with a small buffer.
func DefaultConfig() Config {
	return Config{
		Debounce:   100 * time.Millisecond,
		BufferSize: 16,
	}
}

// Option configures a Watcher.
type Option func(*Config)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithBufferSize sets the channel capacity.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		c.BufferSize = n
	}
}
