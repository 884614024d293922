package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher delivers debounced change events for individual files.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	config Config

	// files are absolute paths; dirs counts the files in each watched directory.
	files map[string]bool
	dirs  map[string]int

	pending map[string]*pendingEvent

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher with no files.
func New(opts ...Option) (*Watcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultConfig().Debounce
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		config:  config,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching the file at path.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Remove stops watching the file at path.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	if p, ok := w.pending[absPath]; ok {
		p.timer.Stop()
		delete(w.pending, absPath)
	}

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		// The directory may already be gone.
		if err := w.fsw.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			return err
		}
	}
	return nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Events returns the event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and drops pending events.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.events)
	close(w.errors)

	return w.fsw.Close()
}

// Flush delivers every pending event immediately.
func (w *Watcher) Flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path, p := range w.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	w.mu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		w.fire(path)
	}
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(fsEvent)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handle filters a directory event down to the watched files and
// schedules its delivery.
func (w *Watcher) handle(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(fsEvent.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	now := time.Now()
	if p, ok := w.pending[path]; ok {
		p.event.Op |= op
		p.event.Timestamp = now
		p.timer.Reset(w.config.Debounce)
		return
	}

	p := &pendingEvent{event: Event{Path: path, Op: op, Timestamp: now}}
	p.timer = time.AfterFunc(w.config.Debounce, func() {
		w.fire(path)
	})
	w.pending[path] = p
}

// fire sends the pending event for path, if any. The send happens under
// the lock so that Close cannot close the channel underneath it.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
	default:
		// Channel full, drop event
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
