package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// Handler is called when the followed file changes. Rapid sequences of
// events are coalesced into a single call by the debounce window.
type Handler func()

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// Watcher follows a single file for changes. The session state is written
// by atomic rename, so the watch is placed on the containing directory and
// events are filtered down to the target file name.
type Watcher struct {
	fs           *fsnotify.Watcher
	debouncer    *Debouncer
	handler      Handler
	errorHandler ErrorHandler
	target       string

	mu     sync.Mutex
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce window for coalescing events.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debouncer = NewDebouncer(d)
		}
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = handler
	}
}

// New creates a Watcher following the file at path. The directory must
// exist; the file itself may not yet.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		debouncer: NewDebouncer(DefaultDebounceDuration),
		handler:   handler,
		target:    target,
	}
	for _, opt := range opts {
		opt(w)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fs = fs

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fs.Close()
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Target returns the absolute path of the followed file.
func (w *Watcher) Target() string {
	return w.target
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.debouncer.Cancel()
	return w.fs.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Name != w.target {
		return
	}
	// Atomic writes surface as Create (rename into place); direct writes
	// and deletions matter too. Chmod alone is noise.
	if !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) &&
		!event.Op.Has(fsnotify.Rename) {
		return
	}

	w.debouncer.Trigger(func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		if w.handler != nil {
			w.handler()
		}
	})
}
