// Package fswatch notifies callers when individual files change on disk.
package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last filesystem event before
// a change is reported.
const DefaultDebounce = 50 * time.Millisecond

// FileWatcher watches a single file and calls a function once per burst of
// changes. The parent directory is watched so atomic replace-by-rename
// writes are observed.
type FileWatcher struct {
	path     string
	name     string
	watcher  *fsnotify.Watcher
	onChange func()
	onError  func(error)
	delay    time.Duration

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(fw *FileWatcher) { fw.delay = d }
}

// WithErrorHandler receives errors reported by the underlying watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(fw *FileWatcher) { fw.onError = fn }
}

// New starts watching path. The parent directory is created if it doesn't
// exist; the file itself may not exist yet.
func New(path string, onChange func(), opts ...Option) (*FileWatcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FileWatcher{
		path:     path,
		name:     filepath.Base(path),
		watcher:  watcher,
		onChange: onChange,
		onError:  func(error) {},
		delay:    DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(fw)
	}

	fw.wg.Add(1)
	go fw.run()

	return fw, nil
}

// Path returns the watched file path.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Close stops watching. Pending debounced notifications are discarded.
func (fw *FileWatcher) Close() error {
	fw.cancel()

	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
	fw.mu.Unlock()

	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

// run processes filesystem events from fsnotify.
func (fw *FileWatcher) run() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.onError(err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != fw.name {
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.ctx.Err() != nil {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.fire)
}

func (fw *FileWatcher) fire() {
	fw.mu.Lock()
	fw.timer = nil
	closed := fw.ctx.Err() != nil
	fw.mu.Unlock()

	if !closed {
		fw.onChange()
	}
}
