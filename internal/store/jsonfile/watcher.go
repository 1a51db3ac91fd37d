package jsonfile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/pkg/fswatch"
)

// Watcher publishes notes.changed when the notes file is modified outside
// this process, for example by another codenote invocation.
type Watcher struct {
	fw *fswatch.FileWatcher
}

// Watch starts watching the file behind store.
func Watch(store *NoteStore, bus *eventbus.EventBus, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fswatch.New(store.Path(), func() {
		logger.Debug().Str("path", store.Path()).Msg("notes file changed")
		bus.PublishNotesChanged(eventbus.NotesChangedPayload{Kind: eventbus.ChangeExternal})
	}, fswatch.WithErrorHandler(func(err error) {
		logger.Warn().Err(err).Msg("notes watcher error")
	}))
	if err != nil {
		return nil, fmt.Errorf("watch notes file: %w", err)
	}

	return &Watcher{fw: fw}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
