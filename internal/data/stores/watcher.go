package stores

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/data/db"
	"github.com/colonyops/codenote/pkg/fswatch"
)

// Watcher publishes notes.changed when the database or its write-ahead log
// changes on disk. In WAL mode most commits only touch the -wal file.
type Watcher struct {
	watchers []*fswatch.FileWatcher
}

// Watch starts watching the files behind database.
func Watch(database *db.DB, bus *eventbus.EventBus, logger zerolog.Logger) (*Watcher, error) {
	w := &Watcher{}
	for _, path := range []string{database.Path(), database.WALPath()} {
		fw, err := fswatch.New(path, func() {
			logger.Debug().Str("path", path).Msg("note database changed")
			bus.PublishNotesChanged(eventbus.NotesChangedPayload{Kind: eventbus.ChangeExternal})
		}, fswatch.WithErrorHandler(func(err error) {
			logger.Warn().Err(err).Str("path", path).Msg("note database watcher error")
		}))
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
		w.watchers = append(w.watchers, fw)
	}
	return w, nil
}

// Close stops every file watcher.
func (w *Watcher) Close() error {
	var errs []error
	for _, fw := range w.watchers {
		errs = append(errs, fw.Close())
	}
	w.watchers = nil
	return errors.Join(errs...)
}
