package notes

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/data/db"
	"github.com/colonyops/codenote/internal/data/stores"
	"github.com/colonyops/codenote/internal/store/jsonfile"
)

// Backend is an opened note store plus whatever must be released with it.
type Backend struct {
	Store note.Store

	closers []func() error
	json    *jsonfile.NoteStore
	sqlite  *db.DB
}

// Open opens the backend selected by cfg.Storage.Backend.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSON:
		store := jsonfile.NewNoteStore(cfg.NotesFile())
		return &Backend{Store: store, json: store}, nil

	case config.BackendSQLite, "":
		database, err := db.Open(cfg.DataDir, db.DefaultOpenOptions())
		if err != nil && stores.IsCorruptionError(err) {
			if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
				return nil, fmt.Errorf("recover corrupted database: %w", rerr)
			}
			database, err = db.Open(cfg.DataDir, db.DefaultOpenOptions())
		}
		if err != nil {
			return nil, fmt.Errorf("open note database: %w", err)
		}
		return &Backend{
			Store:   stores.NewNoteStore(database),
			closers: []func() error{database.Close},
			sqlite:  database,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Database returns the sqlite database, or nil for other backends.
func (b *Backend) Database() *db.DB {
	return b.sqlite
}

// WatchExternal publishes notes.changed when another process modifies the
// store. The JSON backend watches its notes file; sqlite watches the
// database and its write-ahead log.
func (b *Backend) WatchExternal(bus *eventbus.EventBus, logger zerolog.Logger) error {
	var closer func() error
	switch {
	case b.json != nil:
		w, err := jsonfile.Watch(b.json, bus, logger)
		if err != nil {
			return err
		}
		closer = w.Close
	case b.sqlite != nil:
		w, err := stores.Watch(b.sqlite, bus, logger)
		if err != nil {
			return err
		}
		closer = w.Close
	default:
		return nil
	}

	// Watchers stop before the database they observe closes.
	b.closers = append(b.closers, closer)
	return nil
}

// Close releases the backend in reverse acquisition order.
func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
