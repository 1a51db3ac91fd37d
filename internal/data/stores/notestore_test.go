package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/data/db"
)

func newTestNoteStore(t *testing.T) *NoteStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err, "Open")
	t.Cleanup(func() { _ = database.Close() })

	store := NewNoteStore(database)

	// Deterministic, strictly increasing clock.
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

func sampleNewNote(file, text string) note.NewNote {
	return note.NewNote{
		FileName:      file,
		PositionStart: note.Position{Line: 2, Character: 0},
		PositionEnd:   note.Position{Line: 2, Character: 10},
		Text:          text,
		CodeSnippet:   "const x = 1",
	}
}

func TestNoteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("add and get", func(t *testing.T) {
		store := newTestNoteStore(t)

		added, err := store.Add(ctx, sampleNewNote("/a.ts", "fix this"))
		require.NoError(t, err, "Add")
		assert.NotEmpty(t, added.ID)
		assert.Equal(t, note.StatusPending, added.Status)
		assert.Equal(t, added.CreatedAt, added.UpdatedAt)

		got, err := store.Get(ctx, added.ID)
		require.NoError(t, err, "Get")
		assert.Equal(t, added.ID, got.ID)
		assert.Equal(t, "/a.ts", got.FileName)
		assert.Equal(t, note.Position{Line: 2, Character: 0}, got.PositionStart)
		assert.Equal(t, note.Position{Line: 2, Character: 10}, got.PositionEnd)
		assert.Equal(t, "fix this", got.Text)
		assert.Equal(t, "const x = 1", got.CodeSnippet)
		assert.Equal(t, note.StatusPending, got.Status)
		assert.True(t, added.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("get not found", func(t *testing.T) {
		store := newTestNoteStore(t)

		_, err := store.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, note.ErrNoteNotFound)
	})

	t.Run("list in creation order", func(t *testing.T) {
		store := newTestNoteStore(t)

		notes, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)

		first, err := store.Add(ctx, sampleNewNote("/b.ts", "first"))
		require.NoError(t, err)
		second, err := store.Add(ctx, sampleNewNote("/a.ts", "second"))
		require.NoError(t, err)

		notes, err = store.List(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, first.ID, notes[0].ID)
		assert.Equal(t, second.ID, notes[1].ID)
	})

	t.Run("update text", func(t *testing.T) {
		store := newTestNoteStore(t)

		added, err := store.Add(ctx, sampleNewNote("/a.ts", "old"))
		require.NoError(t, err)

		require.NoError(t, store.UpdateText(ctx, added.ID, "new"))

		got, err := store.Get(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Text)
		assert.True(t, got.UpdatedAt.After(added.UpdatedAt))

		assert.ErrorIs(t, store.UpdateText(ctx, "missing", "x"), note.ErrNoteNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		store := newTestNoteStore(t)

		added, err := store.Add(ctx, sampleNewNote("/a.ts", "x"))
		require.NoError(t, err)

		require.NoError(t, store.UpdateStatus(ctx, added.ID, note.StatusDone))

		got, err := store.Get(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, note.StatusDone, got.Status)

		assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", note.StatusDone), note.ErrNoteNotFound)
	})

	t.Run("set all status", func(t *testing.T) {
		store := newTestNoteStore(t)

		for _, text := range []string{"a", "b", "c"} {
			_, err := store.Add(ctx, sampleNewNote("/a.ts", text))
			require.NoError(t, err)
		}

		require.NoError(t, store.SetAllStatus(ctx, note.StatusDone))

		notes, err := store.List(ctx)
		require.NoError(t, err)
		for _, n := range notes {
			assert.Equal(t, note.StatusDone, n.Status, "note %s", n.Text)
		}
	})

	t.Run("unknown stored status", func(t *testing.T) {
		store := newTestNoteStore(t)

		added, err := store.Add(ctx, sampleNewNote("/a.ts", "x"))
		require.NoError(t, err)

		_, err = store.db.Conn().ExecContext(ctx, "UPDATE notes SET status = 'archived' WHERE id = ?", added.ID)
		require.NoError(t, err)

		got, err := store.Get(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, note.StatusUnknown, got.Status)
	})

	t.Run("remove", func(t *testing.T) {
		store := newTestNoteStore(t)

		keep, err := store.Add(ctx, sampleNewNote("/a.ts", "keep"))
		require.NoError(t, err)
		drop, err := store.Add(ctx, sampleNewNote("/a.ts", "drop"))
		require.NoError(t, err)

		require.NoError(t, store.Remove(ctx, drop.ID))
		assert.ErrorIs(t, store.Remove(ctx, drop.ID), note.ErrNoteNotFound)

		notes, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, keep.ID, notes[0].ID)
	})

	t.Run("remove all", func(t *testing.T) {
		store := newTestNoteStore(t)

		for range 3 {
			_, err := store.Add(ctx, sampleNewNote("/a.ts", "x"))
			require.NoError(t, err)
		}

		require.NoError(t, store.RemoveAll(ctx))

		notes, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestNoteStore_Import(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	in := []note.Note{
		{ID: "old-1", FileName: "/a.ts", Text: "first", Status: note.StatusPending},
		{ID: "old-2", FileName: "/b.ts", Text: "second", Status: note.StatusDone},
		{ID: "old-3", FileName: "/c.ts", Text: "third", Status: note.StatusUnknown},
	}

	out, err := store.Import(ctx, in)
	require.NoError(t, err)
	require.Len(t, out, 3)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{listed[0].Text, listed[1].Text, listed[2].Text})
	assert.Equal(t, []note.Status{note.StatusPending, note.StatusDone, note.StatusPending},
		[]note.Status{listed[0].Status, listed[1].Status, listed[2].Status})
	for i, n := range listed {
		assert.NotEqual(t, in[i].ID, n.ID, "import assigns fresh IDs")
		assert.Equal(t, out[i].ID, n.ID)
	}
}

func TestNoteStore_ImportIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	_, err := store.db.Conn().ExecContext(ctx, `
		CREATE TRIGGER reject_bad BEFORE INSERT ON notes WHEN NEW.text = 'bad'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`)
	require.NoError(t, err)

	_, err = store.Import(ctx, []note.Note{
		{FileName: "/a.ts", Text: "good"},
		{FileName: "/a.ts", Text: "bad"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note 1")

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestNoteStore_WriteRetriesBusy(t *testing.T) {
	ctx := context.Background()
	errLocked := errors.New("database is locked")

	store := newTestNoteStore(t)
	store.busy = func(err error) bool { return errors.Is(err, errLocked) }

	t.Run("succeeds after busy", func(t *testing.T) {
		calls := 0
		err := store.write(ctx, func() error {
			calls++
			if calls < 3 {
				return errLocked
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := store.write(ctx, func() error {
			calls++
			return errLocked
		})
		require.ErrorIs(t, err, ErrBusy)
		require.ErrorIs(t, err, errLocked)
		assert.Equal(t, busyAttempts, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := store.write(ctx, func() error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrBusy)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := store.write(cctx, func() error { return errLocked })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
