package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/eventbus/testbus"
	"github.com/colonyops/codenote/internal/core/note"
)

func newTestStore(t *testing.T) *NoteStore {
	t.Helper()
	return NewNoteStore(filepath.Join(t.TempDir(), "notes.json"))
}

func newNote(file, text string) note.NewNote {
	return note.NewNote{
		FileName:      file,
		PositionStart: note.Position{Line: 1, Character: 4},
		PositionEnd:   note.Position{Line: 3, Character: 0},
		Text:          text,
	}
}

func TestNoteStore_EmptyFile(t *testing.T) {
	store := newTestStore(t)

	notes, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)

	_, err = store.Get(context.Background(), "1")
	assert.ErrorIs(t, err, note.ErrNoteNotFound)
}

func TestNoteStore_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Add(ctx, newNote("/a.ts", "one"))
	require.NoError(t, err)
	second, err := store.Add(ctx, newNote("/b.ts", "two"))
	require.NoError(t, err)

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, note.StatusPending, first.Status)

	require.NoError(t, store.Remove(ctx, second.ID))
	third, err := store.Add(ctx, newNote("/c.ts", "three"))
	require.NoError(t, err)
	assert.Equal(t, "3", third.ID, "ids are never reused")

	require.NoError(t, store.RemoveAll(ctx))
	fourth, err := store.Add(ctx, newNote("/d.ts", "four"))
	require.NoError(t, err)
	assert.Equal(t, "4", fourth.ID)
}

func TestNoteStore_Mutations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	added, err := store.Add(ctx, newNote("/a.ts", "old"))
	require.NoError(t, err)

	require.NoError(t, store.UpdateText(ctx, added.ID, "new"))
	require.NoError(t, store.UpdateStatus(ctx, added.ID, note.StatusDone))

	got, err := store.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)
	assert.Equal(t, note.StatusDone, got.Status)

	assert.ErrorIs(t, store.UpdateText(ctx, "99", "x"), note.ErrNoteNotFound)
	assert.ErrorIs(t, store.UpdateStatus(ctx, "99", note.StatusDone), note.ErrNoteNotFound)
	assert.ErrorIs(t, store.Remove(ctx, "99"), note.ErrNoteNotFound)
}

func TestNoteStore_SetAllStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, text := range []string{"a", "b"} {
		_, err := store.Add(ctx, newNote("/a.ts", text))
		require.NoError(t, err)
	}

	require.NoError(t, store.SetAllStatus(ctx, note.StatusDone))

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, note.StatusDone, n.Status)
	}
}

func TestNoteStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Add(ctx, newNote("/a.ts", "one"))
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nextId": 2`)
	assert.Contains(t, string(data), `"fileName": "/a.ts"`)
	assert.Contains(t, string(data), `"status": "pending"`)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestNoteStore_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	doc := `{
  "notes": [
    {"id": "7", "fileName": "/x.go", "positionStart": {"line": 0, "character": 0},
     "positionEnd": {"line": 0, "character": 5}, "text": "legacy", "codeSnippet": "package x", "status": "done"},
    {"id": "8", "fileName": "/x.go", "positionStart": {"line": 1, "character": 0},
     "positionEnd": {"line": 1, "character": 5}, "text": "odd", "status": "archived"}
  ],
  "nextId": 9
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store := NewNoteStore(path)
	notes, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, note.StatusDone, notes[0].Status)
	assert.Equal(t, "package x", notes[0].CodeSnippet)
	assert.Equal(t, note.StatusUnknown, notes[1].Status)

	added, err := store.Add(context.Background(), newNote("/x.go", "new"))
	require.NoError(t, err)
	assert.Equal(t, "9", added.ID)
}

func TestNoteStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewNoteStore(path).List(context.Background())
	assert.Error(t, err)
}

func TestWatch_PublishesExternalChange(t *testing.T) {
	bus := testbus.New(t)
	store := newTestStore(t)

	w, err := Watch(store, bus.EventBus, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	other := NewNoteStore(store.Path())
	_, err = other.Add(context.Background(), newNote("/a.ts", "from elsewhere"))
	require.NoError(t, err)

	require.True(t, bus.WaitFor(eventbus.EventNotesChanged, 2*time.Second))

	events := bus.Events()
	require.NotEmpty(t, events)
	payload, ok := events[0].Payload.(eventbus.NotesChangedPayload)
	require.True(t, ok)
	assert.Equal(t, eventbus.ChangeExternal, payload.Kind)
}
