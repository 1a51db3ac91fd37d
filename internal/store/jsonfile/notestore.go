// Package jsonfile stores notes in a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/colonyops/codenote/internal/core/note"
)

// NotesFile is the root JSON structure stored on disk.
type NotesFile struct {
	Notes  []note.Note `json:"notes"`
	NextID int         `json:"nextId"`
}

// NoteStore implements note.Store using a JSON file for persistence. IDs are
// sequential integers rendered as strings.
type NoteStore struct {
	path string
	now  func() time.Time
	mu   sync.RWMutex
}

var _ note.Store = (*NoteStore)(nil)

// NewNoteStore creates a new JSON file note store at the given path.
func NewNoteStore(path string) *NoteStore {
	return &NoteStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *NoteStore) Path() string {
	return s.path
}

// List returns all notes in creation order.
func (s *NoteStore) List(ctx context.Context) ([]note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	return file.Notes, nil
}

// Get returns a note by ID. Returns note.ErrNoteNotFound if not found.
func (s *NoteStore) Get(ctx context.Context, id string) (note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return note.Note{}, err
	}

	if i := file.index(id); i >= 0 {
		return file.Notes[i], nil
	}

	return note.Note{}, note.ErrNoteNotFound
}

// Add appends a pending note with the next sequential ID.
func (s *NoteStore) Add(ctx context.Context, nn note.NewNote) (note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return note.Note{}, err
	}

	now := s.now()
	n := note.Note{
		ID:            strconv.Itoa(file.NextID),
		FileName:      nn.FileName,
		PositionStart: nn.PositionStart,
		PositionEnd:   nn.PositionEnd,
		Text:          nn.Text,
		CodeSnippet:   nn.CodeSnippet,
		Status:        note.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	file.Notes = append(file.Notes, n)
	file.NextID++

	if err := s.save(file); err != nil {
		return note.Note{}, err
	}

	return n, nil
}

// UpdateText replaces the text of a note.
func (s *NoteStore) UpdateText(ctx context.Context, id string, text string) error {
	return s.update(id, func(n *note.Note) { n.Text = text })
}

// UpdateStatus sets the status of a note.
func (s *NoteStore) UpdateStatus(ctx context.Context, id string, status note.Status) error {
	return s.update(id, func(n *note.Note) { n.Status = status })
}

// SetAllStatus sets the status of every note.
func (s *NoteStore) SetAllStatus(ctx context.Context, status note.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	now := s.now()
	for i := range file.Notes {
		file.Notes[i].Status = status
		file.Notes[i].UpdatedAt = now
	}

	return s.save(file)
}

// Remove deletes a note. Returns note.ErrNoteNotFound if not found.
func (s *NoteStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	i := file.index(id)
	if i < 0 {
		return note.ErrNoteNotFound
	}
	file.Notes = append(file.Notes[:i], file.Notes[i+1:]...)

	return s.save(file)
}

// RemoveAll deletes every note. The ID counter is kept so IDs are never
// reused.
func (s *NoteStore) RemoveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	file.Notes = []note.Note{}

	return s.save(file)
}

func (s *NoteStore) update(id string, fn func(*note.Note)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	i := file.index(id)
	if i < 0 {
		return note.ErrNoteNotFound
	}
	fn(&file.Notes[i])
	file.Notes[i].UpdatedAt = s.now()

	return s.save(file)
}

func (f NotesFile) index(id string) int {
	for i, n := range f.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// load reads the notes file from disk.
// Returns an empty NotesFile if the file doesn't exist.
func (s *NoteStore) load() (NotesFile, error) {
	empty := NotesFile{Notes: []note.Note{}, NextID: 1}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return NotesFile{}, fmt.Errorf("read notes file: %w", err)
	}

	if len(data) == 0 {
		return empty, nil
	}

	var file NotesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return NotesFile{}, fmt.Errorf("parse notes file %s: %w", s.path, err)
	}

	if file.Notes == nil {
		file.Notes = []note.Note{}
	}
	if file.NextID < 1 {
		file.NextID = 1
	}

	return file, nil
}

// save writes the notes file to disk atomically.
func (s *NoteStore) save(file NotesFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write notes file: %w", err)
	}

	return os.Rename(tmp, s.path)
}
