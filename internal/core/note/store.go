package note

import (
	"context"
	"errors"
)

// Sentinel errors for note operations.
var (
	ErrNoteNotFound = errors.New("note not found")
)

// NewNote holds the fields a caller supplies when creating a note.
type NewNote struct {
	FileName      string
	PositionStart Position
	PositionEnd   Position
	Text          string
	CodeSnippet   string
}

// Lister supplies the current note snapshot.
type Lister interface {
	// List returns all notes in creation order.
	List(ctx context.Context) ([]Note, error)
}

// Store defines persistence operations for notes.
type Store interface {
	Lister

	// Get returns the note with the given ID.
	// Returns ErrNoteNotFound if not found.
	Get(ctx context.Context, id string) (Note, error)

	// Add creates a pending note and returns it with its assigned ID.
	Add(ctx context.Context, n NewNote) (Note, error)

	// UpdateText replaces the text of a note.
	// Returns ErrNoteNotFound if not found.
	UpdateText(ctx context.Context, id string, text string) error

	// UpdateStatus sets the status of a note.
	// Returns ErrNoteNotFound if not found.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// SetAllStatus sets the status of every note.
	SetAllStatus(ctx context.Context, status Status) error

	// Remove deletes a note.
	// Returns ErrNoteNotFound if not found.
	Remove(ctx context.Context, id string) error

	// RemoveAll deletes every note.
	RemoveAll(ctx context.Context) error
}

// Importer is implemented by stores that add a batch of notes in one step.
// Imported notes get fresh IDs. Done notes stay done; every other status is
// stored as pending. Either every note is added or none is.
type Importer interface {
	Import(ctx context.Context, notes []Note) ([]Note, error)
}
