// Package stores implements domain stores on top of the sqlite database.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/data/db"
)

const noteColumns = `id, file_name, start_line, start_character, end_line, end_character,
	text, code_snippet, status, created_at, updated_at`

const insertNote = "INSERT INTO notes (" + noteColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const (
	busyAttempts = 4
	busyBackoff  = 25 * time.Millisecond
)

// NoteStore implements note.Store using SQLite.
type NoteStore struct {
	db   *db.DB
	now  func() time.Time
	busy func(error) bool
}

var (
	_ note.Store    = (*NoteStore)(nil)
	_ note.Importer = (*NoteStore)(nil)
)

// NewNoteStore creates a new SQLite-backed note store.
func NewNoteStore(db *db.DB) *NoteStore {
	return &NoteStore{db: db, now: time.Now, busy: IsBusyError}
}

// List returns all notes in creation order.
func (s *NoteStore) List(ctx context.Context) ([]note.Note, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notes := make([]note.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

// Get returns a note by ID. Returns note.ErrNoteNotFound if not found.
func (s *NoteStore) Get(ctx context.Context, id string) (note.Note, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	n, err := scanNote(row)
	if IsNotFoundError(err) {
		return note.Note{}, note.ErrNoteNotFound
	}
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to get note: %w", err)
	}

	return n, nil
}

// Add creates a pending note with a fresh ID.
func (s *NoteStore) Add(ctx context.Context, nn note.NewNote) (note.Note, error) {
	n := s.newNote(nn, note.StatusPending)

	err := s.write(ctx, func() error {
		_, err := s.db.Conn().ExecContext(ctx, insertNote, noteArgs(n)...)
		return err
	})
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to add note: %w", err)
	}

	return n, nil
}

// Import inserts every note with a fresh ID in one transaction. Done notes
// stay done; any other status is stored as pending.
func (s *NoteStore) Import(ctx context.Context, in []note.Note) ([]note.Note, error) {
	out := make([]note.Note, 0, len(in))

	err := s.write(ctx, func() error {
		out = out[:0]
		return s.db.WithTx(ctx, func(tx *sql.Tx) error {
			stmt, err := tx.PrepareContext(ctx, insertNote)
			if err != nil {
				return err
			}
			defer func() { _ = stmt.Close() }()

			for i, src := range in {
				status := note.StatusPending
				if src.Status == note.StatusDone {
					status = note.StatusDone
				}
				n := s.newNote(note.NewNote{
					FileName:      src.FileName,
					PositionStart: src.PositionStart,
					PositionEnd:   src.PositionEnd,
					Text:          src.Text,
					CodeSnippet:   src.CodeSnippet,
				}, status)

				if _, err := stmt.ExecContext(ctx, noteArgs(n)...); err != nil {
					return fmt.Errorf("note %d: %w", i, err)
				}
				out = append(out, n)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import notes: %w", err)
	}

	return out, nil
}

func (s *NoteStore) newNote(nn note.NewNote, status note.Status) note.Note {
	now := s.now()
	return note.Note{
		ID:            uuid.NewString(),
		FileName:      nn.FileName,
		PositionStart: nn.PositionStart,
		PositionEnd:   nn.PositionEnd,
		Text:          nn.Text,
		CodeSnippet:   nn.CodeSnippet,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func noteArgs(n note.Note) []any {
	return []any{
		n.ID, n.FileName,
		n.PositionStart.Line, n.PositionStart.Character,
		n.PositionEnd.Line, n.PositionEnd.Character,
		n.Text, n.CodeSnippet, n.Status.String(),
		n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano(),
	}
}

// UpdateText replaces the text of a note.
func (s *NoteStore) UpdateText(ctx context.Context, id string, text string) error {
	return s.updateOne(ctx, "text", text, id)
}

// UpdateStatus sets the status of a note.
func (s *NoteStore) UpdateStatus(ctx context.Context, id string, status note.Status) error {
	return s.updateOne(ctx, "status", status.String(), id)
}

// SetAllStatus sets the status of every note.
func (s *NoteStore) SetAllStatus(ctx context.Context, status note.Status) error {
	err := s.write(ctx, func() error {
		return s.db.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				"UPDATE notes SET status = ?, updated_at = ?",
				status.String(), s.now().UnixNano())
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	return nil
}

// Remove deletes a note. Returns note.ErrNoteNotFound if not found.
func (s *NoteStore) Remove(ctx context.Context, id string) error {
	var res sql.Result
	err := s.write(ctx, func() (err error) {
		res, err = s.db.Conn().ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove note: %w", err)
	}
	return requireAffected(res)
}

// RemoveAll deletes every note.
func (s *NoteStore) RemoveAll(ctx context.Context) error {
	err := s.write(ctx, func() error {
		return s.db.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM notes")
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("failed to remove notes: %w", err)
	}
	return nil
}

// updateOne sets column on the note with id. column is never user input.
func (s *NoteStore) updateOne(ctx context.Context, column string, value any, id string) error {
	var res sql.Result
	err := s.write(ctx, func() (err error) {
		res, err = s.db.Conn().ExecContext(ctx,
			"UPDATE notes SET "+column+" = ?, updated_at = ? WHERE id = ?",
			value, s.now().UnixNano(), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", column, err)
	}
	return requireAffected(res)
}

// write runs fn, retrying with backoff while sqlite reports the database as
// busy. The last busy error is wrapped in ErrBusy.
func (s *NoteStore) write(ctx context.Context, fn func() error) error {
	wait := busyBackoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !s.busy(err) {
			return err
		}
		if attempt == busyAttempts {
			return fmt.Errorf("%w: %w", ErrBusy, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanNote converts a notes row to a note.Note.
func scanNote(row rowScanner) (note.Note, error) {
	var (
		n                    note.Note
		status               string
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&n.ID, &n.FileName,
		&n.PositionStart.Line, &n.PositionStart.Character,
		&n.PositionEnd.Line, &n.PositionEnd.Character,
		&n.Text, &n.CodeSnippet, &status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return note.Note{}, err
	}

	n.Status = note.ParseStatus(status)
	n.CreatedAt = time.Unix(0, createdAt)
	n.UpdatedAt = time.Unix(0, updatedAt)

	return n, nil
}
