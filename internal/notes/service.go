// Package notes is the application service over the note store. Every
// mutation made through it is announced on the event bus so that rendered
// decorations follow the stored state.
package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/action"
	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/logging"
	"github.com/colonyops/codenote/internal/core/note"
)

// Prompt asks the user for a replacement text for n. ok is false when the
// user cancelled.
type Prompt func(ctx context.Context, n note.Note) (text string, ok bool, err error)

// Service wraps a note.Store and publishes notes.changed after each
// successful mutation.
type Service struct {
	store  note.Store
	bus    *eventbus.EventBus
	logger zerolog.Logger
}

var _ note.Store = (*Service)(nil)

// New creates a service. bus may be nil for one-shot commands that have no
// subscribers.
func New(store note.Store, bus *eventbus.EventBus, logger zerolog.Logger) *Service {
	return &Service{store: store, bus: bus, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]note.Note, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (note.Note, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Add(ctx context.Context, nn note.NewNote) (note.Note, error) {
	if nn.FileName == "" {
		return note.Note{}, fmt.Errorf("file name is required")
	}
	if nn.PositionEnd.Before(nn.PositionStart) {
		return note.Note{}, fmt.Errorf("range end %s is before start %s", nn.PositionEnd, nn.PositionStart)
	}

	n, err := s.store.Add(ctx, nn)
	if err != nil {
		return note.Note{}, err
	}

	s.publish(ctx, eventbus.ChangeAdded, n.ID)
	return n, nil
}

func (s *Service) UpdateText(ctx context.Context, id string, text string) error {
	if err := s.store.UpdateText(ctx, id, text); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChangeTextUpdated, id)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status note.Status) error {
	if !status.Known() {
		return fmt.Errorf("%w: status must be pending or done", action.ErrInvalidArgs)
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChangeStatusUpdated, id)
	return nil
}

func (s *Service) SetAllStatus(ctx context.Context, status note.Status) error {
	if !status.Known() {
		return fmt.Errorf("%w: status must be pending or done", action.ErrInvalidArgs)
	}
	if err := s.store.SetAllStatus(ctx, status); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChangeBulk, "")
	return nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChangeRemoved, id)
	return nil
}

func (s *Service) RemoveAll(ctx context.Context) error {
	if err := s.store.RemoveAll(ctx); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChangeBulk, "")
	return nil
}

// Import adds notes in export format. Stores that implement note.Importer
// add them atomically; otherwise each note is added on its own and failures
// are collected. It returns how many notes were added and publishes one bulk
// change when any were.
func (s *Service) Import(ctx context.Context, in []note.Note) (int, error) {
	if imp, ok := s.store.(note.Importer); ok {
		out, err := imp.Import(ctx, in)
		if err != nil {
			return 0, err
		}
		if len(out) > 0 {
			s.publish(ctx, eventbus.ChangeBulk, "")
		}
		return len(out), nil
	}

	var (
		added int
		errs  []error
	)
	for i, src := range in {
		n, err := s.store.Add(ctx, note.NewNote{
			FileName:      src.FileName,
			PositionStart: src.PositionStart,
			PositionEnd:   src.PositionEnd,
			Text:          src.Text,
			CodeSnippet:   src.CodeSnippet,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("note %d: %w", i, err))
			continue
		}
		added++

		if src.Status == note.StatusDone {
			if err := s.store.UpdateStatus(ctx, n.ID, note.StatusDone); err != nil {
				errs = append(errs, fmt.Errorf("note %d status: %w", i, err))
			}
		}
	}

	if added > 0 {
		s.publish(ctx, eventbus.ChangeBulk, "")
	}
	return added, errors.Join(errs...)
}

// EditText prompts for a new text for the note with id and stores it. A
// cancelled prompt or an unchanged text leaves the note untouched.
func (s *Service) EditText(ctx context.Context, id string, prompt Prompt) error {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	text, ok, err := prompt(ctx, n)
	if err != nil {
		return fmt.Errorf("prompt note text: %w", err)
	}
	if !ok || text == n.Text {
		return nil
	}

	return s.UpdateText(ctx, id, text)
}

// Handlers binds the hover commands to this service. prompt supplies the
// replacement text for the edit command.
func (s *Service) Handlers(prompt Prompt) action.Handlers {
	return action.Handlers{
		EditNoteText: func(ctx context.Context, id string) error {
			return s.EditText(ctx, id, prompt)
		},
		RemoveNote:       s.Remove,
		UpdateNoteStatus: s.UpdateStatus,
	}
}

func (s *Service) publish(ctx context.Context, kind eventbus.ChangeKind, id string) {
	s.logger.Debug().
		Ctx(logging.WithNoteID(ctx, id)).
		Str("kind", string(kind)).
		Msg("notes changed")

	if s.bus == nil {
		return
	}
	s.bus.PublishNotesChanged(eventbus.NotesChangedPayload{Kind: kind, NoteID: id})
}
