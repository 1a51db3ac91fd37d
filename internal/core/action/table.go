// Package action defines the closed set of commands that hover content may
// invoke and dispatches command links to their handlers.
package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/note"
)

// Hover command names. These are the only commands that may appear as
// links in hover content.
const (
	CommandEditNoteText     = "codenote.editNoteText"
	CommandRemoveNote       = "codenote.removeNote"
	CommandUpdateNoteStatus = "codenote.updateNoteStatus"
)

var hoverCommands = []string{
	CommandEditNoteText,
	CommandRemoveNote,
	CommandUpdateNoteStatus,
}

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrCommandNotEnabled = errors.New("command not enabled for this content")
	ErrInvalidArgs       = errors.New("invalid command arguments")
)

// HoverCommands returns the names hover content is allowed to enable.
func HoverCommands() []string {
	out := make([]string, len(hoverCommands))
	copy(out, hoverCommands)
	return out
}

// IsHoverCommand reports whether name is one of the hover commands.
func IsHoverCommand(name string) bool {
	for _, c := range hoverCommands {
		if c == name {
			return true
		}
	}
	return false
}

// StatusArgs is the payload of CommandUpdateNoteStatus.
type StatusArgs struct {
	ID     string      `json:"id"`
	Status note.Status `json:"status"`
}

// Handlers implements the hover commands.
type Handlers struct {
	EditNoteText     func(ctx context.Context, id string) error
	RemoveNote       func(ctx context.Context, id string) error
	UpdateNoteStatus func(ctx context.Context, id string, status note.Status) error
}

// Table maps hover command names to handlers.
type Table struct {
	handlers map[string]func(ctx context.Context, raw string) error
}

// NewTable builds a table from h. Nil handlers leave their command
// unregistered; executing it returns ErrUnknownCommand.
func NewTable(h Handlers) *Table {
	t := &Table{handlers: make(map[string]func(context.Context, string) error, len(hoverCommands))}

	if h.EditNoteText != nil {
		t.handlers[CommandEditNoteText] = func(ctx context.Context, raw string) error {
			id, err := decodeID(raw)
			if err != nil {
				return err
			}
			return h.EditNoteText(ctx, id)
		}
	}

	if h.RemoveNote != nil {
		t.handlers[CommandRemoveNote] = func(ctx context.Context, raw string) error {
			id, err := decodeID(raw)
			if err != nil {
				return err
			}
			return h.RemoveNote(ctx, id)
		}
	}

	if h.UpdateNoteStatus != nil {
		t.handlers[CommandUpdateNoteStatus] = func(ctx context.Context, raw string) error {
			var args StatusArgs
			if err := DecodeArgs(raw, &args); err != nil {
				return err
			}
			if args.ID == "" {
				return fmt.Errorf("%w: id is required", ErrInvalidArgs)
			}
			if !args.Status.Known() {
				return fmt.Errorf("%w: status must be pending or done", ErrInvalidArgs)
			}
			return h.UpdateNoteStatus(ctx, args.ID, args.Status)
		}
	}

	return t
}

func decodeID(raw string) (string, error) {
	var id string
	if err := DecodeArgs(raw, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: id is required", ErrInvalidArgs)
	}
	return id, nil
}

// Has reports whether name has a registered handler.
func (t *Table) Has(name string) bool {
	_, ok := t.handlers[name]
	return ok
}

// Execute runs the handler for a parsed link.
func (t *Table) Execute(ctx context.Context, inv Invocation) error {
	fn, ok := t.handlers[inv.Command]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, inv.Command)
	}
	return fn(ctx, inv.RawArgs)
}

// ExecuteLink parses and runs a command link.
func (t *Table) ExecuteLink(ctx context.Context, link string) error {
	inv, err := ParseLink(link)
	if err != nil {
		return err
	}
	return t.Execute(ctx, inv)
}

// ExecuteFrom runs a link found inside content. The link only runs when the
// content is trusted and enables the link's command.
func (t *Table) ExecuteFrom(ctx context.Context, content editor.MarkdownString, link string) error {
	inv, err := ParseLink(link)
	if err != nil {
		return err
	}
	if !content.Allows(inv.Command) {
		return fmt.Errorf("%w: %s", ErrCommandNotEnabled, inv.Command)
	}
	return t.Execute(ctx, inv)
}
