package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the view and note IDs stored with WithViewID and
// WithNoteID onto every event logged with that context.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetViewID(ctx); id != "" {
		e.Str("view_id", id)
	}
	if id := GetNoteID(ctx); id != "" {
		e.Str("note_id", id)
	}
}
