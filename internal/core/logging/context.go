package logging

import "context"

type contextKey string

const (
	viewIDKey contextKey = "view_id"
	noteIDKey contextKey = "note_id"
)

// WithViewID adds an editor view ID to the context.
func WithViewID(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, viewIDKey, viewID)
}

// WithNoteID adds a note ID to the context.
func WithNoteID(ctx context.Context, noteID string) context.Context {
	return context.WithValue(ctx, noteIDKey, noteID)
}

// GetViewID retrieves the view ID from the context.
// Returns empty string if not present.
func GetViewID(ctx context.Context) string {
	if id, ok := ctx.Value(viewIDKey).(string); ok {
		return id
	}
	return ""
}

// GetNoteID retrieves the note ID from the context.
// Returns empty string if not present.
func GetNoteID(ctx context.Context) string {
	if id, ok := ctx.Value(noteIDKey).(string); ok {
		return id
	}
	return ""
}
