// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within codenote.
package eventbus

import (
	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/notify"
)

// ActiveViewChangedPayload is emitted when focus moves to another view.
// View is nil when no view has focus.
type ActiveViewChangedPayload struct {
	View *editor.View
}

// ConfigReloadedPayload is emitted when configuration is reloaded.
type ConfigReloadedPayload struct {
	Config *config.Config
}

// ChangeKind describes a note mutation.
type ChangeKind string

const (
	ChangeAdded         ChangeKind = "added"
	ChangeTextUpdated   ChangeKind = "text-updated"
	ChangeStatusUpdated ChangeKind = "status-updated"
	ChangeRemoved       ChangeKind = "removed"
	ChangeBulk          ChangeKind = "bulk"
	ChangeExternal      ChangeKind = "external"
)

// NotesChangedPayload is emitted after the note store is modified. NoteID is
// empty for bulk and external changes.
type NotesChangedPayload struct {
	Kind   ChangeKind
	NoteID string
}

// NotificationPublishedPayload is emitted when a user-facing message should be shown.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}

// TUIStartedPayload is emitted when the TUI starts.
type TUIStartedPayload struct{}

// TUIStoppedPayload is emitted when the TUI stops.
type TUIStoppedPayload struct{}
