package eventbus

import (
	"fmt"

	"github.com/colonyops/codenote/internal/core/notify"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeNotesChanged(func(p NotesChangedPayload) {
		switch p.Kind {
		case ChangeAdded:
			r.notifyf(notify.LevelInfo, "note %s added", p.NoteID)
		case ChangeTextUpdated:
			r.notifyf(notify.LevelInfo, "note %s updated", p.NoteID)
		case ChangeStatusUpdated:
			r.notifyf(notify.LevelInfo, "note %s status changed", p.NoteID)
		case ChangeRemoved:
			r.notifyf(notify.LevelInfo, "note %s removed", p.NoteID)
		case ChangeBulk:
			r.notifyf(notify.LevelInfo, "all notes updated")
		case ChangeExternal:
			r.notifyf(notify.LevelInfo, "notes reloaded from disk")
		}
	})

	r.bus.SubscribeConfigReloaded(func(p ConfigReloadedPayload) {
		if p.Config == nil {
			return
		}
		if !p.Config.Decoration.IsEnabled() {
			r.notifyf(notify.LevelWarning, "configuration reloaded: decorations disabled")
			return
		}
		r.notifyf(notify.LevelInfo, "configuration reloaded")
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
