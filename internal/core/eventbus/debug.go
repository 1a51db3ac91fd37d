package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity: publishes at debug level with the
// payload's identifying fields, drops as warnings, subscriber panics as
// errors.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		payloadFields(e, payload).Msg("event published")
	})

	bus.OnDrop(func(event Event, payload any) {
		e := logger.Warn().Str("event", string(event))
		payloadFields(e, payload).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func payloadFields(e *zerolog.Event, payload any) *zerolog.Event {
	switch p := payload.(type) {
	case ActiveViewChangedPayload:
		if p.View != nil {
			e = e.Str("view_id", p.View.ID).Str("file", p.View.FileName)
		}
	case NotesChangedPayload:
		e = e.Str("kind", string(p.Kind))
		if p.NoteID != "" {
			e = e.Str("note_id", p.NoteID)
		}
	case NotificationPublishedPayload:
		e = e.Str("level", string(p.Level))
	}
	return e
}
