package eventbus

import (
	"context"
	"sync"
)

// Event names a kind of event carried by the bus.
type Event string

// Event names. Keep list sorted A-Z.
const (
	EventActiveViewChanged     Event = "editor.active-view-changed"
	EventConfigReloaded        Event = "config.reloaded"
	EventNotesChanged          Event = "notes.changed"
	EventNotificationPublished Event = "notification.published"
	EventTuiStarted            Event = "tui.started"
	EventTuiStopped            Event = "tui.stopped"
)

type envelope struct {
	event   Event
	payload any
}

type subscriber struct {
	id uint64
	fn func(any)
}

// EventBus delivers events to subscribers on a single goroutine, strictly in
// publish order. A handler runs to completion before the next event is
// dispatched, so handlers never overlap.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu     sync.RWMutex
	nextID uint64
	subs   map[Event][]subscriber
}

// New creates a bus whose queue holds up to buffer pending events. Publishing
// to a full queue drops the event and fires the OnDrop hooks.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]subscriber),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]subscriber, len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, s := range subs {
		bus.call(env, s.fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

// subscribe registers fn for event and returns a function that removes it.
func (bus *EventBus) subscribe(event Event, fn func(any)) func() {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.subs[event] = append(bus.subs[event], subscriber{id: id, fn: fn})
	bus.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			bus.mu.Lock()
			defer bus.mu.Unlock()
			subs := bus.subs[event]
			for i, s := range subs {
				if s.id == id {
					bus.subs[event] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// SubscriberCount returns the number of handlers registered for event.
func (bus *EventBus) SubscriberCount(event Event) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[event])
}

// PublishActiveViewChanged publishes an editor.active-view-changed event.
func (bus *EventBus) PublishActiveViewChanged(p ActiveViewChangedPayload) {
	bus.send(EventActiveViewChanged, p)
}

// SubscribeActiveViewChanged registers fn for editor.active-view-changed events.
func (bus *EventBus) SubscribeActiveViewChanged(fn func(ActiveViewChangedPayload)) func() {
	return bus.subscribe(EventActiveViewChanged, func(p any) { fn(p.(ActiveViewChangedPayload)) })
}

// PublishConfigReloaded publishes a config.reloaded event.
func (bus *EventBus) PublishConfigReloaded(p ConfigReloadedPayload) {
	bus.send(EventConfigReloaded, p)
}

// SubscribeConfigReloaded registers fn for config.reloaded events.
func (bus *EventBus) SubscribeConfigReloaded(fn func(ConfigReloadedPayload)) func() {
	return bus.subscribe(EventConfigReloaded, func(p any) { fn(p.(ConfigReloadedPayload)) })
}

// PublishNotesChanged publishes a notes.changed event.
func (bus *EventBus) PublishNotesChanged(p NotesChangedPayload) {
	bus.send(EventNotesChanged, p)
}

// SubscribeNotesChanged registers fn for notes.changed events.
func (bus *EventBus) SubscribeNotesChanged(fn func(NotesChangedPayload)) func() {
	return bus.subscribe(EventNotesChanged, func(p any) { fn(p.(NotesChangedPayload)) })
}

// PublishNotificationPublished publishes a notification.published event.
func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

// SubscribeNotificationPublished registers fn for notification.published events.
func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) func() {
	return bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}

// PublishTuiStarted publishes a tui.started event.
func (bus *EventBus) PublishTuiStarted(p TUIStartedPayload) {
	bus.send(EventTuiStarted, p)
}

// SubscribeTuiStarted registers fn for tui.started events.
func (bus *EventBus) SubscribeTuiStarted(fn func(TUIStartedPayload)) func() {
	return bus.subscribe(EventTuiStarted, func(p any) { fn(p.(TUIStartedPayload)) })
}

// PublishTuiStopped publishes a tui.stopped event.
func (bus *EventBus) PublishTuiStopped(p TUIStoppedPayload) {
	bus.send(EventTuiStopped, p)
}

// SubscribeTuiStopped registers fn for tui.stopped events.
func (bus *EventBus) SubscribeTuiStopped(fn func(TUIStoppedPayload)) func() {
	return bus.subscribe(EventTuiStopped, func(p any) { fn(p.(TUIStoppedPayload)) })
}
