package eventbus

import "sync"

type (
	eventHook func(Event, any)
	panicHook func(Event, any, any)
)

// hooks holds the lifecycle hook state for the EventBus.
type hooks struct {
	mu        sync.RWMutex
	onPublish []eventHook
	onDrop    []eventHook
	onPanic   []panicHook
}

// OnPublish registers a hook that fires after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPublish = append(bus.hooks.onPublish, fn)
	bus.hooks.mu.Unlock()
}

// OnDrop registers a hook that fires when an event is dropped because the
// queue is full.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onDrop = append(bus.hooks.onDrop, fn)
	bus.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when a subscriber panics. A panicking
// hook is ignored.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPanic = append(bus.hooks.onPanic, fn)
	bus.hooks.mu.Unlock()
}

// send enqueues an event without blocking and fires the publish or drop
// hooks.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.fire(func(h *hooks) []eventHook { return h.onPublish }, event, payload)
	default:
		bus.fire(func(h *hooks) []eventHook { return h.onDrop }, event, payload)
	}
}

func (bus *EventBus) fire(pick func(*hooks) []eventHook, event Event, payload any) {
	bus.hooks.mu.RLock()
	fns := append([]eventHook(nil), pick(&bus.hooks)...)
	bus.hooks.mu.RUnlock()

	for _, fn := range fns {
		fn(event, payload)
	}
}

func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	bus.hooks.mu.RLock()
	fns := append([]panicHook(nil), bus.hooks.onPanic...)
	bus.hooks.mu.RUnlock()

	for _, fn := range fns {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}
