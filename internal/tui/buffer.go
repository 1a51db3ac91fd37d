package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// signalBuffer collects values produced off the UI goroutine and emits
// coalesced drain signals to the program.
type signalBuffer[T any] struct {
	mu     sync.Mutex
	items  []T
	signal chan struct{}
	msg    tea.Msg
}

// newSignalBuffer creates a buffer whose Wait command yields msg.
func newSignalBuffer[T any](msg tea.Msg) *signalBuffer[T] {
	return &signalBuffer[T]{
		signal: make(chan struct{}, 1),
		msg:    msg,
	}
}

// Push appends v and emits a non-blocking drain signal.
func (b *signalBuffer[T]) Push(v T) {
	b.mu.Lock()
	b.items = append(b.items, v)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered values and clears the buffer.
func (b *signalBuffer[T]) Drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}

	out := make([]T, len(b.items))
	copy(out, b.items)
	b.items = b.items[:0]
	return out
}

// Wait blocks until there are values ready to drain.
func (b *signalBuffer[T]) Wait() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return b.msg
	}
}
