package decoration

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/eventbus"
)

// Coordinator re-renders decorations when the active view, the configuration
// or the note set changes. Events arrive on the bus goroutine one at a time,
// and each triggers exactly one full render pass.
type Coordinator struct {
	bus      *eventbus.EventBus
	renderer *Renderer
	logger   zerolog.Logger

	mu    sync.Mutex
	ctx   context.Context
	unsub []func()
}

// NewCoordinator creates a coordinator for renderer driven by bus.
func NewCoordinator(bus *eventbus.EventBus, renderer *Renderer, logger zerolog.Logger) *Coordinator {
	return &Coordinator{bus: bus, renderer: renderer, logger: logger}
}

// Activate renders once and subscribes to view, configuration and note
// change events. ctx is used for every render pass until Deactivate.
// Calling Activate on an active coordinator does nothing.
func (c *Coordinator) Activate(ctx context.Context) {
	c.mu.Lock()
	if c.unsub != nil {
		c.mu.Unlock()
		return
	}
	c.ctx = ctx
	c.unsub = []func(){
		c.bus.SubscribeActiveViewChanged(c.HandleActiveViewChanged),
		c.bus.SubscribeConfigReloaded(c.HandleConfigReloaded),
		c.bus.SubscribeNotesChanged(c.HandleNotesChanged),
	}
	c.mu.Unlock()

	c.logger.Debug().Msg("decorations activated")
	c.renderer.Render(ctx)
}

// Deactivate releases all subscriptions.
func (c *Coordinator) Deactivate() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()

	for _, fn := range unsub {
		fn()
	}
	c.logger.Debug().Msg("decorations deactivated")
}

// HandleActiveViewChanged renders every visible view when a view gained
// focus. Losing focus entirely (nil view) is ignored.
func (c *Coordinator) HandleActiveViewChanged(p eventbus.ActiveViewChangedPayload) {
	if p.View == nil {
		return
	}
	c.renderer.Render(c.context())
}

// HandleConfigReloaded drops the cached style and renders with the new
// configuration.
func (c *Coordinator) HandleConfigReloaded(eventbus.ConfigReloadedPayload) {
	c.renderer.InvalidateStyle()
	c.renderer.Render(c.context())
}

// HandleNotesChanged renders after the note store was modified.
func (c *Coordinator) HandleNotesChanged(eventbus.NotesChangedPayload) {
	c.renderer.Render(c.context())
}

func (c *Coordinator) context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}
