// Package decoration maps notes onto visible editor views as highlighted
// ranges with interactive hover content, and keeps them current as views and
// configuration change.
package decoration

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/logging"
	"github.com/colonyops/codenote/internal/core/note"
)

const styleKeyPrefix = "codenote.note"

// Renderer applies the current note snapshot to every visible view. Render
// passes are serialized; a pass never observes another pass half-applied.
type Renderer struct {
	surface editor.Surface
	notes   note.Lister
	config  *config.Provider
	hover   *HoverBuilder
	logger  zerolog.Logger

	mu         sync.Mutex
	style      *editor.DecorationStyle
	stale      bool
	generation int
}

// NewRenderer creates a renderer drawing on surface.
func NewRenderer(surface editor.Surface, notes note.Lister, provider *config.Provider, logger zerolog.Logger) *Renderer {
	return &Renderer{
		surface: surface,
		notes:   notes,
		config:  provider,
		hover:   NewHoverBuilder(logger),
		logger:  logger,
	}
}

// InvalidateStyle marks the cached decoration style stale. The next pass
// resolves a new style from the configuration and disposes the old one.
func (r *Renderer) InvalidateStyle() {
	r.mu.Lock()
	r.stale = true
	r.mu.Unlock()
}

// Render runs one pass over the visible views. When decorations are disabled
// it returns without touching any view. A failing view is logged and skipped;
// the remaining views are still rendered.
func (r *Renderer) Render(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := r.config.Current()
	if cfg == nil || !cfg.Decoration.IsEnabled() {
		return
	}

	notes, err := r.notes.List(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("list notes, skipping render pass")
		return
	}

	style := r.resolveStyle(cfg)
	views := r.surface.VisibleViews()

	for _, view := range views {
		opts := r.hover.Decorations(notes, view.FileName, cfg.Decoration.HoverStyle)
		if err := r.apply(view, style, opts); err != nil {
			r.logger.Warn().Ctx(logging.WithViewID(ctx, view.ID)).
				Err(err).
				Str("file", view.FileName).
				Msg("set decorations failed")
		}
	}

	r.logger.Debug().
		Int("views", len(views)).
		Int("notes", len(notes)).
		Str("style", style.Key).
		Msg("render pass complete")
}

func (r *Renderer) apply(view editor.View, style editor.DecorationStyle, opts []editor.DecorationOptions) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("surface panicked: %v", rec)
		}
	}()
	return r.surface.SetDecorations(view, style, opts)
}

// resolveStyle returns the cached style, rebuilding it from cfg after an
// invalidation. Must be called with r.mu held.
func (r *Renderer) resolveStyle(cfg *config.Config) editor.DecorationStyle {
	if r.style != nil && !r.stale {
		return *r.style
	}

	if r.style != nil {
		r.surface.DisposeStyle(*r.style)
	}

	r.generation++
	style := StyleFromConfig(cfg.Decoration, fmt.Sprintf("%s.%d", styleKeyPrefix, r.generation))
	r.style = &style
	r.stale = false

	return style
}

// StyleFromConfig derives the decoration style from configuration. Missing
// colors produce empty values, which surfaces treat as their default.
func StyleFromConfig(d config.DecorationConfig, key string) editor.DecorationStyle {
	return editor.DecorationStyle{
		Key:   key,
		Dark:  editor.ThemableStyle{BackgroundColor: d.Colors.Dark},
		Light: editor.ThemableStyle{BackgroundColor: d.Colors.Light},
	}
}

// Decorations selects the notes anchored to fileName, in snapshot order, and
// pairs each range with its hover content. The match is an exact string
// comparison; no path normalization is applied. The result is never nil.
func (b *HoverBuilder) Decorations(notes []note.Note, fileName, hoverStyle string) []editor.DecorationOptions {
	opts := make([]editor.DecorationOptions, 0)
	for _, n := range notes {
		if n.FileName != fileName {
			continue
		}
		opts = append(opts, editor.DecorationOptions{
			Range:        n.Range(),
			HoverMessage: b.Build(n, hoverStyle),
		})
	}
	return opts
}
