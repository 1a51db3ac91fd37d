package tui

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/codenote/internal/core/editor"
)

// ErrUnknownView is returned when decorations target a view that is not open.
var ErrUnknownView = errors.New("unknown view")

// Decoration is one decorated range as drawn on a view.
type Decoration struct {
	Style editor.DecorationStyle
	editor.DecorationOptions
}

// Surface is the terminal implementation of editor.Surface. The decoration
// renderer writes to it from the event bus goroutine and the bubbletea model
// reads snapshots on the UI goroutine.
type Surface struct {
	mu     sync.RWMutex
	views  []editor.View
	styles map[string]editor.DecorationStyle
	// sets holds per-view decorations keyed by style key.
	sets map[string]map[string][]editor.DecorationOptions

	changed chan struct{}
}

var _ editor.Surface = (*Surface)(nil)

// NewSurface creates a surface showing views in order.
func NewSurface(views []editor.View) *Surface {
	return &Surface{
		views:   slices.Clone(views),
		styles:  make(map[string]editor.DecorationStyle),
		sets:    make(map[string]map[string][]editor.DecorationOptions),
		changed: make(chan struct{}, 1),
	}
}

func (s *Surface) VisibleViews() []editor.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.views)
}

func (s *Surface) SetDecorations(view editor.View, style editor.DecorationStyle, opts []editor.DecorationOptions) error {
	s.mu.Lock()
	if !slices.Contains(s.views, view) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownView, view.ID)
	}

	byStyle, ok := s.sets[view.ID]
	if !ok {
		byStyle = make(map[string][]editor.DecorationOptions)
		s.sets[view.ID] = byStyle
	}
	s.styles[style.Key] = style
	byStyle[style.Key] = slices.Clone(opts)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Surface) DisposeStyle(style editor.DecorationStyle) {
	s.mu.Lock()
	delete(s.styles, style.Key)
	for _, byStyle := range s.sets {
		delete(byStyle, style.Key)
	}
	s.mu.Unlock()

	s.notify()
}

// Decorations returns the decorations drawn on the view with id, grouped by
// style key in sorted order and in the order they were set within a style.
func (s *Surface) Decorations(viewID string) []Decoration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStyle := s.sets[viewID]
	keys := make([]string, 0, len(byStyle))
	for k := range byStyle {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []Decoration
	for _, k := range keys {
		style := s.styles[k]
		for _, o := range byStyle[k] {
			out = append(out, Decoration{Style: style, DecorationOptions: o})
		}
	}
	return out
}

// WaitForChange blocks until decorations change.
func (s *Surface) WaitForChange() tea.Cmd {
	return func() tea.Msg {
		<-s.changed
		return decorationsChangedMsg{}
	}
}

func (s *Surface) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
