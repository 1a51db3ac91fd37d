package decoration

import (
	"context"
	"errors"
	"sync"

	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/note"
)

type setCall struct {
	View  editor.View
	Style editor.DecorationStyle
	Opts  []editor.DecorationOptions
}

// fakeSurface records every call the renderer makes.
type fakeSurface struct {
	mu       sync.Mutex
	views    []editor.View
	calls    []setCall
	disposed []editor.DecorationStyle
	failFor  map[string]bool
	panicFor map[string]bool
}

func newFakeSurface(views ...editor.View) *fakeSurface {
	return &fakeSurface{views: views, failFor: map[string]bool{}, panicFor: map[string]bool{}}
}

func (f *fakeSurface) VisibleViews() []editor.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]editor.View, len(f.views))
	copy(out, f.views)
	return out
}

func (f *fakeSurface) SetDecorations(view editor.View, style editor.DecorationStyle, opts []editor.DecorationOptions) error {
	if f.panicFor[view.ID] {
		panic("surface exploded")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[view.ID] {
		return errors.New("view closed")
	}
	f.calls = append(f.calls, setCall{View: view, Style: style, Opts: opts})
	return nil
}

func (f *fakeSurface) DisposeStyle(style editor.DecorationStyle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed = append(f.disposed, style)
}

func (f *fakeSurface) Calls() []setCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]setCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeSurface) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// latest returns the most recent call for each view ID.
func (f *fakeSurface) latest() map[string]setCall {
	out := map[string]setCall{}
	for _, c := range f.Calls() {
		out[c.View.ID] = c
	}
	return out
}

type fakeNotes struct {
	mu    sync.Mutex
	notes []note.Note
	err   error
}

func (f *fakeNotes) List(context.Context) ([]note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]note.Note, len(f.notes))
	copy(out, f.notes)
	return out, nil
}

func (f *fakeNotes) Set(notes ...note.Note) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = notes
}
