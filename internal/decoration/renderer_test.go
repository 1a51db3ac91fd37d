package decoration

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/note"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = "/tmp/codenote"
	return &cfg
}

func disabled(cfg *config.Config) *config.Config {
	off := false
	cfg.Decoration.Enabled = &off
	return cfg
}

func newTestRenderer(surface editor.Surface, notes note.Lister, cfg *config.Config) (*Renderer, *config.Provider) {
	provider := config.NewProvider(cfg)
	return NewRenderer(surface, notes, provider, zerolog.Nop()), provider
}

func TestRenderer_DisabledMakesNoCalls(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	r, _ := newTestRenderer(surface, notes, disabled(testConfig()))
	r.Render(context.Background())

	assert.Empty(t, surface.Calls())
	assert.Empty(t, surface.disposed)
}

func TestRenderer_NilConfigMakesNoCalls(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})

	r, _ := newTestRenderer(surface, &fakeNotes{}, nil)
	r.Render(context.Background())

	assert.Empty(t, surface.Calls())
}

func TestRenderer_SingleNote(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	r, _ := newTestRenderer(surface, notes, testConfig())
	r.Render(context.Background())

	calls := surface.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Opts, 1)

	opt := calls[0].Opts[0]
	assert.Equal(t, note.Range{
		Start: note.Position{Line: 2, Character: 0},
		End:   note.Position{Line: 2, Character: 10},
	}, opt.Range)
	assert.Contains(t, opt.HoverMessage.Value, "fix this")
	assert.Equal(t, []string{LabelEdit, LabelCheck, LabelRemove}, labels(parseLinks(t, opt.HoverMessage.Value)))
	assert.True(t, opt.HoverMessage.IsTrusted)
}

func TestRenderer_DoneNoteOffersUncheck(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusDone))

	r, _ := newTestRenderer(surface, notes, testConfig())
	r.Render(context.Background())

	calls := surface.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Opts, 1)
	got := labels(parseLinks(t, calls[0].Opts[0].HoverMessage.Value))
	assert.Contains(t, got, LabelUncheck)
	assert.NotContains(t, got, LabelCheck)
}

func TestRenderer_FiltersByFileInOrder(t *testing.T) {
	surface := newFakeSurface(
		editor.View{ID: "va", FileName: "/a.ts"},
		editor.View{ID: "vb", FileName: "/b.ts"},
		editor.View{ID: "vc", FileName: "/c.ts"},
	)

	first := sampleNote(note.StatusPending)
	first.ID, first.Text = "n1", "first"
	other := sampleNote(note.StatusPending)
	other.ID, other.FileName, other.Text = "n2", "/c.ts", "other file"
	second := sampleNote(note.StatusDone)
	second.ID, second.Text = "n3", "second"
	second.PositionStart = note.Position{Line: 0, Character: 0}
	second.PositionEnd = note.Position{Line: 0, Character: 3}

	notes := &fakeNotes{}
	notes.Set(first, other, second)

	r, _ := newTestRenderer(surface, notes, testConfig())
	r.Render(context.Background())

	latest := surface.latest()
	require.Len(t, latest, 3)

	a := latest["va"].Opts
	require.Len(t, a, 2)
	assert.Contains(t, a[0].HoverMessage.Value, "first")
	assert.Contains(t, a[1].HoverMessage.Value, "second")

	b := latest["vb"].Opts
	assert.NotNil(t, b)
	assert.Empty(t, b)

	c := latest["vc"].Opts
	require.Len(t, c, 1)
	assert.Contains(t, c[0].HoverMessage.Value, "other file")
}

func TestRenderer_FileMatchIsExact(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/A.ts"})
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	r, _ := newTestRenderer(surface, notes, testConfig())
	r.Render(context.Background())

	calls := surface.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Opts)
}

func TestRenderer_Idempotent(t *testing.T) {
	surface := newFakeSurface(
		editor.View{ID: "va", FileName: "/a.ts"},
		editor.View{ID: "vb", FileName: "/b.ts"},
	)
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending), sampleNote(note.StatusDone))

	r, _ := newTestRenderer(surface, notes, testConfig())

	r.Render(context.Background())
	first := surface.latest()
	surface.Reset()

	r.Render(context.Background())
	second := surface.latest()

	assert.Equal(t, first, second)
	assert.Empty(t, surface.disposed)
}

func TestRenderer_StyleFollowsConfig(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	cfg := testConfig()
	r, provider := newTestRenderer(surface, notes, cfg)

	r.Render(context.Background())
	before := surface.Calls()[0].Style
	assert.Equal(t, "#3d3d1a", before.Dark.BackgroundColor)
	assert.Equal(t, "#fff5b1", before.Light.BackgroundColor)

	next := testConfig()
	next.Decoration.Colors.Dark = "#112233"
	provider.Set(next)
	r.InvalidateStyle()
	surface.Reset()

	r.Render(context.Background())
	after := surface.Calls()[0].Style

	assert.NotEqual(t, before, after)
	assert.NotEqual(t, before.Key, after.Key)
	assert.Equal(t, "#112233", after.Dark.BackgroundColor)
	assert.Equal(t, []editor.DecorationStyle{before}, surface.disposed)
}

func TestRenderer_StyleCachedUntilInvalidated(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	r, provider := newTestRenderer(surface, &fakeNotes{}, testConfig())

	r.Render(context.Background())
	next := testConfig()
	next.Decoration.Colors.Dark = "#000000"
	provider.Set(next)
	r.Render(context.Background())

	calls := surface.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].Style, calls[1].Style)
}

func TestRenderer_EmptyColorsPassThrough(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	cfg := testConfig()
	cfg.Decoration.Colors = config.DecorationColors{}

	r, _ := newTestRenderer(surface, &fakeNotes{}, cfg)
	r.Render(context.Background())

	style := surface.Calls()[0].Style
	assert.Empty(t, style.Dark.BackgroundColor)
	assert.Empty(t, style.Light.BackgroundColor)
}

func TestRenderer_ViewFailureDoesNotStopOthers(t *testing.T) {
	surface := newFakeSurface(
		editor.View{ID: "broken", FileName: "/a.ts"},
		editor.View{ID: "exploding", FileName: "/a.ts"},
		editor.View{ID: "ok", FileName: "/a.ts"},
	)
	surface.failFor["broken"] = true
	surface.panicFor["exploding"] = true

	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	r, _ := newTestRenderer(surface, notes, testConfig())
	require.NotPanics(t, func() { r.Render(context.Background()) })

	calls := surface.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ok", calls[0].View.ID)
	assert.Len(t, calls[0].Opts, 1)
}

func TestRenderer_ListErrorSkipsPass(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	notes := &fakeNotes{err: errors.New("disk gone")}

	r, _ := newTestRenderer(surface, notes, testConfig())
	r.Render(context.Background())

	assert.Empty(t, surface.Calls())
}

func TestRenderer_NoVisibleViews(t *testing.T) {
	surface := newFakeSurface()
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	r, _ := newTestRenderer(surface, notes, testConfig())
	r.Render(context.Background())

	assert.Empty(t, surface.Calls())
}

func TestRenderer_HoverStyleFromConfig(t *testing.T) {
	surface := newFakeSurface(editor.View{ID: "v1", FileName: "/a.ts"})
	notes := &fakeNotes{}
	notes.Set(sampleNote(note.StatusPending))

	cfg := testConfig()
	cfg.Decoration.HoverStyle = "color: green"

	r, _ := newTestRenderer(surface, notes, cfg)
	r.Render(context.Background())

	assert.Contains(t, surface.Calls()[0].Opts[0].HoverMessage.Value, `<span style="color: green">fix this</span>`)
}
