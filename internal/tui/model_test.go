package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/eventbus/testbus"
	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/core/notify"
	"github.com/colonyops/codenote/internal/decoration"
	"github.com/colonyops/codenote/internal/notes"
	"github.com/colonyops/codenote/internal/store/jsonfile"
	"github.com/colonyops/codenote/pkg/tuitest"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

type harness struct {
	model    *Model
	svc      *notes.Service
	surface  *Surface
	renderer *decoration.Renderer
	bus      *testbus.Bus
}

func newHarness(t *testing.T, opts ...func(*Options)) *harness {
	t.Helper()

	docs := []*Document{
		NewDocument("/a.ts", "const a = 1\n\tlet b = 2\nreturn a\n"),
		NewDocument("/b.ts", "export {}\n"),
	}
	panes := NewPanes(docs)
	surface := NewSurface(Views(panes))

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	provider := config.NewProvider(&cfg)

	bus := testbus.New(t)
	store := jsonfile.NewNoteStore(filepath.Join(cfg.DataDir, "notes.json"))
	svc := notes.New(store, bus.EventBus, nopLogger())

	o := Options{
		Panes:   panes,
		Surface: surface,
		Bus:     bus.EventBus,
		Config:  provider,
		Notes:   svc,
		Logger:  nopLogger(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	m := NewModel(o)
	m.Update(tuitest.WindowSize(100, 30))

	return &harness{
		model:    m,
		svc:      svc,
		surface:  surface,
		renderer: decoration.NewRenderer(surface, svc, provider, nopLogger()),
		bus:      bus,
	}
}

func (h *harness) addNote(t *testing.T, line int) note.Note {
	t.Helper()
	n, err := h.svc.Add(context.Background(), note.NewNote{
		FileName:      "/a.ts",
		PositionStart: note.Position{Line: line, Character: 0},
		PositionEnd:   note.Position{Line: line, Character: 5},
		Text:          "look here",
	})
	require.NoError(t, err)
	h.renderer.Render(context.Background())
	return n
}

// answerPrompt waits for the model to receive a prompt request and submits
// text, or cancels when text is empty.
func answerPrompt(t *testing.T, m *Model, text string) {
	t.Helper()

	msg := m.prompts.Wait()()
	m.Update(msg)
	require.NotNil(t, m.prompt)

	if text == "" {
		m.Update(tuitest.KeyEsc())
		return
	}
	m.input.SetValue(text)
	m.Update(tuitest.KeyEnter())
}

func TestModel_HoverUnderCursor(t *testing.T) {
	h := newHarness(t)
	h.addNote(t, 0)

	blocks, links := h.model.hover()
	require.Len(t, blocks, 1)
	require.Len(t, links, 3)
	assert.Contains(t, tuitest.StripANSI(blocks[0]), "look here")

	h.model.Update(tuitest.KeyPress('j'))
	blocks, links = h.model.hover()
	assert.Empty(t, blocks)
	assert.Empty(t, links)
}

func TestModel_FocusPublishesActiveView(t *testing.T) {
	h := newHarness(t)

	h.model.Update(tuitest.KeyTab())
	require.True(t, h.bus.WaitFor(eventbus.EventActiveViewChanged, time.Second))

	events := h.bus.Events()
	p, ok := events[len(events)-1].Payload.(eventbus.ActiveViewChangedPayload)
	require.True(t, ok)
	require.NotNil(t, p.View)
	assert.Equal(t, "/b.ts", p.View.FileName)
	assert.Equal(t, 1, h.model.focus)

	h.model.Update(tuitest.KeyShiftTab())
	assert.Equal(t, 0, h.model.focus)
}

func TestModel_RunLink_check(t *testing.T) {
	h := newHarness(t)
	n := h.addNote(t, 0)

	_, cmd := h.model.Update(tuitest.KeyPress('2'))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	got, err := h.svc.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, note.StatusDone, got.Status)
}

func TestModel_RunLink_noSuchKey(t *testing.T) {
	h := newHarness(t)
	h.addNote(t, 0)

	_, cmd := h.model.Update(tuitest.KeyPress('7'))
	assert.Nil(t, cmd)
}

func TestModel_RunLink_edit(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{name: "submit", answer: "new text", want: "new text"},
		{name: "cancel", answer: "", want: "look here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			n := h.addNote(t, 0)

			_, cmd := h.model.Update(tuitest.KeyPress('1'))
			require.NotNil(t, cmd)

			result := make(chan tea.Msg, 1)
			go func() { result <- cmd() }()

			answerPrompt(t, h.model, tt.answer)

			select {
			case msg := <-result:
				require.NoError(t, msg.(actionDoneMsg).err)
			case <-time.After(2 * time.Second):
				t.Fatal("edit command did not finish")
			}
			assert.Nil(t, h.model.prompt)

			got, err := h.svc.Get(context.Background(), n.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestModel_AddNote(t *testing.T) {
	h := newHarness(t)
	h.model.Update(tuitest.KeyPress('j'))

	_, cmd := h.model.Update(tuitest.KeyPress('a'))
	require.NotNil(t, cmd)

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	answerPrompt(t, h.model, "tab indented")

	select {
	case msg := <-result:
		require.NoError(t, msg.(actionDoneMsg).err)
	case <-time.After(2 * time.Second):
		t.Fatal("add command did not finish")
	}

	list, err := h.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/a.ts", list[0].FileName)
	assert.Equal(t, note.Position{Line: 1, Character: 0}, list[0].PositionStart)
	assert.Equal(t, note.Position{Line: 1, Character: 10}, list[0].PositionEnd)
	assert.Equal(t, "\tlet b = 2", list[0].CodeSnippet)
	assert.Equal(t, note.StatusPending, list[0].Status)
}

func TestModel_ActionErrorShownInStatus(t *testing.T) {
	h := newHarness(t)

	h.model.Update(actionDoneMsg{err: note.ErrNoteNotFound})
	assert.Equal(t, notify.LevelError, h.model.status.Level)
	assert.Contains(t, tuitest.StripANSI(h.model.View().Content), note.ErrNoteNotFound.Error())
}

func TestModel_NotificationsDrainToStatus(t *testing.T) {
	h := newHarness(t)

	h.model.Notify(notify.Notification{Level: notify.LevelInfo, Message: "first"})
	h.model.Notify(notify.Notification{Level: notify.LevelInfo, Message: "second"})

	h.model.Update(h.model.notifications.Wait()())
	assert.Equal(t, "second", h.model.status.Message)
}

func TestModel_CursorMovementClamps(t *testing.T) {
	h := newHarness(t)
	p := h.model.panes[0]

	h.model.Update(tuitest.KeyPress('k'))
	assert.Equal(t, note.Position{}, p.cursor)

	h.model.Update(tuitest.KeyPress('$'))
	assert.Equal(t, note.Position{Line: 0, Character: 11}, p.cursor)

	h.model.Update(tuitest.KeyPress('l'))
	assert.Equal(t, 11, p.cursor.Character)

	h.model.Update(tuitest.KeyPress('j'))
	assert.Equal(t, note.Position{Line: 1, Character: 10}, p.cursor)

	for range 10 {
		h.model.Update(tuitest.KeyPress('j'))
	}
	assert.Equal(t, 2, p.cursor.Line)
	assert.Equal(t, 8, p.cursor.Character)
}

func TestModel_ViewShowsPanesAndHover(t *testing.T) {
	h := newHarness(t)
	h.addNote(t, 0)

	out := tuitest.StripANSI(h.model.View().Content)
	assert.Contains(t, out, "a.ts")
	assert.Contains(t, out, "b.ts")
	assert.Contains(t, out, "const a = 1")
	assert.Contains(t, out, "look here")
	assert.Contains(t, out, "1 Edit")
}

func TestModel_ViewUsesAltScreen(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.model.View().AltScreen)
}

func TestModel_CopyNoteUnderCursor(t *testing.T) {
	var copied []string
	h := newHarness(t, func(o *Options) {
		o.Clipboard = func(s string) error {
			copied = append(copied, s)
			return nil
		}
	})
	n := h.addNote(t, 0)

	_, cmd := h.model.Update(tuitest.KeyPress('y'))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, copiedMsg{id: n.ID}, msg)
	assert.Equal(t, []string{"look here"}, copied)

	h.model.Update(msg)
	assert.Equal(t, "copied note "+n.ID, h.model.status.Message)

	h.model.Update(tuitest.KeyPress('j'))
	_, cmd = h.model.Update(tuitest.KeyPress('y'))
	h.model.Update(cmd())
	assert.Equal(t, "no note under cursor", h.model.status.Message)
	assert.Len(t, copied, 1)
}

func TestModel_CopyNoteClipboardError(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Clipboard = func(string) error { return assert.AnError }
	})
	h.addNote(t, 0)

	_, cmd := h.model.Update(tuitest.KeyPress('y'))
	h.model.Update(cmd())
	assert.Equal(t, notify.LevelError, h.model.status.Level)
	assert.Contains(t, h.model.status.Message, assert.AnError.Error())
}

func TestModel_JumpFocusesNote(t *testing.T) {
	tests := []struct {
		name      string
		jump      Jump
		wantFocus int
		wantPos   note.Position
	}{
		{
			name:      "second pane",
			jump:      Jump{FileName: "/b.ts", Position: note.Position{Line: 0, Character: 3}},
			wantFocus: 1,
			wantPos:   note.Position{Line: 0, Character: 3},
		},
		{
			name:      "clamped to document",
			jump:      Jump{FileName: "/a.ts", Position: note.Position{Line: 40, Character: 99}},
			wantFocus: 0,
			wantPos:   note.Position{Line: 2, Character: 8},
		},
		{
			name:      "unknown file",
			jump:      Jump{FileName: "/c.ts", Position: note.Position{Line: 1}},
			wantFocus: 0,
			wantPos:   note.Position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, func(o *Options) { o.Jump = &tt.jump })
			assert.Equal(t, tt.wantFocus, h.model.focus)
			assert.Equal(t, tt.wantPos, h.model.panes[h.model.focus].cursor)
		})
	}
}

func TestPaints(t *testing.T) {
	r := note.Range{Start: note.Position{Line: 1, Character: 2}, End: note.Position{Line: 3, Character: 1}}

	assert.False(t, paints(r, 0, 5))
	assert.False(t, paints(r, 1, 1))
	assert.True(t, paints(r, 1, 2))
	assert.True(t, paints(r, 2, 40))
	assert.True(t, paints(r, 3, 0))
	assert.False(t, paints(r, 3, 1))

	empty := note.Range{Start: note.Position{Line: 1}, End: note.Position{Line: 1}}
	assert.False(t, paints(empty, 1, 0))
}

func TestDocument(t *testing.T) {
	d := NewDocument("/x", "a\r\n\tb\n")
	assert.Equal(t, 2, d.LineCount())
	assert.Equal(t, "a", d.Line(0))
	assert.Equal(t, 2, d.LineLen(1))
	assert.Equal(t, "", d.Line(5))

	assert.Equal(t, 1, NewDocument("/y", "").LineCount())
	assert.Equal(t, 4, displayColumn([]rune("\tx"), 1, 4))
	assert.Equal(t, 3, tabSpan(1, 4))
}
