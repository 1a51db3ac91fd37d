// Package tui is a terminal editor host for codenote. It shows files side by
// side, draws note decorations produced by the decoration renderer, and runs
// hover actions through the command table.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/action"
	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/core/notify"
	"github.com/colonyops/codenote/internal/notes"
	"github.com/colonyops/codenote/pkg/randid"
)

type (
	decorationsChangedMsg struct{}
	drainNotificationsMsg struct{}
	drainPromptsMsg       struct{}
	actionDoneMsg         struct{ err error }
	copiedMsg             struct {
		id  string
		err error
	}
)

type promptReply struct {
	text string
	ok   bool
}

// promptRequest asks the UI goroutine for a line of text. reply receives
// exactly one value.
type promptRequest struct {
	title string
	value string
	reply chan promptReply
}

// Pane pairs a view with the document it shows.
type Pane struct {
	View editor.View
	Doc  *Document
}

// NewPanes assigns a fresh view to each document.
func NewPanes(docs []*Document) []Pane {
	panes := make([]Pane, len(docs))
	for i, d := range docs {
		panes[i] = Pane{
			View: editor.View{ID: "view-" + randid.Generate(6), FileName: d.Path},
			Doc:  d,
		}
	}
	return panes
}

// Views returns the views of panes in order.
func Views(panes []Pane) []editor.View {
	views := make([]editor.View, len(panes))
	for i, p := range panes {
		views[i] = p.View
	}
	return views
}

type pane struct {
	Pane
	cursor note.Position
	top    int
	left   int
}

// Jump places the cursor of the pane showing FileName at Position and
// focuses that pane.
type Jump struct {
	FileName string
	Position note.Position
}

// Options configures a Model.
type Options struct {
	Panes   []Pane
	Surface *Surface
	Bus     *eventbus.EventBus
	Config  *config.Provider
	Notes   *notes.Service
	Logger  zerolog.Logger

	// Jump is applied once when the model is created.
	Jump *Jump
	// Clipboard receives copied note text. Defaults to the system clipboard.
	Clipboard func(string) error
}

// Model is the bubbletea model of the terminal editor.
type Model struct {
	ctx     context.Context
	surface *Surface
	bus     *eventbus.EventBus
	config  *config.Provider
	notes   *notes.Service
	table   *action.Table
	logger  zerolog.Logger
	clip    func(string) error

	panes []*pane
	focus int

	width  int
	height int
	keys   keyMap
	help   help.Model

	notifications *signalBuffer[notify.Notification]
	prompts       *signalBuffer[promptRequest]

	prompt  *promptRequest
	pending []promptRequest
	input   textinput.Model

	status notify.Notification
}

// NewModel creates the editor model. opts.Panes must match the views of
// opts.Surface.
func NewModel(opts Options) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 0

	m := &Model{
		ctx:           context.Background(),
		surface:       opts.Surface,
		bus:           opts.Bus,
		config:        opts.Config,
		notes:         opts.Notes,
		logger:        opts.Logger,
		keys:          defaultKeyMap(),
		help:          help.New(),
		notifications: newSignalBuffer[notify.Notification](drainNotificationsMsg{}),
		prompts:       newSignalBuffer[promptRequest](drainPromptsMsg{}),
		input:         input,
		clip:          opts.Clipboard,
	}
	if m.clip == nil {
		m.clip = clipboard.WriteAll
	}

	for _, p := range opts.Panes {
		m.panes = append(m.panes, &pane{Pane: p})
	}
	m.table = action.NewTable(opts.Notes.Handlers(m.promptText))

	if opts.Jump != nil {
		m.jump(*opts.Jump)
	}

	return m
}

// jump focuses the pane showing j.FileName and moves its cursor, clamped to
// the document. Unknown files are ignored.
func (m *Model) jump(j Jump) {
	for i, p := range m.panes {
		if p.View.FileName != j.FileName {
			continue
		}
		m.focus = i
		p.cursor.Line = clamp(j.Position.Line, 0, max(p.Doc.LineCount()-1, 0))
		p.cursor.Character = clamp(j.Position.Character, 0, p.Doc.LineLen(p.cursor.Line))
		return
	}
}

// Notify queues a message for the status line. Safe for concurrent use.
func (m *Model) Notify(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notifications.Push(n)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.surface.WaitForChange(),
		m.notifications.Wait(),
		m.prompts.Wait(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetWidth(msg.Width)
		m.input.SetWidth(max(msg.Width-8, 10))
		return m, nil

	case decorationsChangedMsg:
		return m, m.surface.WaitForChange()

	case drainNotificationsMsg:
		if items := m.notifications.Drain(); len(items) > 0 {
			m.status = items[len(items)-1]
		}
		return m, m.notifications.Wait()

	case drainPromptsMsg:
		m.pending = append(m.pending, m.prompts.Drain()...)
		return m, tea.Batch(m.nextPrompt(), m.prompts.Wait())

	case actionDoneMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("hover action failed")
			m.status = notify.Notification{Level: notify.LevelError, Message: msg.err.Error(), CreatedAt: time.Now()}
		}
		return m, nil

	case copiedMsg:
		switch {
		case msg.err != nil:
			m.logger.Warn().Err(msg.err).Msg("copy note failed")
			m.status = notify.Notification{Level: notify.LevelError, Message: msg.err.Error(), CreatedAt: time.Now()}
		case msg.id == "":
			m.status = notify.Notification{Level: notify.LevelInfo, Message: "no note under cursor", CreatedAt: time.Now()}
		default:
			m.status = notify.Notification{Level: notify.LevelInfo, Message: "copied note " + msg.id, CreatedAt: time.Now()}
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}

	if m.prompt != nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if len(m.panes) == 0 {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	p := m.panes[m.focus]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextView):
		m.setFocus((m.focus + 1) % len(m.panes))
	case key.Matches(msg, m.keys.PrevView):
		m.setFocus((m.focus - 1 + len(m.panes)) % len(m.panes))
	case key.Matches(msg, m.keys.Up):
		p.moveLine(-1)
	case key.Matches(msg, m.keys.Down):
		p.moveLine(1)
	case key.Matches(msg, m.keys.PageUp):
		p.moveLine(-max(m.bodyHeight(), 1))
	case key.Matches(msg, m.keys.PageDown):
		p.moveLine(max(m.bodyHeight(), 1))
	case key.Matches(msg, m.keys.Left):
		p.moveChar(-1)
	case key.Matches(msg, m.keys.Right):
		p.moveChar(1)
	case key.Matches(msg, m.keys.Home):
		p.cursor.Character = 0
	case key.Matches(msg, m.keys.End):
		p.cursor.Character = p.Doc.LineLen(p.cursor.Line)
	case key.Matches(msg, m.keys.AddNote):
		return m, m.addNoteCmd(p)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyNoteCmd(p)
	case key.Matches(msg, m.keys.RunLink):
		return m, m.runLinkCmd(int(msg.String()[0] - '0'))
	}

	return m, nil
}

// setFocus moves focus to pane i and announces the new active view.
func (m *Model) setFocus(i int) {
	if i == m.focus {
		return
	}
	m.focus = i
	if m.bus == nil {
		return
	}
	v := m.panes[i].View
	m.bus.PublishActiveViewChanged(eventbus.ActiveViewChangedPayload{View: &v})
}

// runLinkCmd executes the hover link bound to digit k off the UI goroutine.
func (m *Model) runLinkCmd(k int) tea.Cmd {
	_, links := m.hover()
	for _, l := range links {
		if l.Key != k {
			continue
		}
		ctx, link := m.ctx, l
		return func() tea.Msg {
			return actionDoneMsg{err: m.table.ExecuteFrom(ctx, link.Content, link.Target)}
		}
	}
	return nil
}

// addNoteCmd annotates the cursor line of p with text asked from the user.
func (m *Model) addNoteCmd(p *pane) tea.Cmd {
	ctx := m.ctx
	line := p.cursor.Line
	nn := note.NewNote{
		FileName:      p.View.FileName,
		PositionStart: note.Position{Line: line, Character: 0},
		PositionEnd:   note.Position{Line: line, Character: p.Doc.LineLen(line)},
		CodeSnippet:   p.Doc.Line(line),
	}
	title := fmt.Sprintf("New note on %s:%d", filepath.Base(p.View.FileName), line+1)

	return func() tea.Msg {
		text, ok, err := m.ask(ctx, title, "")
		if err != nil || !ok || text == "" {
			return actionDoneMsg{err: err}
		}
		nn.Text = text
		_, err = m.notes.Add(ctx, nn)
		return actionDoneMsg{err: err}
	}
}

// copyNoteCmd copies the text of the first note of p under the cursor.
func (m *Model) copyNoteCmd(p *pane) tea.Cmd {
	ctx := m.ctx
	fileName, cursor := p.View.FileName, p.cursor

	return func() tea.Msg {
		all, err := m.notes.List(ctx)
		if err != nil {
			return copiedMsg{err: err}
		}
		for _, n := range all {
			if n.FileName != fileName || !n.Range().Contains(cursor) {
				continue
			}
			if err := m.clip(n.Text); err != nil {
				return copiedMsg{err: fmt.Errorf("copy note %s: %w", n.ID, err)}
			}
			return copiedMsg{id: n.ID}
		}
		return copiedMsg{}
	}
}

// promptText is the edit prompt handed to the note service. It blocks the
// calling command until the user answers.
func (m *Model) promptText(ctx context.Context, n note.Note) (string, bool, error) {
	return m.ask(ctx, "Edit note", n.Text)
}

func (m *Model) ask(ctx context.Context, title, value string) (string, bool, error) {
	req := promptRequest{title: title, value: value, reply: make(chan promptReply, 1)}
	m.prompts.Push(req)

	select {
	case r := <-req.reply:
		return r.text, r.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func (m *Model) nextPrompt() tea.Cmd {
	if m.prompt != nil || len(m.pending) == 0 {
		return nil
	}

	req := m.pending[0]
	m.pending = m.pending[1:]
	m.prompt = &req

	m.input.SetValue(req.value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updatePrompt(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.answer(promptReply{text: m.input.Value(), ok: true})
	case "esc":
		return m, m.answer(promptReply{})
	case "ctrl+c":
		m.answer(promptReply{})
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) answer(r promptReply) tea.Cmd {
	m.prompt.reply <- r
	m.prompt = nil
	m.input.Blur()
	m.input.Reset()
	return m.nextPrompt()
}

// hover renders the hover content for every decoration under the cursor of
// the focused pane. Link keys are numbered across all blocks.
func (m *Model) hover() ([]string, []HoverLink) {
	if len(m.panes) == 0 {
		return nil, nil
	}
	p := m.panes[m.focus]

	var (
		blocks []string
		links  []HoverLink
	)
	for _, d := range m.surface.Decorations(p.View.ID) {
		if !d.Range.Contains(p.cursor) {
			continue
		}
		text, l := RenderHover(d.HoverMessage, len(links)+1)
		blocks = append(blocks, text)
		links = append(links, l...)
	}
	return blocks, links
}

func (p *pane) moveLine(d int) {
	p.cursor.Line = clamp(p.cursor.Line+d, 0, max(p.Doc.LineCount()-1, 0))
	p.cursor.Character = clamp(p.cursor.Character, 0, p.Doc.LineLen(p.cursor.Line))
}

func (p *pane) moveChar(d int) {
	p.cursor.Character = clamp(p.cursor.Character+d, 0, p.Doc.LineLen(p.cursor.Line))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
