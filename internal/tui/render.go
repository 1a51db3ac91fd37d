package tui

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/core/notify"
	"github.com/colonyops/codenote/internal/core/styles"
)

const minPaneHeight = 4

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var parts []string
	overlay := m.renderOverlay()
	footer := m.renderFooter()

	height := m.height - lipgloss.Height(footer)
	if overlay != "" {
		height -= lipgloss.Height(overlay)
	}
	parts = append(parts, m.renderPanes(max(height, minPaneHeight)))
	if overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// bodyHeight approximates the number of text rows in a pane.
func (m *Model) bodyHeight() int {
	return m.height - 4
}

func (m *Model) renderOverlay() string {
	width := max(m.width-2, 10)

	if m.prompt != nil {
		body := styles.FormTitleStyle.Render(m.prompt.title) + "\n" +
			m.input.View() + "\n" +
			styles.HelpStyle.Render("enter save • esc cancel")
		return styles.HoverStyle.Width(width).Render(body)
	}

	blocks, _ := m.hover()
	if len(blocks) == 0 {
		return ""
	}
	divider := "\n" + styles.DividerStyle.Render(strings.Repeat("─", max(width-2, 1))) + "\n"
	return styles.HoverStyle.Width(width).Render(strings.Join(blocks, divider))
}

func (m *Model) renderFooter() string {
	var status string
	if m.status.Message != "" {
		style := styles.MutedStyle
		switch m.status.Level {
		case notify.LevelWarning:
			style = styles.StatusPendingStyle
		case notify.LevelError:
			style = styles.ErrorStyle
		}
		status = style.Render(m.status.Message)
	}

	help := styles.HelpStyle.Render(m.help.View(m.keys))
	if status == "" {
		return help
	}
	return status + "\n" + help
}

func (m *Model) renderPanes(height int) string {
	if len(m.panes) == 0 {
		return styles.MutedStyle.Render("no files open")
	}

	cfg := m.config.Current()
	theme := editor.ThemeKind(cfg.Theme)

	n := len(m.panes)
	base := m.width / n
	rendered := make([]string, n)
	for i, p := range m.panes {
		width := base
		if i == n-1 {
			width = m.width - base*(n-1)
		}
		rendered[i] = m.renderPane(p, i == m.focus, width, height, theme, cfg.TUI.TabWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderPane(p *pane, focused bool, width, height int, theme editor.ThemeKind, tabWidth int) string {
	style := styles.PaneStyle
	if focused {
		style = styles.PaneFocusedStyle
	}

	innerW := max(width-2, 1)
	innerH := max(height-2, 2)
	rows := innerH - 1

	gutterW := len(fmt.Sprint(p.Doc.LineCount())) + 1
	textW := max(innerW-gutterW, 1)

	p.scrollTo(rows, textW, tabWidth)
	decorations := m.surface.Decorations(p.View.ID)

	lines := make([]string, 0, innerH)
	title := styles.FileIcon(p.View.FileName) + " " + filepath.Base(p.View.FileName)
	lines = append(lines, styles.PaneTitleStyle.Render(truncateRunes(title, innerW)))

	for row := range rows {
		i := p.top + row
		if i >= p.Doc.LineCount() {
			lines = append(lines, "")
			continue
		}
		gutter := styles.LineNumberStyle.Render(fmt.Sprintf("%*d ", gutterW-1, i+1))
		text := renderLine(p, i, decorations, theme, focused, textW, tabWidth)
		lines = append(lines, gutter+text)
	}

	return style.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

// scrollTo keeps the cursor inside a rows by cols window.
func (p *pane) scrollTo(rows, cols, tabWidth int) {
	if p.cursor.Line < p.top {
		p.top = p.cursor.Line
	}
	if p.cursor.Line >= p.top+rows {
		p.top = p.cursor.Line - rows + 1
	}

	col := displayColumn(p.Doc.Lines[p.cursor.Line], p.cursor.Character, tabWidth)
	if col < p.left {
		p.left = col
	}
	if col >= p.left+cols {
		p.left = col - cols + 1
	}
}

// displayColumn returns the cell column where rune index char starts.
func displayColumn(line []rune, char, tabWidth int) int {
	col := 0
	for i, r := range line {
		if i >= char {
			break
		}
		if r == '\t' {
			col += tabSpan(col, tabWidth)
		} else {
			col++
		}
	}
	return col
}

type cell struct {
	r      rune
	hl     bool
	bg     color.Color
	cursor bool
}

// renderLine draws line i of p with decorated ranges highlighted. The last
// decoration covering a character wins.
func renderLine(p *pane, i int, decorations []Decoration, theme editor.ThemeKind, focused bool, width, tabWidth int) string {
	line := p.Doc.Lines[i]
	cells := make([]cell, 0, len(line)+1)

	for ch, r := range line {
		c := cell{r: r, cursor: focused && p.cursor.Line == i && p.cursor.Character == ch}
		for _, d := range decorations {
			if paints(d.Range, i, ch) {
				c.hl = true
				c.bg = backgroundColor(d.Style.For(theme))
			}
		}

		if r != '\t' {
			cells = append(cells, c)
			continue
		}
		n := tabSpan(len(cells), tabWidth)
		for k := range n {
			sp := c
			sp.r = ' '
			sp.cursor = c.cursor && k == 0
			cells = append(cells, sp)
		}
	}
	if focused && p.cursor.Line == i && p.cursor.Character >= len(line) {
		cells = append(cells, cell{r: ' ', cursor: true})
	}

	start := min(p.left, len(cells))
	end := min(start+width, len(cells))
	return renderCells(cells[start:end])
}

func renderCells(cells []cell) string {
	var (
		b   strings.Builder
		seg []rune
	)
	flush := func(c cell) {
		if len(seg) == 0 {
			return
		}
		s := lipgloss.NewStyle()
		if c.hl {
			s = s.Background(c.bg)
		}
		if c.cursor {
			s = s.Inherit(styles.CursorStyle)
		}
		b.WriteString(s.Render(string(seg)))
		seg = seg[:0]
	}

	for k, c := range cells {
		if k > 0 {
			prev := cells[k-1]
			if prev.hl != c.hl || prev.bg != c.bg || prev.cursor != c.cursor {
				flush(prev)
			}
		}
		seg = append(seg, c.r)
	}
	if len(cells) > 0 {
		flush(cells[len(cells)-1])
	}
	return b.String()
}

// paints reports whether the character at line, ch is inside r. The end
// position is exclusive, so an empty range paints nothing.
func paints(r note.Range, line, ch int) bool {
	if line < r.Start.Line || line > r.End.Line {
		return false
	}
	if line == r.Start.Line && ch < r.Start.Character {
		return false
	}
	if line == r.End.Line && ch >= r.End.Character {
		return false
	}
	return true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
