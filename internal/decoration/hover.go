package decoration

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/action"
	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/note"
)

// Theme icons used as status glyphs.
const (
	GlyphPending = "$(note)"
	GlyphDone    = "$(check)"
	GlyphUnknown = "$(error)"
)

// Action link labels.
const (
	LabelEdit    = "Edit"
	LabelCheck   = "Check"
	LabelUncheck = "Uncheck"
	LabelRemove  = "Remove"
)

// StatusGlyph maps a status to its glyph. Every status has one.
func StatusGlyph(s note.Status) string {
	switch s {
	case note.StatusPending:
		return GlyphPending
	case note.StatusDone:
		return GlyphDone
	default:
		return GlyphUnknown
	}
}

// HoverBuilder turns notes into trusted hover content.
type HoverBuilder struct {
	marshal func(any) ([]byte, error)
	logger  zerolog.Logger
}

// NewHoverBuilder creates a builder that encodes link payloads as JSON.
func NewHoverBuilder(logger zerolog.Logger) *HoverBuilder {
	return &HoverBuilder{marshal: json.Marshal, logger: logger}
}

// Build renders n as hover content: status glyph, the note text inside a
// span carrying hoverStyle, then a row of action links. Neither the text nor
// the style is escaped. A link whose payload cannot be encoded is left out.
func (b *HoverBuilder) Build(n note.Note, hoverStyle string) editor.MarkdownString {
	var sb strings.Builder

	sb.WriteString(StatusGlyph(n.Status))
	sb.WriteString(` <span style="`)
	sb.WriteString(hoverStyle)
	sb.WriteString(`">`)
	sb.WriteString(n.Text)
	sb.WriteString("</span>")

	if links := b.actionLinks(n); len(links) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(links, " | "))
	}

	return editor.MarkdownString{
		Value:             sb.String(),
		IsTrusted:         true,
		EnabledCommands:   action.HoverCommands(),
		SupportThemeIcons: true,
	}
}

func (b *HoverBuilder) actionLinks(n note.Note) []string {
	links := make([]string, 0, 3)

	if l, ok := b.link(n, LabelEdit, action.CommandEditNoteText, n.ID); ok {
		links = append(links, l)
	}

	if next, ok := n.Status.Toggle(); ok {
		label := LabelCheck
		if n.Status == note.StatusDone {
			label = LabelUncheck
		}
		args := action.StatusArgs{ID: n.ID, Status: next}
		if l, ok := b.link(n, label, action.CommandUpdateNoteStatus, args); ok {
			links = append(links, l)
		}
	}

	if l, ok := b.link(n, LabelRemove, action.CommandRemoveNote, n.ID); ok {
		links = append(links, l)
	}

	return links
}

func (b *HoverBuilder) link(n note.Note, label, command string, args any) (string, bool) {
	target, err := action.LinkWith(b.marshal, command, args)
	if err != nil {
		b.logger.Warn().
			Err(err).
			Str("note_id", n.ID).
			Str("command", command).
			Msg("omitting hover action")
		return "", false
	}
	return "[" + label + "](" + target + ")", true
}
