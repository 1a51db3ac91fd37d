// Package editor defines the boundary between codenote and the editor
// surface that displays documents: visible views, decoration styles, and
// hover content.
package editor

import "github.com/colonyops/codenote/internal/core/note"

// ThemeKind selects which half of a themable style applies.
type ThemeKind string

const (
	ThemeDark  ThemeKind = "dark"
	ThemeLight ThemeKind = "light"
)

// View is one visible presentation of a document.
type View struct {
	ID       string
	FileName string // absolute path, compared verbatim
}

// ThemableStyle holds the style properties that vary per theme.
type ThemableStyle struct {
	BackgroundColor string // empty means the surface default
}

// DecorationStyle is the visual style applied to decorated ranges. Key
// identifies the style on the surface; setting decorations for a key
// replaces the previous set for that key.
type DecorationStyle struct {
	Key   string
	Dark  ThemableStyle
	Light ThemableStyle
}

// For returns the themable half of the style for the given theme.
func (s DecorationStyle) For(kind ThemeKind) ThemableStyle {
	if kind == ThemeLight {
		return s.Light
	}
	return s.Dark
}

// MarkdownString is rich hover content. Command links inside Value are only
// honored when IsTrusted is set and the command is listed in EnabledCommands.
type MarkdownString struct {
	Value             string
	IsTrusted         bool
	EnabledCommands   []string
	SupportThemeIcons bool
}

// Allows reports whether a command link to name may be executed from this
// content.
func (m MarkdownString) Allows(name string) bool {
	if !m.IsTrusted {
		return false
	}
	for _, c := range m.EnabledCommands {
		if c == name {
			return true
		}
	}
	return false
}

// DecorationOptions pairs a range with the hover content shown for it.
type DecorationOptions struct {
	Range        note.Range
	HoverMessage MarkdownString
}

// Surface is the editor that renders views and their decorations.
type Surface interface {
	// VisibleViews returns the views currently on screen.
	VisibleViews() []View

	// SetDecorations replaces every decoration of style on view with opts.
	// An empty opts clears the view for that style.
	SetDecorations(view View, style DecorationStyle, opts []DecorationOptions) error

	// DisposeStyle removes style and all decorations drawn with it.
	DisposeStyle(style DecorationStyle)
}
