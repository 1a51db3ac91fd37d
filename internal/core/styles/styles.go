// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette defines a minimal semantic theme palette. Values are hex colors.
type Palette struct {
	Primary    string
	Secondary  string
	Foreground string
	Muted      string
	Background string
	Surface    string
	Success    string
	Warning    string
	Error      string
}

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// themes holds the built-in palettes, keyed by theme kind.
var themes = map[string]Palette{
	ThemeDark: { // tokyo-night
		Primary:    "#7aa2f7",
		Secondary:  "#7dcfff",
		Foreground: "#c0caf5",
		Muted:      "#565f89",
		Background: "#1a1b26",
		Surface:    "#3b4261",
		Success:    "#9ece6a",
		Warning:    "#e0af68",
		Error:      "#f7768e",
	},
	ThemeLight: { // tokyo-day
		Primary:    "#2e7de9",
		Secondary:  "#007197",
		Foreground: "#3760bf",
		Muted:      "#848cb5",
		Background: "#e1e2e7",
		Surface:    "#c4c8da",
		Success:    "#587539",
		Warning:    "#8c6c3e",
		Error:      "#f52a65",
	},
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	MutedStyle         lipgloss.Style

	// Note status styles.
	StatusPendingStyle lipgloss.Style
	StatusDoneStyle    lipgloss.Style
	StatusUnknownStyle lipgloss.Style

	// TUI shared styles.
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	HoverStyle       lipgloss.Style
	LinkKeyStyle     lipgloss.Style
	LinkLabelStyle   lipgloss.Style
	LineNumberStyle  lipgloss.Style
	CursorStyle      lipgloss.Style
	HelpStyle        lipgloss.Style
	ErrorStyle       lipgloss.Style
	FormTitleStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = lipgloss.Color(p.Primary)
	ColorSecondary = lipgloss.Color(p.Secondary)
	ColorForeground = lipgloss.Color(p.Foreground)
	ColorMuted = lipgloss.Color(p.Muted)
	ColorBackground = lipgloss.Color(p.Background)
	ColorSurface = lipgloss.Color(p.Surface)
	ColorSuccess = lipgloss.Color(p.Success)
	ColorWarning = lipgloss.Color(p.Warning)
	ColorError = lipgloss.Color(p.Error)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	StatusPendingStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	StatusDoneStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusUnknownStyle = lipgloss.NewStyle().Foreground(ColorError)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface)
	PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	HoverStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(0, 1)
	LinkKeyStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSecondary).
		Bold(true)
	LinkLabelStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Underline(true)
	LineNumberStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CursorStyle = lipgloss.NewStyle().
		Reverse(true)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
}

// UseTheme activates the named theme, falling back to dark.
func UseTheme(name string) {
	p, ok := GetPalette(name)
	if !ok {
		p = themes[ThemeDark]
	}
	SetTheme(p)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[ThemeDark])
}
