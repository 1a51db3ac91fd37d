package styles

import (
	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// FormTheme returns a huh theme using the active palette. huh still renders
// with lipgloss v1, so colors are taken from the palette hex values.
func FormTheme() *huh.Theme {
	p := CurrentPalette
	primary := lipglossv1.Color(p.Primary)
	secondary := lipglossv1.Color(p.Secondary)
	surface := lipglossv1.Color(p.Surface)
	errc := lipglossv1.Color(p.Error)

	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(lipglossv1.Color(p.Muted))
	t.Focused.Base = t.Focused.Base.BorderForeground(primary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(secondary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipglossv1.Color(p.Background)).Background(primary)
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(lipglossv1.Color(p.Foreground)).Background(surface)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errc)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errc)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderForeground(surface)

	return t
}
