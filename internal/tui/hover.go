package tui

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/codenote/internal/core/action"
	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/styles"
)

// maxLinkKeys is the number of hover links reachable by digit keys.
const maxLinkKeys = 9

var (
	linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
	spanPattern = regexp.MustCompile(`(?s)<span style="([^"]*)">(.*?)</span>`)
	iconPattern = regexp.MustCompile(`\$\(([a-z0-9-]+)\)`)
	hexPattern  = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbPattern  = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(,[^)]*)?\)$`)
)

// HoverLink is an executable command link shown in the hover panel.
type HoverLink struct {
	Key     int
	Label   string
	Target  string
	Content editor.MarkdownString
}

// RenderHover renders hover content for the terminal. Command links in the
// trailing action row that the content allows are numbered from firstKey;
// every other link is shown as a plain label and cannot be run.
func RenderHover(content editor.MarkdownString, firstKey int) (string, []HoverLink) {
	var links []HoverLink
	key := firstKey

	body, row, hasRow := splitActionRow(content.Value)
	out := linkPattern.ReplaceAllString(body, "$1")

	if hasRow {
		row = linkPattern.ReplaceAllStringFunc(row, func(m string) string {
			sub := linkPattern.FindStringSubmatch(m)
			label, target := sub[1], sub[2]

			if key > maxLinkKeys || !linkAllowed(content, target) {
				return label
			}

			links = append(links, HoverLink{Key: key, Label: label, Target: target, Content: content})
			rendered := styles.LinkKeyStyle.Render(strconv.Itoa(key)) + " " + styles.LinkLabelStyle.Render(label)
			key++
			return rendered
		})
		out += "\n\n" + row
	}

	out = spanPattern.ReplaceAllStringFunc(out, func(m string) string {
		sub := spanPattern.FindStringSubmatch(m)
		return ParseCSS(sub[1]).Render(sub[2])
	})

	if content.SupportThemeIcons {
		out = iconPattern.ReplaceAllStringFunc(out, func(m string) string {
			name := iconPattern.FindStringSubmatch(m)[1]
			if icon, ok := themeIcon(name); ok {
				return icon
			}
			return m
		})
	}

	return strings.ReplaceAll(out, "\n\n", "\n"), links
}

// splitActionRow separates the last paragraph from the rest of the content.
// A paragraph that closes a span belongs to the note text, not the actions.
func splitActionRow(v string) (body, row string, ok bool) {
	i := strings.LastIndex(v, "\n\n")
	if i < 0 {
		return v, "", false
	}
	row = v[i+2:]
	if strings.Contains(row, "</span>") {
		return v, "", false
	}
	return v[:i], row, true
}

func linkAllowed(content editor.MarkdownString, target string) bool {
	inv, err := action.ParseLink(target)
	if err != nil {
		return false
	}
	return content.Allows(inv.Command)
}

func themeIcon(name string) (string, bool) {
	switch name {
	case "note":
		return styles.StatusPendingStyle.Render(styles.IconNote), true
	case "check":
		return styles.StatusDoneStyle.Render(styles.IconCheck), true
	case "error":
		return styles.StatusUnknownStyle.Render(styles.IconError), true
	default:
		return "", false
	}
}

// ParseCSS converts an inline CSS declaration list into a lipgloss style.
// Unsupported properties and values are ignored.
func ParseCSS(decl string) lipgloss.Style {
	s := lipgloss.NewStyle()

	for _, part := range strings.Split(decl, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))

		switch prop {
		case "color":
			if c, ok := parseColor(value); ok {
				s = s.Foreground(c)
			}
		case "background", "background-color":
			if c, ok := parseColor(value); ok {
				s = s.Background(c)
			}
		case "font-weight":
			if value == "bold" || value == "bolder" {
				s = s.Bold(true)
			} else if n, err := strconv.Atoi(value); err == nil && n >= 600 {
				s = s.Bold(true)
			}
		case "font-style":
			if value == "italic" || value == "oblique" {
				s = s.Italic(true)
			}
		case "text-decoration", "text-decoration-line":
			for _, v := range strings.Fields(value) {
				switch v {
				case "underline":
					s = s.Underline(true)
				case "line-through":
					s = s.Strikethrough(true)
				}
			}
		}
	}

	return s
}

// parseColor accepts #rgb, #rgba, #rrggbb, #rrggbbaa and rgb()/rgba().
// Alpha is dropped.
func parseColor(v string) (color.Color, bool) {
	if hexPattern.MatchString(v) {
		h := v[1:]
		switch len(h) {
		case 3, 4:
			return lipgloss.Color(fmt.Sprintf("#%c%c%c%c%c%c", h[0], h[0], h[1], h[1], h[2], h[2])), true
		default:
			return lipgloss.Color("#" + h[:6]), true
		}
	}

	if m := rgbPattern.FindStringSubmatch(v); m != nil {
		var rgb [3]int
		for i := range rgb {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				return nil, false
			}
			rgb[i] = n
		}
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])), true
	}

	return nil, false
}

// backgroundColor resolves a decoration background, falling back to the
// palette surface color when the style leaves it empty or unparseable.
func backgroundColor(ts editor.ThemableStyle) color.Color {
	if c, ok := parseColor(strings.ToLower(strings.TrimSpace(ts.BackgroundColor))); ok {
		return c
	}
	return styles.ColorSurface
}
