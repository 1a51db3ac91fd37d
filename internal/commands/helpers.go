package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/core/styles"
	"github.com/colonyops/codenote/internal/core/validate"
)

// requireArgs returns the positional arguments, or an error naming what is
// missing when there are fewer than n.
func requireArgs(c *cli.Command, n int, what string) ([]string, error) {
	args := c.Args().Slice()
	if len(args) < n {
		return nil, fmt.Errorf("missing %s", what)
	}
	return args, nil
}

// absPath resolves p against the working directory. Notes are keyed by the
// absolute path so that the same file matches from any directory.
func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}

// readLines returns the lines of path without line terminators.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// snippet returns the text between start and end, with end exclusive.
// Positions outside lines are clamped.
func snippet(lines []string, start, end note.Position) string {
	if len(lines) == 0 || start.Line >= len(lines) {
		return ""
	}
	endLine := min(end.Line, len(lines)-1)

	var b strings.Builder
	for i := start.Line; i <= endLine; i++ {
		r := []rune(lines[i])
		from, to := 0, len(r)
		if i == start.Line {
			from = min(start.Character, len(r))
		}
		if i == end.Line {
			to = min(end.Character, len(r))
		}
		if i > start.Line {
			b.WriteByte('\n')
		}
		if from < to {
			b.WriteString(string(r[from:to]))
		}
	}
	return b.String()
}

// firstLine returns the first line of s, marking truncation with an ellipsis.
func firstLine(s string, limit int) string {
	line, _, cut := strings.Cut(s, "\n")
	r := []rune(line)
	if len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	if cut {
		return line + " …"
	}
	return line
}

// statusLabel renders a status with its icon and color.
func statusLabel(s note.Status) string {
	switch s {
	case note.StatusPending:
		return styles.StatusPendingStyle.Render(styles.IconPending + " pending")
	case note.StatusDone:
		return styles.StatusDoneStyle.Render(styles.IconCheck + " done")
	default:
		return styles.StatusUnknownStyle.Render(styles.IconError + " unknown")
	}
}

// promptNoteText asks for a note text in an interactive form, prefilled with
// n.Text. A user abort is reported as a cancelled prompt, not an error.
func promptNoteText(_ context.Context, n note.Note) (string, bool, error) {
	text := n.Text

	title := "Note text"
	if n.ID != "" {
		title = fmt.Sprintf("Edit note %s", n.ID)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description(fmt.Sprintf("%s:%d", n.FileName, n.Line())).
				Validate(validateText).
				Value(&text),
		),
	).WithTheme(styles.FormTheme()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// confirm asks a yes/no question. Aborting counts as no.
func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(styles.FormTheme()).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func validateText(s string) error {
	return validate.NoteText(s)
}
