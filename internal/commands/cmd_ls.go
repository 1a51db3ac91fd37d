package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	glob       string
	status     string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List notes",
		UsageText: "codenote ls [--json] [--glob PATTERN] [--status pending|done]",
		Description: `Displays a table of notes in creation order with their status and location.

Use --glob to keep notes whose file matches a doublestar pattern such as
'**/*.go'. Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "glob",
				Aliases:     []string{"g"},
				Usage:       "only notes whose file matches the pattern",
				Destination: &cmd.glob,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "only notes with this status (pending, done)",
				Destination: &cmd.status,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	all, err := cmd.flags.Notes.List(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	notes, err := filterNotes(all, cmd.glob, cmd.status)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, n := range notes {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode note: %w", err)
			}
		}
		return nil
	}

	if len(notes) == 0 {
		fmt.Fprintf(os.Stderr, "No notes found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tLOCATION\tTEXT")
	for _, n := range notes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s:%d\t%s\n", n.ID, statusLabel(n.Status), n.FileName, n.Line(), firstLine(n.Text, 60))
	}
	return w.Flush()
}

// filterNotes keeps notes matching the doublestar pattern and status. Empty
// arguments do not filter.
func filterNotes(notes []note.Note, glob, status string) ([]note.Note, error) {
	if glob != "" && !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("invalid glob pattern %q", glob)
	}

	var want note.Status
	if status != "" {
		want = note.ParseStatus(status)
		if !want.Known() {
			return nil, fmt.Errorf("status must be pending or done, got %q", status)
		}
	}

	out := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		if want != note.StatusUnknown && n.Status != want {
			continue
		}
		if glob != "" && !matchFile(glob, n.FileName) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// matchFile matches pattern against the full path or, for relative patterns,
// against any path suffix.
func matchFile(pattern, file string) bool {
	if ok, _ := doublestar.PathMatch(pattern, file); ok {
		return true
	}
	if len(pattern) > 0 && pattern[0] != '/' {
		ok, _ := doublestar.PathMatch("**/"+pattern, file)
		return ok
	}
	return false
}
