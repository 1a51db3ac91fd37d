package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/action"
	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/logging"
	"github.com/colonyops/codenote/internal/decoration"
	"github.com/colonyops/codenote/internal/tui"
	"github.com/colonyops/codenote/pkg/iojson"
)

// OpenCmd registers the commands that work with hover content directly: open
// runs a command link and hover prints the hover content of a note.
type OpenCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewOpenCmd creates the open and hover commands
func NewOpenCmd(flags *Flags) *OpenCmd {
	return &OpenCmd{flags: flags}
}

// Register adds the open and hover commands to the application
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "open",
			Usage:     "Run a command link",
			UsageText: "codenote open <command:link>",
			Description: `Executes a hover action link such as

  command:codenote.updateNoteStatus?%7B%22id%22%3A%221%22%2C%22status%22%3A%22done%22%7D

The edit action opens a form for the new text.`,
			Action: cmd.open,
		},
		&cli.Command{
			Name:          "hover",
			Usage:         "Show the hover content of a note",
			UsageText:     "codenote hover <id> [--json]",
			ShellComplete: NoteIDCompleter(cmd.flags),
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "print the raw hover content as JSON",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.hover,
		},
	)

	return app
}

func (cmd *OpenCmd) open(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c, 1, "command link")
	if err != nil {
		return err
	}

	table := action.NewTable(cmd.flags.Notes.Handlers(promptNoteText))
	if err := table.ExecuteLink(ctx, args[0]); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	return nil
}

func (cmd *OpenCmd) hover(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c, 1, "note id")
	if err != nil {
		return err
	}

	n, err := cmd.flags.Notes.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("note %s: %w", args[0], err)
	}

	cfg := cmd.flags.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	content := decoration.NewHoverBuilder(logging.Component("hover")).Build(n, cfg.Decoration.HoverStyle)

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, content)
	}

	text, links := tui.RenderHover(content, 1)
	_, _ = fmt.Fprintln(out, text)
	for _, l := range links {
		_, _ = fmt.Fprintf(out, "  %d %s: %s\n", l.Key, l.Label, l.Target)
	}
	return nil
}
