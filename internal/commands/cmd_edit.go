package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/note"
)

type EditCmd struct {
	flags *Flags

	// flags
	text string
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "edit",
		Usage:         "Change the text of a note",
		UsageText:     "codenote edit <id> [--text TEXT]",
		Description:   "Replaces the note text. Without --text a form prefilled with the current text is shown.",
		ShellComplete: NoteIDCompleter(cmd.flags),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "new note text",
				Destination: &cmd.text,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c, 1, "note id")
	if err != nil {
		return err
	}

	prompt := promptNoteText
	if cmd.text != "" {
		prompt = func(context.Context, note.Note) (string, bool, error) {
			return cmd.text, true, nil
		}
	}

	if err := cmd.flags.Notes.EditText(ctx, args[0], prompt); err != nil {
		return fmt.Errorf("edit note %s: %w", args[0], err)
	}
	return nil
}
