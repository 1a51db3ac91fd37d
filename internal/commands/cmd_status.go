package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/note"
)

// StatusCmd registers the commands that change note status and remove notes.
type StatusCmd struct {
	flags *Flags

	// flags
	yes bool
}

// NewStatusCmd creates the status commands
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds check, uncheck, check-all, uncheck-all, rm and clear
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	complete := NoteIDCompleter(cmd.flags)

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:          "check",
			Usage:         "Mark notes as done",
			UsageText:     "codenote check <id>...",
			ShellComplete: complete,
			Action:        cmd.setStatus(note.StatusDone),
		},
		&cli.Command{
			Name:          "uncheck",
			Usage:         "Mark notes as pending",
			UsageText:     "codenote uncheck <id>...",
			ShellComplete: complete,
			Action:        cmd.setStatus(note.StatusPending),
		},
		&cli.Command{
			Name:      "check-all",
			Usage:     "Mark every note as done",
			UsageText: "codenote check-all",
			Action:    cmd.setAll(note.StatusDone),
		},
		&cli.Command{
			Name:      "uncheck-all",
			Usage:     "Mark every note as pending",
			UsageText: "codenote uncheck-all",
			Action:    cmd.setAll(note.StatusPending),
		},
		&cli.Command{
			Name:          "rm",
			Usage:         "Remove notes",
			UsageText:     "codenote rm <id>...",
			ShellComplete: complete,
			Action:        cmd.remove,
		},
		&cli.Command{
			Name:      "clear",
			Usage:     "Remove every note",
			UsageText: "codenote clear [--yes]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "yes",
					Aliases:     []string{"y"},
					Usage:       "skip the confirmation prompt",
					Destination: &cmd.yes,
				},
			},
			Action: cmd.clear,
		},
	)

	return app
}

func (cmd *StatusCmd) setStatus(status note.Status) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		ids, err := requireArgs(c, 1, "note id")
		if err != nil {
			return err
		}
		return eachID(ids, func(id string) error {
			return cmd.flags.Notes.UpdateStatus(ctx, id, status)
		})
	}
}

func (cmd *StatusCmd) setAll(status note.Status) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		if err := cmd.flags.Notes.SetAllStatus(ctx, status); err != nil {
			return fmt.Errorf("set all notes %s: %w", status, err)
		}
		return nil
	}
}

func (cmd *StatusCmd) remove(ctx context.Context, c *cli.Command) error {
	ids, err := requireArgs(c, 1, "note id")
	if err != nil {
		return err
	}
	return eachID(ids, func(id string) error {
		return cmd.flags.Notes.Remove(ctx, id)
	})
}

func (cmd *StatusCmd) clear(ctx context.Context, c *cli.Command) error {
	if !cmd.yes {
		ok, err := confirm("Remove every note?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := cmd.flags.Notes.RemoveAll(ctx); err != nil {
		return fmt.Errorf("remove notes: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "All notes removed")
	return nil
}

// eachID applies fn to every id and joins the failures.
func eachID(ids []string, fn func(id string) error) error {
	var errs []error
	for _, id := range ids {
		if err := fn(id); err != nil {
			errs = append(errs, fmt.Errorf("note %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
