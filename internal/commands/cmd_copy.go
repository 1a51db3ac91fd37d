package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"
)

// CopyCmd copies note text to the system clipboard.
type CopyCmd struct {
	flags *Flags
	write func(string) error
}

// NewCopyCmd creates the copy command
func NewCopyCmd(flags *Flags) *CopyCmd {
	return &CopyCmd{flags: flags, write: clipboard.WriteAll}
}

// Register adds the copy command to the application
func (cmd *CopyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "copy",
		Usage:         "Copy the text of a note to the clipboard",
		UsageText:     "codenote copy <id>",
		ShellComplete: NoteIDCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *CopyCmd) run(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c, 1, "note id")
	if err != nil {
		return err
	}

	n, err := cmd.flags.Notes.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("note %s: %w", args[0], err)
	}

	if err := cmd.write(n.Text); err != nil {
		return fmt.Errorf("copy note %s: %w", n.ID, err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Copied note %s\n", n.ID)
	return nil
}
