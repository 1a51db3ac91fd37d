package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/pkg/iojson"
)

// ExportCmd registers export and import, which move notes between stores as
// a JSON array.
type ExportCmd struct {
	flags  *Flags
	reader iojson.FileReader[[]note.Note]
}

// NewExportCmd creates the export and import commands
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export and import commands to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "export",
			Usage:     "Write all notes as a JSON array",
			UsageText: "codenote export > notes.json",
			Action:    cmd.export,
		},
		&cli.Command{
			Name:      "import",
			Usage:     "Add notes from a JSON array",
			UsageText: "codenote import [-f FILE]",
			Description: `Reads notes in the export format and adds each one as a new note. IDs are
reassigned by the store; status is kept for pending and done notes. The
sqlite backend imports all notes or none.`,
			Flags:  []cli.Flag{cmd.reader.Flag()},
			Action: cmd.importNotes,
		},
	)

	return app
}

func (cmd *ExportCmd) export(ctx context.Context, c *cli.Command) error {
	notes, err := cmd.flags.Notes.List(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, notes)
}

func (cmd *ExportCmd) importNotes(ctx context.Context, c *cli.Command) error {
	in, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	n, err := cmd.flags.Notes.Import(ctx, in)
	_, _ = fmt.Fprintf(c.Root().Writer, "Imported %d of %d notes\n", n, len(in))
	return err
}
