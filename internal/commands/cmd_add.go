package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/core/validate"
)

type AddCmd struct {
	flags *Flags

	// flags
	line      int
	endLine   int
	startChar int
	endChar   int
	text      string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Annotate a range of a file",
		UsageText: "codenote add <file> --line N [--end-line N] [--start-char N] [--end-char N] [--text TEXT]",
		Description: `Creates a pending note anchored to a range of the file. Lines and characters
are one-based. Without --end-char the note extends to the end of the last line.

Without --text an editor form asks for the note text.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "line",
				Aliases:     []string{"l"},
				Usage:       "first line of the range",
				Required:    true,
				Destination: &cmd.line,
			},
			&cli.IntFlag{
				Name:        "end-line",
				Usage:       "last line of the range (defaults to --line)",
				Destination: &cmd.endLine,
			},
			&cli.IntFlag{
				Name:        "start-char",
				Usage:       "first character on the first line",
				Value:       1,
				Destination: &cmd.startChar,
			},
			&cli.IntFlag{
				Name:        "end-char",
				Usage:       "character after the range on the last line (defaults to end of line)",
				Destination: &cmd.endChar,
			},
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "note text",
				Destination: &cmd.text,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c, 1, "file argument")
	if err != nil {
		return err
	}

	file, err := absPath(args[0])
	if err != nil {
		return err
	}

	nn, err := cmd.newNote(file)
	if err != nil {
		return err
	}

	if nn.Text == "" {
		text, ok, err := promptNoteText(ctx, note.Note{FileName: nn.FileName, PositionStart: nn.PositionStart})
		if err != nil {
			return fmt.Errorf("prompt note text: %w", err)
		}
		if !ok {
			return nil
		}
		nn.Text = text
	}

	n, err := cmd.flags.Notes.Add(ctx, nn)
	if err != nil {
		return fmt.Errorf("add note: %w", err)
	}

	log.Debug().Str("note_id", n.ID).Str("file", n.FileName).Msg("note added")
	_, _ = fmt.Fprintln(c.Root().Writer, n.ID)
	return nil
}

// newNote converts the one-based flags into a zero-based range and captures
// the annotated code when the file is readable.
func (cmd *AddCmd) newNote(file string) (note.NewNote, error) {
	if err := validate.LineNumber(cmd.line); err != nil {
		return note.NewNote{}, fmt.Errorf("--line %w", err)
	}
	endLine := cmd.endLine
	if endLine == 0 {
		endLine = cmd.line
	}
	if err := validate.LineNumber(cmd.startChar); err != nil {
		return note.NewNote{}, fmt.Errorf("--start-char %w", err)
	}

	start := note.Position{Line: cmd.line - 1, Character: cmd.startChar - 1}
	end := note.Position{Line: endLine - 1, Character: cmd.endChar - 1}

	lines, err := readLines(file)
	if err != nil {
		log.Warn().Err(err).Str("file", file).Msg("file unreadable, note will have no snippet")
	}

	if cmd.endChar == 0 {
		end.Character = 0
		if end.Line < len(lines) {
			end.Character = len([]rune(lines[end.Line]))
		}
	}

	return note.NewNote{
		FileName:      file,
		PositionStart: start,
		PositionEnd:   end,
		Text:          cmd.text,
		CodeSnippet:   snippet(lines, start, end),
	}, nil
}
