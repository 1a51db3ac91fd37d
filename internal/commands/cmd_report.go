package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/codenote/internal/core/note"
	"github.com/colonyops/codenote/internal/core/styles"
)

type ReportCmd struct {
	flags *Flags

	// flags
	out    string
	render string
	width  int
}

// NewReportCmd creates a new report command
func NewReportCmd(flags *Flags) *ReportCmd {
	return &ReportCmd{flags: flags}
}

// Register adds the report command to the application
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Summarize notes as Markdown",
		UsageText: "codenote report [--out FILE] [--render auto|always|never]",
		Description: `Writes a Markdown report of all notes grouped by status, including the
annotated code.

With --out the raw Markdown is written to the file. Otherwise it is printed,
rendered for the terminal when stdout is a TTY (--render auto).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write the report to a file",
				Destination: &cmd.out,
			},
			&cli.StringFlag{
				Name:        "render",
				Usage:       "terminal rendering (auto, always, never)",
				Value:       "auto",
				Destination: &cmd.render,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "word wrap width for rendered output",
				Value:       100,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	notes, err := cmd.flags.Notes.List(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	md := note.Report(notes)

	if cmd.out != "" {
		if err := os.WriteFile(cmd.out, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Debug().Str("path", cmd.out).Int("notes", len(notes)).Msg("report written")
		_, _ = fmt.Fprintf(c.Root().Writer, "Report written to %s\n", cmd.out)
		return nil
	}

	render, err := cmd.shouldRender()
	if err != nil {
		return err
	}
	if !render {
		_, err = fmt.Fprint(c.Root().Writer, md)
		return err
	}

	out, err := renderMarkdown(md, cmd.width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}

func (cmd *ReportCmd) shouldRender() (bool, error) {
	switch cmd.render {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return term.IsTerminal(int(os.Stdout.Fd())), nil
	default:
		return false, fmt.Errorf("--render must be auto, always or never, got %q", cmd.render)
	}
}

// renderMarkdown renders md with the active theme's glamour style.
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
