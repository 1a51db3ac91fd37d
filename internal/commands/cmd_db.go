package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/styles"
	"github.com/colonyops/codenote/internal/data/db"
	"github.com/colonyops/codenote/pkg/iojson"
)

var errNotSQLite = errors.New("the db commands need the sqlite storage backend")

// DBCmd registers schema maintenance commands for the sqlite backend.
type DBCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	steps      int
	yes        bool
}

// NewDBCmd creates the db command
func NewDBCmd(flags *Flags) *DBCmd {
	return &DBCmd{flags: flags}
}

// Register adds db status, db migrate and db rollback
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Inspect and migrate the note database schema",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "List schema migrations and whether each is applied",
				UsageText: "codenote db status [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "print migrations as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.status,
			},
			{
				Name:      "migrate",
				Usage:     "Apply pending schema migrations",
				UsageText: "codenote db migrate",
				Action:    cmd.migrate,
			},
			{
				Name:      "rollback",
				Usage:     "Revert the newest schema migrations",
				UsageText: "codenote db rollback [--steps N] [--yes]",
				Description: `Reverts migrations newest first, for example before downgrading codenote.
Reverting the first migration drops every note. The next codenote command
migrates the schema forward again.`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Aliases:     []string{"n"},
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.rollback,
			},
		},
	})

	return app
}

func (cmd *DBCmd) database() (*db.DB, error) {
	if cmd.flags.Backend == nil || cmd.flags.Backend.Database() == nil {
		return nil, errNotSQLite
	}
	return cmd.flags.Backend.Database(), nil
}

func (cmd *DBCmd) status(ctx context.Context, c *cli.Command) error {
	database, err := cmd.database()
	if err != nil {
		return err
	}

	states, err := database.Migrations(ctx)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, states)
	}

	_, _ = fmt.Fprintln(out, styles.CommandHeaderStyle.Render(database.Path()))
	for _, s := range states {
		mark := styles.StatusPendingStyle.Render(styles.IconPending + " pending")
		when := ""
		if s.Applied {
			mark = styles.StatusDoneStyle.Render(styles.IconCheck + " applied")
			when = " " + styles.MutedStyle.Render(s.AppliedAt.Format("2006-01-02 15:04"))
		}
		_, _ = fmt.Fprintf(out, "  %04d %-24s %s%s\n", s.Version, s.Name, mark, when)
	}
	return nil
}

func (cmd *DBCmd) migrate(ctx context.Context, c *cli.Command) error {
	database, err := cmd.database()
	if err != nil {
		return err
	}

	n, err := database.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Applied %d migrations\n", n)
	return nil
}

func (cmd *DBCmd) rollback(ctx context.Context, c *cli.Command) error {
	database, err := cmd.database()
	if err != nil {
		return err
	}

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("Revert %d schema migrations?", cmd.steps))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	reverted, err := database.MigrateDown(ctx, cmd.steps)
	for _, v := range reverted {
		_, _ = fmt.Fprintf(c.Root().Writer, "Reverted %04d\n", v)
	}
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
