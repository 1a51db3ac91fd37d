package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/logging"
	"github.com/colonyops/codenote/internal/decoration"
	"github.com/colonyops/codenote/internal/notes"
	"github.com/colonyops/codenote/internal/tui"
)

const busBuffer = 256

type ViewCmd struct {
	flags *Flags

	// flags
	noteID string
}

// NewViewCmd creates a new view command
func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

// Register adds the view command to the application
func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Open files in the terminal editor with notes highlighted",
		UsageText: "codenote view <file>... | codenote view --note <id> [file]...",
		Description: `Shows the files side by side. Annotated ranges are highlighted and the notes
under the cursor are shown with numbered actions: press a digit to run one,
or y to copy the note text.

With --note the note's file is opened, added to any files given, and the
cursor starts at the beginning of the note.

Decorations follow changes to the config file and to the notes made from
other terminals.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "note",
				Usage:       "open the file of note `ID` at its start position",
				Destination: &cmd.noteID,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	args, jump, err := cmd.targets(ctx, c)
	if err != nil {
		return err
	}

	docs, err := tui.OpenDocuments(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := eventbus.New(busBuffer)
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	go bus.Start(ctx)

	svc := notes.New(cmd.flags.Backend.Store, bus, logging.Component("notes"))
	if err := cmd.flags.Backend.WatchExternal(bus, logging.Component("store")); err != nil {
		log.Warn().Err(err).Msg("external note changes will not be picked up")
	}

	provider := config.NewProvider(cmd.flags.Config)
	watcher, err := config.Watch(cmd.flags.ConfigPath, provider, logging.Component("config"), func(cfg *config.Config) {
		bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Config: cfg})
	})
	if err != nil {
		log.Warn().Err(err).Str("path", cmd.flags.ConfigPath).Msg("config changes will not be picked up")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	eventbus.NewNotificationRouter(bus).Register()

	panes := tui.NewPanes(docs)
	surface := tui.NewSurface(tui.Views(panes))

	renderer := decoration.NewRenderer(surface, svc, provider, logging.Component("decoration"))
	coordinator := decoration.NewCoordinator(bus, renderer, logging.Component("decoration"))
	coordinator.Activate(ctx)
	defer coordinator.Deactivate()

	m := tui.NewModel(tui.Options{
		Panes:   panes,
		Surface: surface,
		Bus:     bus,
		Config:  provider,
		Notes:   svc,
		Logger:  logging.Component("tui"),
		Jump:    jump,
	})

	if err := m.Run(ctx); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	return nil
}

// targets returns the files to open and, with --note, where the cursor
// starts. The note's file is appended unless it is already listed.
func (cmd *ViewCmd) targets(ctx context.Context, c *cli.Command) ([]string, *tui.Jump, error) {
	args := c.Args().Slice()
	if cmd.noteID == "" {
		if len(args) == 0 {
			return nil, nil, fmt.Errorf("missing file argument")
		}
		return args, nil, nil
	}

	n, err := cmd.flags.Notes.Get(ctx, cmd.noteID)
	if err != nil {
		return nil, nil, fmt.Errorf("note %s: %w", cmd.noteID, err)
	}

	listed := false
	for _, a := range args {
		if abs, err := absPath(a); err == nil && abs == n.FileName {
			listed = true
			break
		}
	}
	if !listed {
		args = append(args, n.FileName)
	}

	return args, &tui.Jump{FileName: n.FileName, Position: n.PositionStart}, nil
}
