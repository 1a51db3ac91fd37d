package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NoteIDCompleter returns a ShellCompleteFunc that suggests note IDs as
// positional completions, with the note text as the description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func NoteIDCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Notes == nil {
			return
		}
		notes, err := flags.Notes.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, n := range notes {
			_, _ = fmt.Fprintf(w, "%s:%s\n", n.ID, firstLine(n.Text, 40))
		}
	}
}
