package action

import (
	"context"
	"errors"
	"testing"

	"github.com/colonyops/codenote/internal/core/editor"
	"github.com/colonyops/codenote/internal/core/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"simple id", "n1", "%22n1%22"},
		{"id with space and parens", "a b)(", "%22a%20b%29%28%22"},
		{"status payload", StatusArgs{ID: "n1", Status: note.StatusDone}, "%7B%22id%22%3A%22n1%22%2C%22status%22%3A%22done%22%7D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeArgs(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, ")")
		})
	}
}

func TestLink_RoundTrip(t *testing.T) {
	link, err := Link(CommandUpdateNoteStatus, StatusArgs{ID: `we"ird id`, Status: note.StatusPending})
	require.NoError(t, err)

	inv, err := ParseLink(link)
	require.NoError(t, err)
	assert.Equal(t, CommandUpdateNoteStatus, inv.Command)

	var args StatusArgs
	require.NoError(t, DecodeArgs(inv.RawArgs, &args))
	assert.Equal(t, `we"ird id`, args.ID)
	assert.Equal(t, note.StatusPending, args.Status)
}

func TestLink_RejectsUnknownCommand(t *testing.T) {
	_, err := Link("workbench.action.terminal.sendSequence", "rm -rf /")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestLinkWith_MarshalFailure(t *testing.T) {
	failing := func(any) ([]byte, error) { return nil, errors.New("nope") }

	_, err := LinkWith(failing, CommandRemoveNote, "n1")
	assert.ErrorContains(t, err, "encode command args")
}

func TestParseLink_Invalid(t *testing.T) {
	for _, link := range []string{"https://example.com", "command:", "command:x?%zz"} {
		_, err := ParseLink(link)
		assert.ErrorIs(t, err, ErrInvalidLink, link)
	}
}

type recorder struct {
	edited  []string
	removed []string
	status  []StatusArgs
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		EditNoteText: func(_ context.Context, id string) error {
			r.edited = append(r.edited, id)
			return nil
		},
		RemoveNote: func(_ context.Context, id string) error {
			r.removed = append(r.removed, id)
			return nil
		},
		UpdateNoteStatus: func(_ context.Context, id string, s note.Status) error {
			r.status = append(r.status, StatusArgs{ID: id, Status: s})
			return nil
		},
	}
}

func TestTable_ExecuteLink(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	table := NewTable(rec.handlers())

	edit, err := Link(CommandEditNoteText, "n1")
	require.NoError(t, err)
	remove, err := Link(CommandRemoveNote, "n2")
	require.NoError(t, err)
	toggle, err := Link(CommandUpdateNoteStatus, StatusArgs{ID: "n3", Status: note.StatusDone})
	require.NoError(t, err)

	require.NoError(t, table.ExecuteLink(ctx, edit))
	require.NoError(t, table.ExecuteLink(ctx, remove))
	require.NoError(t, table.ExecuteLink(ctx, toggle))

	assert.Equal(t, []string{"n1"}, rec.edited)
	assert.Equal(t, []string{"n2"}, rec.removed)
	assert.Equal(t, []StatusArgs{{ID: "n3", Status: note.StatusDone}}, rec.status)
}

func TestTable_RejectsBadInvocations(t *testing.T) {
	ctx := context.Background()
	table := NewTable((&recorder{}).handlers())

	tests := []struct {
		name string
		inv  Invocation
		want error
	}{
		{"unknown command", Invocation{Command: "codenote.deleteEverything", RawArgs: `"x"`}, ErrUnknownCommand},
		{"missing args", Invocation{Command: CommandRemoveNote}, ErrInvalidLink},
		{"empty id", Invocation{Command: CommandEditNoteText, RawArgs: `""`}, ErrInvalidArgs},
		{"unknown status", Invocation{Command: CommandUpdateNoteStatus, RawArgs: `{"id":"n1","status":"archived"}`}, ErrInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, table.Execute(ctx, tt.inv), tt.want)
		})
	}
}

func TestTable_NilHandlerNotRegistered(t *testing.T) {
	table := NewTable(Handlers{})

	assert.False(t, table.Has(CommandRemoveNote))
	err := table.Execute(context.Background(), Invocation{Command: CommandRemoveNote, RawArgs: `"n1"`})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestTable_ExecuteFrom(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	table := NewTable(rec.handlers())

	link, err := Link(CommandRemoveNote, "n1")
	require.NoError(t, err)

	t.Run("untrusted content", func(t *testing.T) {
		content := editor.MarkdownString{EnabledCommands: HoverCommands()}
		assert.ErrorIs(t, table.ExecuteFrom(ctx, content, link), ErrCommandNotEnabled)
	})

	t.Run("command not enabled", func(t *testing.T) {
		content := editor.MarkdownString{IsTrusted: true, EnabledCommands: []string{CommandEditNoteText}}
		assert.ErrorIs(t, table.ExecuteFrom(ctx, content, link), ErrCommandNotEnabled)
	})

	t.Run("enabled", func(t *testing.T) {
		content := editor.MarkdownString{IsTrusted: true, EnabledCommands: HoverCommands()}
		require.NoError(t, table.ExecuteFrom(ctx, content, link))
		assert.Equal(t, []string{"n1"}, rec.removed)
	})
}
