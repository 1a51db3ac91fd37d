package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func tableExists(t *testing.T, database *DB, name string) bool {
	t.Helper()
	var n int
	err := database.Conn().QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestOpen_MigratesFreshDatabase(t *testing.T) {
	database := openTestDB(t)

	_, err := os.Stat(database.Path())
	require.NoError(t, err)
	assert.True(t, tableExists(t, database, "notes"))

	states, err := database.Migrations(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)
	for _, s := range states {
		assert.True(t, s.Applied, "version %d", s.Version)
		assert.False(t, s.AppliedAt.IsZero())
	}
	assert.Equal(t, "notes", states[0].Name)
	assert.Equal(t, "notes_created_order", states[1].Name)
}

func TestMigrate_NothingPending(t *testing.T) {
	database := openTestDB(t)

	n, err := database.Migrate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_KeepsRowsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	_, err = first.Conn().ExecContext(ctx, `
		INSERT INTO notes (id, file_name, start_line, start_character, end_line, end_character, text, created_at, updated_at)
		VALUES ('n1', '/a.ts', 2, 0, 2, 10, 'fix this', 1, 1)
	`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	var text string
	require.NoError(t, second.Conn().QueryRowContext(ctx, "SELECT text FROM notes WHERE id = 'n1'").Scan(&text))
	assert.Equal(t, "fix this", text)
}

func TestMigrateDown_NewestFirst(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	reverted, err := database.MigrateDown(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, reverted)

	states, err := database.Migrations(ctx)
	require.NoError(t, err)
	assert.True(t, states[0].Applied)
	assert.False(t, states[1].Applied)
	assert.True(t, states[1].AppliedAt.IsZero())

	reverted, err = database.MigrateDown(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, reverted)
	assert.False(t, tableExists(t, database, "notes"))

	n, err := database.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, tableExists(t, database, "notes"))
}

func TestMigrateDown_Bounds(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	for _, n := range []int{0, -1, 3} {
		_, err := database.MigrateDown(ctx, n)
		assert.Error(t, err, "steps=%d", n)
	}

	states, err := database.Migrations(ctx)
	require.NoError(t, err)
	for _, s := range states {
		assert.True(t, s.Applied, "a rejected rollback must not touch version %d", s.Version)
	}
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	insert := func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, file_name, start_line, start_character, end_line, end_character, text, created_at, updated_at)
			VALUES ('n1', '/a.ts', 0, 0, 0, 1, 'x', 1, 1)
		`)
		return err
	}
	count := func(database *DB) int {
		var n int
		require.NoError(t, database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		database := openTestDB(t)
		require.NoError(t, database.WithTx(ctx, insert))
		assert.Equal(t, 1, count(database))
	})

	t.Run("rollback", func(t *testing.T) {
		database := openTestDB(t)
		abort := errors.New("abort")
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			require.NoError(t, insert(tx))
			return abort
		})
		require.ErrorIs(t, err, abort)
		assert.Zero(t, count(database))
	})
}

func TestReadSteps(t *testing.T) {
	body := &fstest.MapFile{Data: []byte("SELECT 1;")}

	t.Run("embedded", func(t *testing.T) {
		steps, err := embeddedSteps()
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, 1, steps[0].version)
		assert.Equal(t, 2, steps[1].version)
		assert.Contains(t, steps[0].up, "CREATE TABLE")
		assert.Contains(t, steps[0].down, "DROP TABLE")
	})

	t.Run("sorted by version", func(t *testing.T) {
		steps, err := readSteps(fstest.MapFS{
			"0010_b.up.sql":   body,
			"0010_b.down.sql": body,
			"0002_a.up.sql":   body,
			"0002_a.down.sql": body,
		})
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, []int{2, 10}, []int{steps[0].version, steps[1].version})
	})

	bad := map[string]fstest.MapFS{
		"missing down": {"0001_a.up.sql": body},
		"missing up":   {"0001_a.down.sql": body},
		"name mismatch": {
			"0001_a.up.sql":   body,
			"0001_b.down.sql": body,
		},
		"empty body": {
			"0001_a.up.sql":   body,
			"0001_a.down.sql": {Data: []byte("  \n")},
		},
		"bad name": {"initial.sql": body},
	}
	for name, files := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := readSteps(files)
			assert.Error(t, err)
		})
	}
}

func TestSplitMigrationName(t *testing.T) {
	tests := []struct {
		file    string
		version int
		name    string
		up      bool
		wantErr bool
	}{
		{file: "0001_notes.up.sql", version: 1, name: "notes", up: true},
		{file: "0001_notes.down.sql", version: 1, name: "notes"},
		{file: "0002_notes_created_order.up.sql", version: 2, name: "notes_created_order", up: true},
		{file: "0100_x.down.sql", version: 100, name: "x"},
		{file: "notes.sql", wantErr: true},
		{file: "0001_notes.sql", wantErr: true},
		{file: "0000_zero.up.sql", wantErr: true},
		{file: "-3_neg.down.sql", wantErr: true},
		{file: "v1_notes.up.sql", wantErr: true},
		{file: "0001_.up.sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, up, err := splitMigrationName(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, errMigrationName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.up, up)
		})
	}
}
