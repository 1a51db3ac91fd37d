package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/internal/core/logging"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

const schemaTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at INTEGER NOT NULL
)`

var errMigrationName = errors.New("want NNNN_name.up.sql or NNNN_name.down.sql")

// MigrationState is one schema version and whether it is applied.
type MigrationState struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	Applied   bool      `json:"applied"`
	AppliedAt time.Time `json:"applied_at,omitzero"`
}

// step holds both directions of one schema version.
type step struct {
	version int
	name    string
	up      string
	down    string
}

// readSteps collects the *.sql files at the root of fsys. Every version must
// have a non-empty up and down file sharing one name.
func readSteps(fsys fs.FS) ([]step, error) {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	byVersion := make(map[int]*step, len(files)/2)
	for _, file := range files {
		version, name, up, err := splitMigrationName(file)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", file, err)
		}

		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", file, err)
		}

		s, ok := byVersion[version]
		if !ok {
			s = &step{version: version, name: name}
			byVersion[version] = s
		}
		if s.name != name {
			return nil, fmt.Errorf("version %04d is used by %q and %q", version, s.name, name)
		}

		dst := &s.down
		if up {
			dst = &s.up
		}
		if *dst != "" {
			return nil, fmt.Errorf("version %04d has two %s files", version, direction(up))
		}
		*dst = string(body)
	}

	steps := make([]step, 0, len(byVersion))
	for _, s := range byVersion {
		if strings.TrimSpace(s.up) == "" || strings.TrimSpace(s.down) == "" {
			return nil, fmt.Errorf("version %04d (%s) needs both an up and a down file", s.version, s.name)
		}
		steps = append(steps, *s)
	}
	slices.SortFunc(steps, func(a, b step) int { return cmp.Compare(a.version, b.version) })

	return steps, nil
}

func direction(up bool) string {
	if up {
		return "up"
	}
	return "down"
}

// splitMigrationName parses "0002_notes_created_order.up.sql" into
// 2, "notes_created_order", true.
func splitMigrationName(file string) (version int, name string, up bool, err error) {
	base, up := strings.CutSuffix(file, ".up.sql")
	if !up {
		var down bool
		if base, down = strings.CutSuffix(file, ".down.sql"); !down {
			return 0, "", false, errMigrationName
		}
	}

	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", false, errMigrationName
	}

	version, err = strconv.Atoi(num)
	if err != nil || version < 1 {
		return 0, "", false, errMigrationName
	}
	return version, name, up, nil
}

func embeddedSteps() ([]step, error) {
	sub, err := fs.Sub(schemaFS, "migrations")
	if err != nil {
		return nil, err
	}
	return readSteps(sub)
}

// migrator moves the schema of db between versions, one transaction per step.
type migrator struct {
	db     *DB
	steps  []step
	logger zerolog.Logger
}

func (db *DB) migrator() (*migrator, error) {
	steps, err := embeddedSteps()
	if err != nil {
		return nil, err
	}
	return &migrator{db: db, steps: steps, logger: logging.Component("db")}, nil
}

// applied returns the applied versions and when each was applied.
func (m *migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	if _, err := m.db.conn.ExecContext(ctx, schemaTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := m.db.conn.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at int64
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("read schema_migrations: %w", err)
		}
		out[version] = time.Unix(0, at)
	}
	return out, rows.Err()
}

func (m *migrator) up(ctx context.Context) (int, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, s := range m.steps {
		if _, ok := done[s.version]; ok {
			continue
		}

		m.logger.Info().Int("version", s.version).Str("name", s.name).Msg("applying migration")
		err := m.db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, s.up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
				s.version, s.name, time.Now().UnixNano())
			return err
		})
		if err != nil {
			return count, fmt.Errorf("apply %04d_%s: %w", s.version, s.name, err)
		}
		count++
	}
	return count, nil
}

func (m *migrator) down(ctx context.Context, n int) ([]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", n)
	}

	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var revert []step
	for _, s := range slices.Backward(m.steps) {
		if _, ok := done[s.version]; ok {
			revert = append(revert, s)
		}
	}
	if n > len(revert) {
		return nil, fmt.Errorf("cannot revert %d migrations, %d applied", n, len(revert))
	}

	reverted := make([]int, 0, n)
	for _, s := range revert[:n] {
		m.logger.Info().Int("version", s.version).Str("name", s.name).Msg("reverting migration")
		err := m.db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, s.down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", s.version)
			return err
		})
		if err != nil {
			return reverted, fmt.Errorf("revert %04d_%s: %w", s.version, s.name, err)
		}
		reverted = append(reverted, s.version)
	}
	return reverted, nil
}

// Migrate applies every pending migration and returns how many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	m, err := db.migrator()
	if err != nil {
		return 0, err
	}
	return m.up(ctx)
}

// MigrateDown reverts the newest n applied migrations and returns their
// versions, newest first.
func (db *DB) MigrateDown(ctx context.Context, n int) ([]int, error) {
	m, err := db.migrator()
	if err != nil {
		return nil, err
	}
	return m.down(ctx, n)
}

// Migrations lists every known schema version in ascending order.
func (db *DB) Migrations(ctx context.Context) ([]MigrationState, error) {
	m, err := db.migrator()
	if err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationState, len(m.steps))
	for i, s := range m.steps {
		at, ok := done[s.version]
		out[i] = MigrationState{Version: s.version, Name: s.name, Applied: ok}
		if ok {
			out[i].AppliedAt = at
		}
	}
	return out, nil
}
