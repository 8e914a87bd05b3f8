package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// NewTestDB opens a migrated SQLite database in a temp file. A file is used
// instead of :memory: so concurrent tests get more than one connection.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open("sqlite", filepath.Join(t.TempDir(), "leadrouter.db"))
	require.NoError(t, err, "failed to create test database")

	_, err = db.Migrate(context.Background())
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestMigrate(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"operators",
		"sources",
		"leads",
		"lead_sources",
		"operator_source_priorities",
		"contacts",
		"assignment_log",
		"schema_migrations",
	}
	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	applied, err := db.Migrate(context.Background())
	require.NoError(t, err)
	require.Empty(t, applied, "second run must be a no-op")
}

func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	require.Error(t, err)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sources := NewSourceRepository(db)
	boom := errors.New("boom")

	err := db.WithinTx(ctx, func(ctx context.Context) error {
		_, err := db.conn(ctx).ExecContext(ctx,
			`INSERT INTO sources (name, created_at) VALUES (?, ?)`, "gone", time.Now().UTC())
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, total, err := sources.List(ctx, sourceListAll())
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	err := db.WithinTx(ctx, func(outer context.Context) error {
		return db.WithinTx(outer, func(inner context.Context) error {
			require.Same(t, db.conn(outer), db.conn(inner))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: leads.external_id (2067)"), repository.ErrConflict},
		{"sqlite fk", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), repository.ErrForeignKeyViolation},
		{"sqlite check", errors.New("constraint failed: CHECK constraint failed: current_load <= max_load (275)"), repository.ErrInvariantViolation},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), repository.ErrDatabase},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, repository.ErrConflict},
		{"mysql fk parent", &mysql.MySQLError{Number: 1452}, repository.ErrForeignKeyViolation},
		{"mysql fk child", &mysql.MySQLError{Number: 1451}, repository.ErrForeignKeyViolation},
		{"mysql check", &mysql.MySQLError{Number: 3819}, repository.ErrInvariantViolation},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, repository.ErrDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapErr("do thing", tt.err)
			require.ErrorIs(t, wrapped, tt.want)
			require.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("-- header; ignored\nCREATE TABLE a (id INT);\n\nCREATE INDEX i ON a(id);\n")
	require.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a(id)"}, stmts)
}
