package store

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/ko2fey/test-task-mini-crm/migrations"
)

// Migrate applies every embedded migration for the dialect that has not been
// recorded in schema_migrations yet. It returns the versions it applied.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) NOT NULL PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	dir := string(db.dialect)
	entries, err := fs.ReadDir(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")

		var n int
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&n); err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", version, err)
		}
		if n > 0 {
			continue
		}

		body, err := fs.ReadFile(migrations.FS, path.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", version, err)
		}
		if err := db.applyMigration(ctx, version, string(body)); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}
	return applied, nil
}

// applyMigration runs one file. MySQL commits DDL implicitly, so a failed
// migration there may be left half applied.
func (db *DB) applyMigration(ctx context.Context, version, body string) error {
	return db.WithinTx(ctx, func(ctx context.Context) error {
		q := db.conn(ctx)
		for _, stmt := range splitStatements(body) {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", version, err)
			}
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			version, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		return nil
	})
}

// splitStatements splits a migration on semicolons, dropping comment lines.
// Migrations must not put semicolons inside literals.
func splitStatements(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
