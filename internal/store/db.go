// Package store persists the lead router's entities in SQLite or MySQL.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	SQLite Dialect = "sqlite"
	MySQL  Dialect = "mysql"
)

// DB wraps a database connection and the dialect its queries are written in.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Dialect returns the backend the connection speaks.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Open connects to the database. For SQLite dsn is a file path or a file: URI;
// for MySQL it is a go-sql-driver DSN.
func Open(driver, dsn string) (*DB, error) {
	switch Dialect(driver) {
	case SQLite:
		return openSQLite(dsn)
	case MySQL:
		return openMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqlitePragmas are applied to every pooled connection. Write transactions
// start with BEGIN IMMEDIATE so the ledger's read-then-update cannot deadlock
// on a lock upgrade.
var sqlitePragmas = []string{
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(1)",
	"_pragma=journal_mode(WAL)",
	"_txlock=immediate",
	"_time_format=sqlite",
}

func openSQLite(dsn string) (*DB, error) {
	memory := strings.Contains(dsn, ":memory:")
	full := dsn
	if !strings.HasPrefix(full, "file:") {
		full = "file:" + full
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	full += sep + strings.Join(sqlitePragmas, "&")

	db, err := sql.Open("sqlite", full)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{DB: db, dialect: SQLite}, nil
}

func openMySQL(dsn string) (*DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	// RowsAffected must count matched rows, not changed ones.
	cfg.ClientFoundRows = true
	cfg.MultiStatements = false

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{DB: db, dialect: MySQL}, nil
}

// forUpdate returns the row-lock suffix for SELECT statements. SQLite has no
// row locks; its write transactions already hold the database lock.
func (db *DB) forUpdate() string {
	if db.dialect == MySQL {
		return " FOR UPDATE"
	}
	return ""
}
