// Package cli implements the leadrouter command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ko2fey/test-task-mini-crm/internal/config"
	"github.com/ko2fey/test-task-mini-crm/internal/store"
	"github.com/ko2fey/test-task-mini-crm/internal/wire"
)

// RootCmd returns the leadrouter command with every subcommand attached.
func RootCmd(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "leadrouter",
		Short:   "Distribute incoming leads across operators",
		Version: version,
		Long: `leadrouter routes each lead arriving through a source to the active operator
with the best weight-to-load ratio for that source, and queues it when
everyone is full.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("LEADROUTER_CONFIG_PATH", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(ServeCmd(version))
	root.AddCommand(MigrateCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(CandidatesCmd())
	root.AddCommand(AssignCmd())
	root.AddCommand(CompleteCmd())

	return root
}

// env is what a command needs once configuration is loaded.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	db     *store.DB
	app    *wire.App
	// applied lists the migrations this run applied.
	applied []string
	close   func()
}

// openEnv loads config, opens and migrates the database, and wires the
// services. Logs go to logOut so stdout stays usable for command output.
func openEnv(ctx context.Context, logOut io.Writer, version string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	logger, closeLog, err := newLogger(cfg.Log.Level, logOut)
	if err != nil {
		return nil, err
	}

	if cfg.DB.Driver == string(store.SQLite) {
		if err := ensureDBDir(cfg.DB.DSN); err != nil {
			closeLog()
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
	}
	db, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	applied, err := db.Migrate(ctx)
	if err != nil {
		_ = db.Close()
		closeLog()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, v := range applied {
		logger.Info("migration applied", "version", v)
	}

	app := wire.New(db, wire.Options{
		MaxReserveAttempts: cfg.Assignment.MaxReserveAttempts,
		MetricsEnabled:     cfg.Metrics.Enabled,
		Version:            version,
		Logger:             logger,
	})
	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		app:     app,
		applied: applied,
		close: func() {
			_ = db.Close()
			closeLog()
		},
	}, nil
}

func ensureDBDir(dsn string) error {
	if dsn == ":memory:" || dsn == "" {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
