package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "leadrouter.db", cfg.DB.DSN)
	require.Equal(t, 1, cfg.Assignment.MaxReserveAttempts)
	require.True(t, cfg.Metrics.Enabled)
	require.False(t, cfg.Tracing.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  driver: mysql
  dsn: "crm:secret@tcp(localhost:3306)/crm"
assignment:
  max_reserve_attempts: 3
`), 0o600))

	t.Setenv("LEADROUTER_CONFIG_PATH", path)
	t.Setenv("LEADROUTER_SERVER_PORT", "9191")
	t.Setenv("LEADROUTER_METRICS_ENABLED", "false")
	t.Setenv("LEADROUTER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "mysql", cfg.DB.Driver)
	require.Equal(t, 3, cfg.Assignment.MaxReserveAttempts)
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LEADROUTER_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"unknown driver", func(c *Config) { c.DB.Driver = "postgres" }, false},
		{"empty sqlite dsn", func(c *Config) { c.DB.DSN = "" }, false},
		{"bad mysql dsn", func(c *Config) { c.DB.Driver = "mysql"; c.DB.DSN = "no-slash" }, false},
		{"good mysql dsn", func(c *Config) { c.DB.Driver = "mysql"; c.DB.DSN = "u:p@tcp(db:3306)/crm" }, true},
		{"zero attempts", func(c *Config) { c.Assignment.MaxReserveAttempts = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
