package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Assignment AssignmentConfig `yaml:"assignment"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig selects the store backend. DSN is a file path for sqlite and a
// go-sql-driver DSN for mysql.
type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AssignmentConfig struct {
	// MaxReserveAttempts is how many ranked candidates a single arrival tries
	// before queueing.
	MaxReserveAttempts int `yaml:"max_reserve_attempts"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Output is stderr, stdout or a file path.
	Output string `yaml:"output"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "leadrouter.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Assignment: AssignmentConfig{
			MaxReserveAttempts: 1,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			Output: "stderr",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("LEADROUTER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("LEADROUTER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("LEADROUTER_SERVER_PORT", &cfg.Server.Port); err != nil {
		return Config{}, err
	}
	if driver := os.Getenv("LEADROUTER_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if dsn := os.Getenv("LEADROUTER_DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if level := os.Getenv("LEADROUTER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if err := envInt("LEADROUTER_ASSIGNMENT_MAX_RESERVE_ATTEMPTS", &cfg.Assignment.MaxReserveAttempts); err != nil {
		return Config{}, err
	}
	if err := envBool("LEADROUTER_METRICS_ENABLED", &cfg.Metrics.Enabled); err != nil {
		return Config{}, err
	}
	if err := envBool("LEADROUTER_TRACING_ENABLED", &cfg.Tracing.Enabled); err != nil {
		return Config{}, err
	}
	if output := os.Getenv("LEADROUTER_TRACING_OUTPUT"); output != "" {
		cfg.Tracing.Output = output
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.DSN == "" {
			return fmt.Errorf("db dsn is required")
		}
	case "mysql":
		if _, err := mysql.ParseDSN(c.DB.DSN); err != nil {
			return fmt.Errorf("invalid mysql dsn: %w", err)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if c.Assignment.MaxReserveAttempts < 1 {
		return fmt.Errorf("assignment.max_reserve_attempts must be at least 1, got %d", c.Assignment.MaxReserveAttempts)
	}
	return nil
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func envBool(name string, dst *bool) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
