package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aevon-lab/toppick/internal/core/reportdef"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TOPPICK_"

// Config represents the top-level application config plus the loaded report definitions.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Report   ReportConfig   `koanf:"report"`
	Log      LogConfig      `koanf:"log"`

	// Reports is populated by Load after parsing definition files.
	Reports *reportdef.MemoryRepository `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Driver          string `koanf:"driver"` // sqlite | postgres
	DSN             string `koanf:"dsn"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
	ConnectAttempts uint   `koanf:"connect_attempts"`
}

type ReportConfig struct {
	DefinitionsDir string `koanf:"definitions_dir"`
	RequireReports bool   `koanf:"require_reports"`
	WorkerCount    int    `koanf:"worker_count"`
	VerifyPushdown bool   `koanf:"verify_pushdown"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database.driver %q (must be sqlite or postgres)", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	// zero attempts would retry forever
	if c.Database.ConnectAttempts == 0 {
		return fmt.Errorf("database.connect_attempts must be > 0")
	}

	if strings.TrimSpace(c.Report.DefinitionsDir) == "" {
		return fmt.Errorf("report.definitions_dir is required")
	}
	if c.Report.WorkerCount <= 0 {
		return fmt.Errorf("report.worker_count must be > 0")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}

	return nil
}

// Load parses config from file + env, validates it, then loads and validates report definitions.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":               8080,
		"server.host":               "0.0.0.0",
		"server.mode":               "release",
		"database.driver":           "sqlite",
		"database.dsn":              "file:chinook.db?mode=ro",
		"database.max_open_conns":   4,
		"database.max_idle_conns":   4,
		"database.auto_migrate":     false,
		"database.connect_attempts": 3,
		"report.definitions_dir":    "./config/reports",
		"report.require_reports":    false,
		"report.worker_count":       4,
		"report.verify_pushdown":    false,
		"log.level":                 "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := reportdef.NewFileSystemRepository(cfg.Report.DefinitionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load report definitions: %w", err)
	}
	if repo.Len() == 0 {
		if cfg.Report.RequireReports {
			return nil, fmt.Errorf("no report definitions found in %q", cfg.Report.DefinitionsDir)
		}
		repo.EnsureDefault()
	}
	cfg.Reports = repo

	return &cfg, nil
}
