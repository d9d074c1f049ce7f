// Package config loads the two configuration surfaces the server needs:
// the game/world config (JSON, matching original_source's json_loader) and
// the operational config (TOML, covering concerns the client-facing JSON
// format doesn't: bind address, logging, DB pool sizing).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// OpsConfig holds deployment concerns that have no client-visible JSON
// representation.
type OpsConfig struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	BindAddress string `toml:"bind_address"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoadOps reads an OpsConfig from path, falling back to opsDefaults() entirely
// if path is empty (the -o/--ops-config flag is optional).
func LoadOps(path string) (*OpsConfig, error) {
	cfg := opsDefaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ops config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse ops config %s: %w", path, err)
	}
	return cfg, nil
}

func opsDefaults() *OpsConfig {
	return &OpsConfig{
		Server: ServerConfig{
			BindAddress: "0.0.0.0:8080",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
