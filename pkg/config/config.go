// Package config loads the TOML configuration consumed by the constellation
// commands: engine tuning, layout geometry, persistence backends, and the
// HTTP server address.
//
// Configuration is optional everywhere. Load with an empty path returns the
// defaults; a config file only needs the keys it wants to override.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pow3r-build/constellation/pkg/engine"
	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/layout"
)

// Config is the root configuration document.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Layout   layout.Config  `toml:"layout"`
	Store    StoreConfig    `toml:"store"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Server   ServerConfig   `toml:"server"`
}

// EngineConfig tunes the transform state machine.
type EngineConfig struct {
	// AnimationMillis is the transition duration in milliseconds,
	// clamped by the engine to its supported band.
	AnimationMillis int `toml:"animation_millis"`

	// HistorySize bounds the committed-query history.
	HistorySize int `toml:"history_size"`
}

// StoreConfig selects the key-value persistence backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", or "redis".
	Backend string `toml:"backend"`

	// Dir is the state directory for the file backend.
	// Empty means the default config location.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// SnapshotConfig selects the snapshot storage backend.
type SnapshotConfig struct {
	// Backend is one of "memory" or "mongo".
	Backend string `toml:"backend"`

	// URI is the MongoDB connection string for the mongo backend.
	URI string `toml:"uri"`

	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			AnimationMillis: int(engine.DefaultAnimationDuration / time.Millisecond),
			HistorySize:     10,
		},
		Layout: layout.DefaultConfig(),
		Store: StoreConfig{
			Backend: "memory",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Snapshot: SnapshotConfig{
			Backend:    "memory",
			URI:        "mongodb://localhost:27017",
			Database:   "constellation",
			Collection: "snapshots",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults unchanged; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that TOML decoding cannot.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", "memory", "file", "redis":
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown store backend %q (must be memory, file, or redis)", c.Store.Backend)
	}
	switch c.Snapshot.Backend {
	case "", "memory", "mongo":
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown snapshot backend %q (must be memory or mongo)", c.Snapshot.Backend)
	}
	if c.Engine.AnimationMillis < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "animation_millis must be non-negative")
	}
	if c.Engine.HistorySize < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "history_size must be non-negative")
	}
	return nil
}

// EngineConfig converts to the engine's runtime configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		AnimationDuration: time.Duration(c.Engine.AnimationMillis) * time.Millisecond,
		HistorySize:       c.Engine.HistorySize,
		Layout:            c.Layout,
	}
}

// String renders the effective configuration as TOML, for debugging.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
