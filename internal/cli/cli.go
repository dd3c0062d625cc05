// Package cli implements the constellation command-line interface.
//
// This package provides commands for ingesting project status feeds,
// exporting diagrams, serving the HTTP API, and browsing the graph
// interactively in the terminal. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - ingest: Load a status feed and print the canonical model summary
//   - export: Generate Mermaid, DOT, or SVG diagrams from a status feed
//   - serve: Run the HTTP API for browser frontends
//   - browse: Explore the graph interactively in the terminal
//   - snapshot: Manage saved workspace snapshots
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The shared
// logger lives on the CLI struct and is handed to collaborators explicitly.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/pow3r-build/constellation/pkg/config"
	"github.com/pow3r-build/constellation/pkg/persist"
	"github.com/pow3r-build/constellation/pkg/snapshot"
)

// appName is the application name used for directories and display.
const appName = "constellation"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// stateDir returns the state directory using the XDG standard
// (~/.local/state/constellation/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// newStore builds the key-value store selected by the configuration.
func (c *CLI) newStore(ctx context.Context, cfg *config.Config) (persist.Store, error) {
	switch cfg.Store.Backend {
	case "file":
		dir := cfg.Store.Dir
		if dir == "" {
			d, err := stateDir()
			if err != nil {
				return persist.NewMemoryStore(), nil
			}
			dir = d
		}
		return persist.NewFileStore(dir)
	case "redis":
		return persist.NewRedisStore(ctx, persist.RedisConfig{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.Prefix,
		})
	default:
		return persist.NewMemoryStore(), nil
	}
}

// newSnapshotStore builds the snapshot store selected by the configuration.
func (c *CLI) newSnapshotStore(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	if cfg.Snapshot.Backend == "mongo" {
		return snapshot.NewMongoStore(ctx, snapshot.MongoConfig{
			URI:        cfg.Snapshot.URI,
			Database:   cfg.Snapshot.Database,
			Collection: cfg.Snapshot.Collection,
		})
	}
	return snapshot.NewMemoryStore(), nil
}
