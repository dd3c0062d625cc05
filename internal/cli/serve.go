package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pow3r-build/constellation/pkg/api"
	"github.com/pow3r-build/constellation/pkg/engine"
	"github.com/pow3r-build/constellation/pkg/ingest"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		data string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP for browser frontends",
		Long: `Serve the engine over HTTP.

The server exposes the render frame, search, transform, drag, export, and
snapshot operations as a JSON API under /api. A frontend drives the scene
by polling /api/frame and posting interactions.

With --data, a status feed is loaded at startup; otherwise the engine
starts empty and a feed can be posted to /api/data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, data)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&data, "data", "", "status feed to load at startup")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr, data string) error {
	ctx := cmd.Context()

	cfg, err := configFromCmd(cmd)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := c.newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer store.Close()

	snaps, err := c.newSnapshotStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize snapshot store: %w", err)
	}
	defer snaps.Close(context.Background())

	eng := engine.New(cfg.EngineConfig(),
		engine.WithLogger(c.Logger),
		engine.WithStore(store))
	if err := eng.RestoreHistory(ctx); err != nil {
		c.Logger.Warn("restoring search history", "error", err)
	}

	if data != "" {
		f, err := os.Open(data)
		if err != nil {
			return fmt.Errorf("open %s: %w", data, err)
		}
		m, _, err := ingest.ReadJSON(f, c.Logger)
		f.Close()
		if err != nil {
			return err
		}
		if err := eng.Load(m); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(eng, snaps, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
