package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/moviweb/internal/server"
	"github.com/desertthunder/moviweb/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve starts the web app and blocks until SIGINT or SIGTERM.
//
// The OMDb key is required here: without it no movie can ever be added.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	data, err := r.store()
	if err != nil {
		return err
	}

	lookup, err := r.movieLookup(ctx)
	if err != nil {
		return fmt.Errorf("failed to create lookup service: %w", err)
	}

	handler, err := web.NewHandler(data, lookup, r.logger)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	srv, err := server.New(cfg, handler.Router(), r.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting web app", "addr", srv.Addr(), "database", r.config.Database.Path)
	r.writePlain("Serving on http://%s (Ctrl+C to stop)\n", srv.Addr())

	if err := srv.Run(ctx); err != nil {
		return err
	}

	r.logger.Info("web app stopped")
	return nil
}
