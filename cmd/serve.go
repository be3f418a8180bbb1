package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/desertthunder/skipify/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the in-memory development API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Development API on http://%s (ctrl+c to stop)\n", addr)
	return server.Serve(ctx, addr, server.New(server.NewBackend(), r.logger), r.logger)
}
