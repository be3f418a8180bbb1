package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges email and password for a bearer token and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	email := cmd.String("email")
	r.logger.Info("logging in", "email", email, "server", r.api.BaseURL())

	if err := r.session.Authenticate(ctx, r.api, email, cmd.String("password")); err != nil {
		return err
	}

	state := r.session.State()
	return r.writePlain("✓ Logged in as %s\n", state.User.DisplayLabel())
}

// AuthRegister creates an account on the server. It does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	email := cmd.String("email")
	if err := r.api.Register(ctx, cmd.String("name"), email, cmd.String("password")); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, describe(err))
	}

	r.writePlain("✓ Account created for %s\n", email)
	return r.writePlain("Run 'skipify auth login -e %s' to connect\n", email)
}

// AuthOffline switches to guest mode and drops the stored token.
func (r *Runner) AuthOffline(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	r.session.EnterDisconnectedMode(ctx)
	return r.writePlain("✓ Working offline as %s\n", r.session.State().User.DisplayLabel())
}

// AuthLogout forgets the session entirely.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	r.session.Logout(ctx)
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus prints the resolved mode and identity.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	state := r.session.State()
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"mode": state.Mode, "user": state.User}, false)
	}

	r.writePlainHeader("Session")
	r.writePlain("Mode:   %s\n", state.Mode)
	r.writePlain("Server: %s\n", r.api.BaseURL())
	switch {
	case state.User == nil:
		r.writePlain("User:   none (run 'skipify auth login' or 'skipify auth offline')\n")
	case state.Guest():
		r.writePlain("User:   %s (guest)\n", state.User.DisplayLabel())
	default:
		r.writePlain("User:   %s <%s>\n", state.User.DisplayLabel(), state.User.Email)
	}
	return nil
}
