package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/desertthunder/skipify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.Log.File
	if path == "" {
		path = "./tmp/skipify.log"
	}
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	if err := r.boot(ctx); err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Deps{
		Library:   r.library,
		Playlists: r.playlists,
		Favorites: r.favorites,
		Session:   r.session,
		Events:    r.events,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
