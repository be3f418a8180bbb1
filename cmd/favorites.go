package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints every mark resolved against the library.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.boot(ctx); err != nil {
		return err
	}

	view := r.favorites.View(r.library.Snapshot())
	if cmd.Bool("json") {
		return r.writeJSON(view, false)
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(view)))
	for _, f := range view {
		source := string(f.Source)
		if !f.Found() {
			source = "missing"
		}
		r.writePlain("♥ %s [%s]  (%s)\n", f.Label, source, f.ID)
	}
	return nil
}

// FavoritesToggle marks or unmarks a song on the side the song lives.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}

	song, ok := r.library.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	on, err := r.favorites.Toggle(ctx, song)
	if err != nil {
		return err
	}
	if on {
		return r.writePlain("♥ Marked %s\n", song.DisplayLabel())
	}
	return r.writePlain("✓ Unmarked %s\n", song.DisplayLabel())
}
