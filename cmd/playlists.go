package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints local playlists followed by remote ones.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.boot(ctx); err != nil {
		return err
	}

	snap := r.playlists.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.All(), false)
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d local, %d remote)", len(snap.Local), len(snap.Remote)))
	for _, p := range snap.All() {
		r.writePlain("[%-6s] %s  %d songs  (%s)\n", p.Provenance(), p.DisplayLabel(), len(p.Songs), p.ID)
	}
	return nil
}

// PlaylistsShow resolves a playlist's members against the song library.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}

	p, ok := r.playlists.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	members, err := r.playlists.Members(id, r.library.Snapshot())
	if err != nil {
		return err
	}

	r.writePlainHeader(p.DisplayLabel())
	for i, m := range members {
		source := string(m.Source)
		if !m.Found() {
			source = "missing"
		}
		r.writePlain("%d. %s [%s]\n", i+1, m.Label, source)
	}
	return nil
}

// PlaylistsCreate creates a playlist on the device, or on the server with --remote.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}
	songs := cmd.StringSlice("song")

	if cmd.Bool("remote") {
		if err := r.requireConnected(); err != nil {
			return err
		}
		if err := r.playlists.CreateRemote(ctx, name, songs); err != nil {
			return err
		}
		return r.writePlain("✓ Created remote playlist %q\n", name)
	}

	p, err := r.playlists.CreateLocal(ctx, name, songs)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created local playlist %q (%s)\n", p.Name, p.ID)
}

// PlaylistsAdd appends a song to a playlist on whichever side the playlist lives.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.boot(ctx); err != nil {
		return err
	}
	playlistID, songID := cmd.String("playlist"), cmd.String("song")

	p, ok := r.playlists.Find(playlistID)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	if err := r.playlists.AddSong(ctx, playlistID, songID, p.Provenance() == models.SourceRemote); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s to %s\n", songID, p.DisplayLabel())
}

// PlaylistsDelete removes a playlist from the device or the server.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}

	if _, ok := r.playlists.FindLocal(id); ok {
		r.playlists.DeleteLocal(ctx, id)
		return r.writePlain("✓ Deleted local playlist %s\n", id)
	}
	if _, ok := r.playlists.FindRemote(id); !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err := r.playlists.DeleteRemote(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted remote playlist %s\n", id)
}
