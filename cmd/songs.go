package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skipify/internal/collections"
	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongsList prints local songs followed by remote songs.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.boot(ctx); err != nil {
		return err
	}

	snap := r.library.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.All(), false)
	}

	r.writePlainHeader(fmt.Sprintf("Songs (%d local, %d remote)", len(snap.Local), len(snap.Remote)))
	for _, s := range snap.All() {
		r.writeSong(s)
	}
	return nil
}

func (r *Runner) writeSong(s *models.Song) {
	marker := " "
	if r.favorites != nil && r.favorites.IsFavorite(s.ID) {
		marker = "♥"
	}
	artist := s.Artist
	if artist == "" {
		artist = "Unbekannt"
	}
	r.writePlain("%s [%-6s] %s - %s  (%s)\n", marker, s.Provenance(), artist, s.DisplayLabel(), s.ID)
}

// SongsScan imports audio files from a directory, defaulting to [library] music_dir.
func (r *Runner) SongsScan(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.StringArg("dir")
	if dir == "" {
		dir = r.config.Library.MusicDir
	}
	if dir == "" {
		return fmt.Errorf("%w: directory to scan", shared.ErrMissingArgument)
	}

	if err := r.boot(ctx); err != nil {
		return err
	}

	added, err := r.library.Scan(ctx, dir)
	if err != nil {
		return err
	}
	r.logger.Info("scan complete", "dir", dir, "added", added)
	return r.writePlain("✓ Added %d songs from %s\n", added, dir)
}

// SongsUpload uploads a single local song.
func (r *Runner) SongsUpload(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}
	if err := r.requireConnected(); err != nil {
		return err
	}

	if err := r.library.Upload(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Uploaded %s\n", id)
}

// SongsUploadAll uploads every local song with a worker pool and prints progress as it goes.
func (r *Runner) SongsUploadAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.boot(ctx); err != nil {
		return err
	}
	if err := r.requireConnected(); err != nil {
		return err
	}

	done := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-r.events:
				if ev.Op == collections.OpUpload {
					r.writeProgress(ev)
				}
			case <-stop:
				for {
					select {
					case ev := <-r.events:
						if ev.Op == collections.OpUpload {
							r.writeProgress(ev)
						}
					default:
						return
					}
				}
			}
		}
	}()

	report, err := r.library.UploadAll(ctx, collections.UploadOpts{
		Workers:   cmd.Int("workers"),
		RateLimit: cmd.Float("rate"),
	})
	close(stop)
	<-done
	if report == nil {
		return err
	}

	r.writePlainln("Uploaded %d of %d songs", report.Succeeded, report.Total)
	for _, f := range report.Failed {
		r.writePlain("  ✗ %s: %s\n", f.Title, describe(f.Err))
	}
	return err
}

func (r *Runner) writeProgress(ev collections.Event) {
	status := "✓"
	if ev.Err != nil {
		status = "✗"
	}
	r.writePlain("[%d/%d] %s %s\n", ev.Step, ev.Total, status, ev.Message)
}

// SongsDelete removes a song. Local ids are deleted on the device, anything else on the server.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}

	if _, ok := r.library.FindLocal(id); ok {
		r.library.DeleteLocal(ctx, id)
		return r.writePlain("✓ Deleted local song %s\n", id)
	}
	if _, ok := r.library.FindRemote(id); !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	if err := r.library.DeleteRemote(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted remote song %s\n", id)
}

// SongsSearch fuzzy-matches the library.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if err := r.boot(ctx); err != nil {
		return err
	}

	matches := r.library.Search(query)
	if cmd.Bool("json") {
		return r.writeJSON(matches, false)
	}
	if len(matches) == 0 {
		return r.writePlain("No songs match %q\n", query)
	}
	for _, s := range matches {
		r.writeSong(s)
	}
	return nil
}
