package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/skipify/internal/formatter"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes the library, or one playlist, as CSV, Markdown or plain text.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.boot(ctx); err != nil {
		return err
	}

	var export *formatter.Export
	if id := cmd.String("playlist"); id != "" {
		p, ok := r.playlists.Find(id)
		if !ok {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
		}
		export = formatter.ForPlaylist(p, r.library.Find)
	} else {
		export = formatter.ForSongs("Library", r.library.Snapshot().All())
	}

	output := cmd.String("output")
	switch strings.ToLower(cmd.String("format")) {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", result.SongsFile)
		return r.writePlain("✓ Wrote %s\n", result.MetadataFile)
	case "md", "markdown":
		path, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s\n", path)
	case "txt", "text":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s\n", path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, cmd.String("format"))
	}
}
