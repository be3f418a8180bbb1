package collections

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
)

// Playlists is the playlist collection.
type Playlists struct {
	*Manager[*models.Playlist]
}

// NewPlaylists builds the playlist manager with the default key and kind.
func NewPlaylists(cfg Config[*models.Playlist]) (*Playlists, error) {
	if cfg.Kind == "" {
		cfg.Kind = "playlists"
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = PlaylistsKey
	}
	m, err := NewManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Playlists{Manager: m}, nil
}

// CreateLocal creates a device-only playlist with a fresh local id.
func (p *Playlists) CreateLocal(ctx context.Context, name string, songs []string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	playlist := &models.Playlist{ID: shared.GenerateLocalID(), Name: name, Songs: nonNil(songs)}
	if !p.Manager.CreateLocal(ctx, playlist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicate, playlist.ID)
	}
	return playlist, nil
}

// CreateRemote asks the server to create a playlist; the server assigns the id.
func (p *Playlists) CreateRemote(ctx context.Context, name string, songs []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}
	return p.Manager.CreateRemote(ctx, &models.Playlist{Name: name, Songs: nonNil(songs)})
}

// AddSong appends songID to a playlist in the chosen sequence. A song already in the playlist yields
// [shared.ErrDuplicate] and changes nothing.
func (p *Playlists) AddSong(ctx context.Context, playlistID, songID string, remote bool) error {
	if songID == "" {
		return fmt.Errorf("%w: song id is required", shared.ErrMissingArgument)
	}

	lookup := p.FindLocal
	if remote {
		lookup = p.FindRemote
	}

	playlist, ok := lookup(playlistID)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	if playlist.Contains(songID) {
		return fmt.Errorf("%w: %s already in %s", shared.ErrDuplicate, songID, playlist.DisplayLabel())
	}

	next := playlist.WithSong(songID)
	if remote {
		return p.UpdateRemote(ctx, next)
	}
	p.UpdateLocal(ctx, next)
	return nil
}

// Members resolves a playlist's song ids against the library.
func (p *Playlists) Members(playlistID string, songs Snapshot[*models.Song]) ([]Resolved, error) {
	playlist, ok := p.Find(playlistID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return MergedView(playlist.Songs, songs.Local, songs.Remote), nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return append([]string{}, ids...)
}
