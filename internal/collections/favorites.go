package collections

import (
	"context"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
)

// Favorites is the favorite-mark collection. Marks reference songs by id.
type Favorites struct {
	*Manager[*models.FavoriteMark]
}

// NewFavorites builds the favorites manager with the default key and kind.
func NewFavorites(cfg Config[*models.FavoriteMark]) (*Favorites, error) {
	if cfg.Kind == "" {
		cfg.Kind = "favorites"
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = FavoritesKey
	}
	m, err := NewManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Favorites{Manager: m}, nil
}

// MarkLocal records song as a device-only favorite. It reports false when already marked.
func (f *Favorites) MarkLocal(ctx context.Context, song *models.Song) bool {
	return f.CreateLocal(ctx, &models.FavoriteMark{SongID: song.ID, Title: song.Title, Artist: song.Artist})
}

// UnmarkLocal removes a device-only favorite. It reports false when it was not marked.
func (f *Favorites) UnmarkLocal(ctx context.Context, songID string) bool {
	return f.DeleteLocal(ctx, songID)
}

// MarkRemote marks songID on the server and re-fetches the favorite list.
func (f *Favorites) MarkRemote(ctx context.Context, songID string) error {
	if songID == "" {
		return shared.ErrMissingArgument
	}
	return f.CreateRemote(ctx, models.NewFavoriteMark(songID))
}

// UnmarkRemote removes songID on the server.
func (f *Favorites) UnmarkRemote(ctx context.Context, songID string) error {
	return f.DeleteRemote(ctx, songID)
}

// IsFavorite reports whether songID is marked in either sequence.
func (f *Favorites) IsFavorite(songID string) bool {
	_, ok := f.Find(songID)
	return ok
}

// Toggle flips the favorite state of song in the sequence matching its provenance and returns the new
// state. Remote songs are marked on the server.
func (f *Favorites) Toggle(ctx context.Context, song *models.Song) (bool, error) {
	if song.Provenance() == models.SourceRemote {
		if _, ok := f.FindRemote(song.ID); ok {
			return false, f.UnmarkRemote(ctx, song.ID)
		}
		return true, f.MarkRemote(ctx, song.ID)
	}

	if f.UnmarkLocal(ctx, song.ID) {
		return false, nil
	}
	return f.MarkLocal(ctx, song), nil
}

// View resolves every mark, local marks first, against the song library.
//
// Marks are not deduplicated across sources: a song marked both locally and remotely yields two rows,
// one per mark, both resolved through the same local-first lookup.
func (f *Favorites) View(songs Snapshot[*models.Song]) []Resolved {
	snap := f.Snapshot()
	marks := append(models.IDs(snap.Local), models.IDs(snap.Remote)...)

	view := MergedView(marks, songs.Local, songs.Remote)
	for i, r := range view {
		if r.Found() {
			continue
		}
		if mark, ok := f.Find(r.ID); ok && mark.Title != "" {
			view[i].Label = mark.Title
			view[i].Source = mark.Provenance()
		}
	}
	return view
}
