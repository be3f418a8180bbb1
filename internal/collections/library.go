package collections

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// Storage keys for each kind.
const (
	SongsKey     = "songs_offline"
	PlaylistsKey = "skipify_playlists_offline"
	FavoritesKey = "skipify_favorites_offline"
)

// DefaultExtensions are the audio formats picked up by [Library.Scan].
var DefaultExtensions = []string{".mp3", ".flac", ".wav", ".m4a"}

// scanNamespace seeds deterministic ids for scanned files so a rescan finds the same songs.
var scanNamespace = uuid.MustParse("6f0c3b5e-8d1a-4c55-9a39-2f4f7f1f2a10")

// Library is the song collection.
type Library struct {
	*Manager[*models.Song]
	extensions []string
}

// NewLibrary builds the song manager. cfg.StorageKey and cfg.Kind default to the song key and "songs".
func NewLibrary(cfg Config[*models.Song], extensions []string) (*Library, error) {
	if cfg.Kind == "" {
		cfg.Kind = "songs"
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = SongsKey
	}
	m, err := NewManager(cfg)
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}

	return &Library{Manager: m, extensions: normalized}, nil
}

// Scan walks dir and adds every supported audio file as a local song. Files already in the library are
// skipped. It returns how many songs were added.
func (l *Library) Scan(ctx context.Context, dir string) (int, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	var found []*models.Song
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !l.supported(path) {
			return nil
		}
		found = append(found, songFromFile(path))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	added := l.createLocalMany(ctx, found)
	l.emit(Event{Op: OpScan, Step: added, Total: len(found), Message: root})

	l.logger.Info("scan complete", "dir", root, "found", len(found), "added", added)
	return added, nil
}

func (l *Library) supported(path string) bool {
	return slices.Contains(l.extensions, strings.ToLower(filepath.Ext(path)))
}

func songFromFile(path string) *models.Song {
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return &models.Song{
		ID:     shared.LocalIDPrefix + uuid.NewSHA1(scanNamespace, []byte(path)).String(),
		Title:  title,
		Artist: "Unbekannt",
		URI:    (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(),
	}
}

// Upload sends the local song id to the server and re-fetches the remote library.
func (l *Library) Upload(ctx context.Context, id string) error {
	song, ok := l.FindLocal(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	return l.CreateRemote(ctx, song)
}

// Search ranks songs from both sequences by fuzzy match against title, artist and album.
func (l *Library) Search(query string) []*models.Song {
	songs := l.Snapshot().All()
	if strings.TrimSpace(query) == "" {
		return songs
	}

	source := make([]string, len(songs))
	for i, s := range songs {
		source[i] = strings.Join([]string{s.Title, s.Artist, s.Album}, " ")
	}

	matches := fuzzy.Find(query, source)
	out := make([]*models.Song, 0, len(matches))
	for _, match := range matches {
		out = append(out, songs[match.Index])
	}
	return out
}
