package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/skipify/internal/collections"
	"github.com/desertthunder/skipify/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = playlistItem{}
	_ list.Item = favoriteItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song     *models.Song
	favorite bool
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist }
func (i songItem) Title() string {
	if i.favorite {
		return "♥ " + i.song.DisplayLabel()
	}
	return i.song.DisplayLabel()
}
func (i songItem) Description() string {
	parts := []string{styles.Badge(i.song.Provenance())}
	if i.song.Artist != "" {
		parts = append(parts, i.song.Artist)
	}
	if i.song.Album != "" {
		parts = append(parts, i.song.Album)
	}
	return strings.Join(parts, " • ")
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist *models.Playlist
	missing  int
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.DisplayLabel() }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%s • %d songs", styles.Badge(i.playlist.Provenance()), len(i.playlist.Songs))
	if i.missing > 0 {
		desc = fmt.Sprintf("%s • %d unresolved", desc, i.missing)
	}
	return desc
}

// favoriteItem wraps [collections.Resolved] to implement [list.Item].
type favoriteItem struct {
	resolved collections.Resolved
}

func (i favoriteItem) FilterValue() string { return i.resolved.Label }
func (i favoriteItem) Title() string       { return i.resolved.Label }
func (i favoriteItem) Description() string {
	if !i.resolved.Found() {
		return "not in library"
	}
	return styles.Badge(i.resolved.Source)
}
