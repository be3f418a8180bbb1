package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errEmailTaken     = errors.New("E-Mail existiert bereits")
	errBadCredentials = errors.New("Ungültige Anmeldedaten")
	errSongMissing    = errors.New("Song nicht gefunden oder Zugriff verweigert")
	errPlaylistDenied = errors.New("Playlist nicht gefunden oder Zugriff verweigert")
	errAlreadyMarked  = errors.New("Song ist bereits Favorit")
	errPasswordLength = errors.New("Passwort ist zu lang")
)

type account struct {
	user *models.User
	hash []byte
}

type ownedSong struct {
	owner string
	song  models.Song
}

type ownedPlaylist struct {
	owner    string
	playlist models.Playlist
}

// Backend holds all development API state in memory. Safe for concurrent use.
type Backend struct {
	mu        sync.Mutex
	accounts  map[string]*account // by lowercased email
	tokens    map[string]string   // token to user id
	songs     []*ownedSong
	playlists []*ownedPlaylist
	favorites map[string][]string // user id to song ids
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		accounts:  map[string]*account{},
		tokens:    map[string]string{},
		favorites: map[string][]string{},
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// passwordCost is the bcrypt work factor for stored passwords.
var passwordCost = bcrypt.DefaultCost

func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// Register creates an account. The email is matched case-insensitively.
func (b *Backend) Register(name, email, password string) (*models.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errPasswordLength
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[key]; ok {
		return nil, errEmailTaken
	}

	user := &models.User{ID: newID(), Name: strings.TrimSpace(name), Email: key}
	b.accounts[key] = &account{user: user, hash: hash}

	copied := *user
	return &copied, nil
}

// Login verifies credentials and issues a new bearer token.
func (b *Backend) Login(email, password string) (string, *models.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	b.mu.Lock()
	acct, ok := b.accounts[key]
	b.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return "", nil, errBadCredentials
	}

	token := newToken()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = acct.user.ID

	copied := *acct.user
	return token, &copied, nil
}

// Authorize resolves a bearer token to its user id.
func (b *Backend) Authorize(token string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.tokens[token]
	return id, ok
}

// AddSong stores song metadata for owner and returns the stored copy.
func (b *Backend) AddSong(owner string, song models.Song) models.Song {
	song.ID = newID()
	song.Origin = ""

	b.mu.Lock()
	defer b.mu.Unlock()
	b.songs = append(b.songs, &ownedSong{owner: owner, song: song})
	return song
}

// Songs lists owner's songs in upload order.
func (b *Backend) Songs(owner string) []models.Song {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []models.Song{}
	for _, s := range b.songs {
		if s.owner == owner {
			out = append(out, s.song)
		}
	}
	return out
}

// DeleteSong removes a song along with any favorite marks on it.
func (b *Backend) DeleteSong(owner, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.songs, func(s *ownedSong) bool { return s.owner == owner && s.song.ID == id })
	if i < 0 {
		return errSongMissing
	}
	b.songs = slices.Delete(b.songs, i, i+1)
	b.favorites[owner] = slices.DeleteFunc(b.favorites[owner], func(s string) bool { return s == id })
	return nil
}

func (b *Backend) ownsSong(owner, id string) (models.Song, bool) {
	for _, s := range b.songs {
		if s.owner == owner && s.song.ID == id {
			return s.song, true
		}
	}
	return models.Song{}, false
}

// CreatePlaylist stores a playlist for owner. Empty song ids are dropped.
func (b *Backend) CreatePlaylist(owner, name string, songs []string) models.Playlist {
	p := models.Playlist{ID: newID(), Name: name, Songs: compact(songs)}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.playlists = append(b.playlists, &ownedPlaylist{owner: owner, playlist: p})
	return p
}

// Playlists lists owner's playlists.
func (b *Backend) Playlists(owner string) []models.Playlist {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []models.Playlist{}
	for _, p := range b.playlists {
		if p.owner == owner {
			cp := p.playlist
			cp.Songs = slices.Clone(p.playlist.Songs)
			if cp.Songs == nil {
				cp.Songs = []string{}
			}
			out = append(out, cp)
		}
	}
	return out
}

// UpdatePlaylist replaces whichever of name and songs is non-nil.
func (b *Backend) UpdatePlaylist(owner, id string, name *string, songs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.playlists {
		if p.owner != owner || p.playlist.ID != id {
			continue
		}
		if name != nil {
			p.playlist.Name = *name
		}
		if songs != nil {
			p.playlist.Songs = compact(songs)
		}
		return nil
	}
	return errPlaylistDenied
}

// DeletePlaylist removes one of owner's playlists.
func (b *Backend) DeletePlaylist(owner, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.playlists, func(p *ownedPlaylist) bool { return p.owner == owner && p.playlist.ID == id })
	if i < 0 {
		return errPlaylistDenied
	}
	b.playlists = slices.Delete(b.playlists, i, i+1)
	return nil
}

// Mark favorites one of owner's songs.
func (b *Backend) Mark(owner, songID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.ownsSong(owner, songID); !ok {
		return errSongMissing
	}
	if slices.Contains(b.favorites[owner], songID) {
		return errAlreadyMarked
	}
	b.favorites[owner] = append(b.favorites[owner], songID)
	return nil
}

// Unmark removes a favorite. Unknown ids are ignored.
func (b *Backend) Unmark(owner, songID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.favorites[owner] = slices.DeleteFunc(b.favorites[owner], func(s string) bool { return s == songID })
}

// Favorites returns owner's favorite songs in marking order.
func (b *Backend) Favorites(owner string) []models.Song {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []models.Song{}
	for _, id := range b.favorites[owner] {
		if song, ok := b.ownsSong(owner, id); ok {
			out = append(out, song)
		}
	}
	return out
}

func compact(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
