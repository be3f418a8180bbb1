package models

import (
	"slices"
	"strings"
)

// Source records where an entity came from. It is provenance only and never part of identity.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Entity is implemented by every kind a collection manager can own.
//
// Implementations use pointer receivers so [Entity.Tag] can stamp provenance in place.
type Entity interface {
	EntityID() string     // unique within its kind and source
	DisplayLabel() string // human-readable label for merged views
	Provenance() Source
	Tag(Source)
}

var (
	_ Entity = (*User)(nil)
	_ Entity = (*Song)(nil)
	_ Entity = (*Playlist)(nil)
	_ Entity = (*FavoriteMark)(nil)
)

// User is the session identity returned by /auth/login or synthesized for guests.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Origin Source `json:"source,omitempty"`
}

// GuestUser returns the identity used while disconnected.
func GuestUser() *User {
	return &User{ID: "offline", Name: "Gast", Email: "offline@skipify.com", Origin: SourceLocal}
}

// IsGuest reports whether u is the synthesized offline identity.
func (u *User) IsGuest() bool { return u != nil && u.ID == "offline" }

func (u *User) EntityID() string { return u.ID }
func (u *User) Provenance() Source { return u.Origin }
func (u *User) Tag(s Source)       { u.Origin = s }

// Clone returns an independent copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (u *User) DisplayLabel() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// Song is a playable track, either a file on the device or an upload on the server.
type Song struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Genre  string `json:"genre,omitempty"`
	URI    string `json:"uri,omitempty"`
	Origin Source `json:"source,omitempty"`
}

func (s *Song) EntityID() string   { return s.ID }
func (s *Song) Provenance() Source { return s.Origin }
func (s *Song) Tag(src Source)     { s.Origin = src }

// Clone returns an independent copy of s.
func (s *Song) Clone() *Song {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *Song) DisplayLabel() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return s.ID
}

// Playlist is a named, ordered list of song id references.
type Playlist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Songs  []string `json:"songs"`
	Origin Source   `json:"source,omitempty"`
}

func (p *Playlist) EntityID() string   { return p.ID }
func (p *Playlist) Provenance() Source { return p.Origin }
func (p *Playlist) Tag(s Source)       { p.Origin = s }

// Clone returns a copy of p that shares no song slice with it.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	c := *p
	c.Songs = slices.Clone(p.Songs)
	return &c
}

func (p *Playlist) DisplayLabel() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.ID
}

// Contains reports whether songID is already in the playlist.
func (p *Playlist) Contains(songID string) bool {
	for _, id := range p.Songs {
		if id == songID {
			return true
		}
	}
	return false
}

// WithSong returns a copy of p with songID appended.
func (p *Playlist) WithSong(songID string) *Playlist {
	next := *p
	next.Songs = append(append([]string{}, p.Songs...), songID)
	return &next
}

// FavoriteMark is a reference-only membership record for a favorited song.
//
// Title and Artist are only populated for marks derived from the server's favorites list.
type FavoriteMark struct {
	SongID string `json:"song_id"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Origin Source `json:"source,omitempty"`
}

// NewFavoriteMark creates an unresolved mark for songID.
func NewFavoriteMark(songID string) *FavoriteMark {
	return &FavoriteMark{SongID: songID}
}

func (f *FavoriteMark) EntityID() string   { return f.SongID }
func (f *FavoriteMark) Provenance() Source { return f.Origin }
func (f *FavoriteMark) Tag(s Source)       { f.Origin = s }

// Clone returns an independent copy of f.
func (f *FavoriteMark) Clone() *FavoriteMark {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func (f *FavoriteMark) DisplayLabel() string {
	if strings.TrimSpace(f.Title) != "" {
		return f.Title
	}
	return f.SongID
}

// IDs returns the entity ids of items in order.
func IDs[T Entity](items []T) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.EntityID()
	}
	return ids
}

// Mode is the connectivity mode that routes collection operations.
type Mode string

const (
	ModeLoading      Mode = "loading"
	ModeConnected    Mode = "connected"
	ModeDisconnected Mode = "disconnected"
)
