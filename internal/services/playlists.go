package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/skipify/internal/models"
)

// PlaylistEndpoints covers /playlists.
type PlaylistEndpoints struct {
	client *Client
}

func (c *Client) Playlists() *PlaylistEndpoints { return &PlaylistEndpoints{client: c} }

type playlistPayload struct {
	Name  string   `json:"name"`
	Songs []string `json:"songs"`
}

// List fetches GET /playlists/list, tagged remote.
func (e *PlaylistEndpoints) List(ctx context.Context, credential string) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	if err := e.client.do(ctx, request{method: http.MethodGet, path: "/playlists/list", credential: credential}, &playlists); err != nil {
		return nil, err
	}
	out := make([]*models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if p == nil || p.ID == "" {
			continue
		}
		if p.Songs == nil {
			p.Songs = []string{}
		}
		p.Tag(models.SourceRemote)
		out = append(out, p)
	}
	return out, nil
}

// Create posts {name, songs} to /playlists/create. The server assigns the id; callers re-fetch.
func (e *PlaylistEndpoints) Create(ctx context.Context, credential string, p *models.Playlist) error {
	songs := p.Songs
	if songs == nil {
		songs = []string{}
	}
	body, err := jsonBody(playlistPayload{Name: p.Name, Songs: songs})
	if err != nil {
		return err
	}

	var created struct {
		Playlist *models.Playlist `json:"playlist"`
	}
	return e.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/playlists/create",
		credential:  credential,
		body:        body,
		contentType: "application/json",
	}, &created)
}

// Update replaces the name and song list with PUT /playlists/{id}.
func (e *PlaylistEndpoints) Update(ctx context.Context, credential string, p *models.Playlist) error {
	songs := p.Songs
	if songs == nil {
		songs = []string{}
	}
	body, err := jsonBody(playlistPayload{Name: p.Name, Songs: songs})
	if err != nil {
		return err
	}

	return e.client.do(ctx, request{
		method:      http.MethodPut,
		path:        "/playlists/" + url.PathEscape(p.ID),
		credential:  credential,
		body:        body,
		contentType: "application/json",
	}, nil)
}

// Delete issues DELETE /playlists/{id}.
func (e *PlaylistEndpoints) Delete(ctx context.Context, credential, id string) error {
	return e.client.do(ctx, request{method: http.MethodDelete, path: "/playlists/" + url.PathEscape(id), credential: credential}, nil)
}
