package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/skipify/internal/models"
)

// FavoriteEndpoints covers /favorites. The server lists favorites as songs; they are reduced to marks.
type FavoriteEndpoints struct {
	client *Client
}

func (c *Client) Favorites() *FavoriteEndpoints { return &FavoriteEndpoints{client: c} }

type songRef struct {
	SongID string `json:"song_id"`
}

// List fetches GET /favorites/list.
func (e *FavoriteEndpoints) List(ctx context.Context, credential string) ([]*models.FavoriteMark, error) {
	var songs []*models.Song
	if err := e.client.do(ctx, request{method: http.MethodGet, path: "/favorites/list", credential: credential}, &songs); err != nil {
		return nil, err
	}

	marks := make([]*models.FavoriteMark, 0, len(songs))
	for _, s := range songs {
		if s == nil || s.ID == "" {
			continue
		}
		marks = append(marks, &models.FavoriteMark{SongID: s.ID, Title: s.Title, Artist: s.Artist, Origin: models.SourceRemote})
	}
	return marks, nil
}

// Create posts {song_id} to /favorites/mark.
func (e *FavoriteEndpoints) Create(ctx context.Context, credential string, mark *models.FavoriteMark) error {
	return e.send(ctx, http.MethodPost, "/favorites/mark", credential, mark.SongID)
}

// Delete sends {song_id} with DELETE /favorites/unmark.
func (e *FavoriteEndpoints) Delete(ctx context.Context, credential, songID string) error {
	return e.send(ctx, http.MethodDelete, "/favorites/unmark", credential, songID)
}

func (e *FavoriteEndpoints) send(ctx context.Context, method, path, credential, songID string) error {
	body, err := jsonBody(songRef{SongID: songID})
	if err != nil {
		return err
	}
	return e.client.do(ctx, request{
		method:      method,
		path:        path,
		credential:  credential,
		body:        body,
		contentType: "application/json",
	}, nil)
}
