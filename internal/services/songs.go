package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
)

// SongEndpoints covers /songs.
type SongEndpoints struct {
	client *Client
}

func (c *Client) Songs() *SongEndpoints { return &SongEndpoints{client: c} }

// List fetches GET /songs/list, tagged remote.
func (e *SongEndpoints) List(ctx context.Context, credential string) ([]*models.Song, error) {
	var songs []*models.Song
	if err := e.client.do(ctx, request{method: http.MethodGet, path: "/songs/list", credential: credential}, &songs); err != nil {
		return nil, err
	}
	out := make([]*models.Song, 0, len(songs))
	for _, s := range songs {
		if s != nil && s.ID != "" {
			s.Tag(models.SourceRemote)
			out = append(out, s)
		}
	}
	return out, nil
}

// Create uploads the file referenced by song.URI with the song's metadata.
func (e *SongEndpoints) Create(ctx context.Context, credential string, song *models.Song) error {
	if credential == "" {
		return shared.Unauthenticated()
	}

	path := filePath(song.URI)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: cannot open %s: %v", shared.ErrInvalidInput, path, err)
	}
	defer f.Close()

	return e.Upload(ctx, credential, filepath.Base(path), f, song)
}

// Upload posts a multipart form to /songs/upload with the upload-class deadline.
func (e *SongEndpoints) Upload(ctx context.Context, credential, filename string, content io.Reader, meta *models.Song) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	if meta != nil {
		fields := [][2]string{
			{"title", meta.Title},
			{"artist", meta.Artist},
			{"album", meta.Album},
			{"genre", meta.Genre},
		}
		for _, kv := range fields {
			if kv[1] == "" {
				continue
			}
			if err := form.WriteField(kv[0], kv[1]); err != nil {
				return fmt.Errorf("failed to write form field %s: %w", kv[0], err)
			}
		}
	}

	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	return e.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/songs/upload",
		credential:  credential,
		body:        &buf,
		contentType: form.FormDataContentType(),
		timeout:     e.client.uploadTimeout,
	}, nil)
}

// Delete issues DELETE /songs/{id}.
func (e *SongEndpoints) Delete(ctx context.Context, credential, id string) error {
	return e.client.do(ctx, request{method: http.MethodDelete, path: "/songs/" + url.PathEscape(id), credential: credential}, nil)
}

// filePath accepts a plain path or a file:// URI.
func filePath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		if u, err := url.Parse(uri); err == nil {
			return u.Path
		}
	}
	return uri
}
