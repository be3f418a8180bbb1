package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/desertthunder/skipify/internal/models"
)

// maxUploadBytes bounds multipart parsing; larger bodies are rejected.
const maxUploadBytes = 64 << 20

var uploadExtensions = map[string]bool{".mp3": true, ".flac": true}

// LibraryHandler serves songs, playlists and favorites for the authenticated user.
type LibraryHandler struct {
	backend *Backend
	mux     *http.ServeMux
}

// NewLibraryHandler creates a [LibraryHandler] over backend.
func NewLibraryHandler(backend *Backend) *LibraryHandler {
	h := &LibraryHandler{backend: backend, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /songs/upload", h.upload)
	h.mux.HandleFunc("GET /songs/list", h.listSongs)
	h.mux.HandleFunc("DELETE /songs/{id}", h.deleteSong)

	h.mux.HandleFunc("POST /playlists/create", h.createPlaylist)
	h.mux.HandleFunc("GET /playlists/list", h.listPlaylists)
	h.mux.HandleFunc("PUT /playlists/{id}", h.updatePlaylist)
	h.mux.HandleFunc("DELETE /playlists/{id}", h.deletePlaylist)

	h.mux.HandleFunc("POST /favorites/mark", h.mark)
	h.mux.HandleFunc("DELETE /favorites/unmark", h.unmark)
	h.mux.HandleFunc("GET /favorites/list", h.listFavorites)
	return h
}

// Routes implements [Handler].
func (h *LibraryHandler) Routes() []string {
	return []string{
		"/songs/",
		"/playlists/",
		"/favorites/",
	}
}

// ServeHTTP implements [http.Handler].
func (h *LibraryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *LibraryHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Keine Datei")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Keine Datei")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "Keine Datei ausgewählt")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !uploadExtensions[ext] {
		writeError(w, http.StatusBadRequest, "Nur MP3/FLAC erlaubt")
		return
	}
	io.Copy(io.Discard, file)

	song := models.Song{
		Title:  valueOr(r.FormValue("title"), strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))),
		Artist: valueOr(r.FormValue("artist"), "Unbekannt"),
		Album:  r.FormValue("album"),
		Genre:  r.FormValue("genre"),
		URI:    "/uploads/" + filepath.Base(header.Filename),
	}
	stored := h.backend.AddSong(userFrom(r.Context()), song)

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Upload erfolgreich", "song": stored})
}

func (h *LibraryHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.backend.Songs(userFrom(r.Context())))
}

func (h *LibraryHandler) deleteSong(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.DeleteSong(userFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "Song nicht gefunden")
		return
	}
	writeMessage(w, http.StatusOK, "Song gelöscht")
}

type playlistBody struct {
	Name  *string  `json:"name"`
	Songs []string `json:"songs"`
}

func (h *LibraryHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var in playlistBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		writeError(w, http.StatusBadRequest, "Ungültiger Playlist-Name")
		return
	}

	p := h.backend.CreatePlaylist(userFrom(r.Context()), strings.TrimSpace(*in.Name), in.Songs)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Playlist erstellt", "playlist": p})
}

func (h *LibraryHandler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.backend.Playlists(userFrom(r.Context())))
}

func (h *LibraryHandler) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	var in playlistBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Ungültiger JSON-Body")
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		writeError(w, http.StatusBadRequest, "Ungültiger Playlist-Name")
		return
	}

	if err := h.backend.UpdatePlaylist(userFrom(r.Context()), r.PathValue("id"), in.Name, in.Songs); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "Playlist aktualisiert")
}

func (h *LibraryHandler) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.DeletePlaylist(userFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "Playlist gelöscht")
}

type favoriteBody struct {
	SongID string `json:"song_id"`
}

func decodeSongID(r *http.Request) string {
	var in favoriteBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return ""
	}
	return strings.TrimSpace(in.SongID)
}

func (h *LibraryHandler) mark(w http.ResponseWriter, r *http.Request) {
	id := decodeSongID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "song_id erforderlich")
		return
	}

	switch err := h.backend.Mark(userFrom(r.Context()), id); {
	case errors.Is(err, errSongMissing):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errAlreadyMarked):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusOK, "Favorit markiert")
	}
}

func (h *LibraryHandler) unmark(w http.ResponseWriter, r *http.Request) {
	id := decodeSongID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "song_id erforderlich")
		return
	}
	h.backend.Unmark(userFrom(r.Context()), id)
	writeMessage(w, http.StatusOK, "Favorit entfernt")
}

func (h *LibraryHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.backend.Favorites(userFrom(r.Context())))
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
