// package formatter exports song and playlist snapshots to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/skipify/internal/models"
)

// Export is a named, ordered set of songs ready to be written out.
//
// Missing holds playlist members that could not be resolved against the library.
type Export struct {
	Name       string         `json:"name"`
	PlaylistID string         `json:"playlist_id,omitempty"`
	Source     models.Source  `json:"source,omitempty"`
	Songs      []*models.Song `json:"-"`
	Missing    []string       `json:"missing,omitempty"`
	ExportedAt time.Time      `json:"exported_at"`
}

// ForSongs wraps a song list, such as a library snapshot, as an [Export].
func ForSongs(name string, songs []*models.Song) *Export {
	return &Export{Name: name, Songs: songs, ExportedAt: time.Now().UTC()}
}

// ForPlaylist resolves each member of p through lookup, preserving playlist order.
func ForPlaylist(p *models.Playlist, lookup func(id string) (*models.Song, bool)) *Export {
	export := &Export{
		Name:       p.Name,
		PlaylistID: p.ID,
		Source:     p.Provenance(),
		ExportedAt: time.Now().UTC(),
	}
	for _, id := range p.Songs {
		if song, ok := lookup(id); ok {
			export.Songs = append(export.Songs, song)
		} else {
			export.Missing = append(export.Missing, id)
		}
	}
	return export
}

// ExportToCSV converts an Export to CSV format with columns: ID, Title, Artist, Album, Genre, Source
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Genre", "Source"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			song.Album,
			song.Genre,
			string(song.Provenance()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to Markdown format
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Name)
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(export.Songs))
	if export.Source != "" {
		fmt.Fprintf(&buf, "**Source**: %s\n", export.Source)
	}
	buf.WriteString("\n## Songs\n\n")

	for i, song := range export.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, artistOf(song), song.DisplayLabel(), albumPart)
	}

	if len(export.Missing) > 0 {
		buf.WriteString("\n## Missing\n\n")
		for _, id := range export.Missing {
			fmt.Fprintf(&buf, "- `%s`\n", id)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Name)
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(export.Songs))

	for i, song := range export.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, artistOf(song), song.DisplayLabel())
	}
	if len(export.Missing) > 0 {
		fmt.Fprintf(&buf, "\nMissing: %s\n", strings.Join(export.Missing, ", "))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of export metadata (without songs)
func ToMetadataJSON(export *Export) ([]byte, error) {
	meta := struct {
		*Export
		SongCount int `json:"song_count"`
	}{export, len(export.Songs)}
	return json.MarshalIndent(meta, "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport writes {base}_songs.csv and {base}_metadata.json.
//
// base defaults to the playlist id, or the export name for plain song lists.
func WriteCSVExport(export *Export, base string) (*CSVExportResult, error) {
	if base == "" {
		base = defaultBase(export)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := base + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := base + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{SongsFile: songsFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport writes {dir}/README.md, creating dir if needed.
func WriteMarkdownExport(export *Export, dir string) (string, error) {
	if dir == "" {
		dir = defaultBase(export)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return mdFile, nil
}

// WriteTextExport writes a plain text export, defaulting to {base}_songs.txt.
func WriteTextExport(export *Export, path string) (string, error) {
	if path == "" {
		path = defaultBase(export) + "_songs.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

func defaultBase(export *Export) string {
	if export.PlaylistID != "" {
		return export.PlaylistID
	}
	name := strings.ToLower(strings.Join(strings.Fields(export.Name), "_"))
	if name == "" {
		return "songs"
	}
	return name
}

func artistOf(song *models.Song) string {
	if song.Artist == "" {
		return "Unbekannt"
	}
	return song.Artist
}
