// package formatter renders songs and playlist exports as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
)

// Format is an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts a format name or its common alias ("txt", "md"). Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use text, json, csv or markdown)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension used when writing f to disk.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// SongsToCSV converts songs to CSV with columns: ID, Title, Author, Duration, Source
func SongsToCSV(songs models.SongSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Author", "Duration", "Source"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{song.ID, song.Title, song.Author, strconv.Itoa(song.Duration), song.Type.String()}
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

// SongsToMarkdown renders songs as a numbered Markdown list under title
func SongsToMarkdown(title string, songs models.SongSet) []byte {
	var buf bytes.Buffer

	if title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", title)
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", songs.Len())

	for i, song := range songs {
		fmt.Fprintf(&buf, "%d. [%s](https://www.youtube.com/watch?v=%s) - %s [%s]\n",
			i+1, song.Title, song.ID, song.Author, shared.FormatDuration(song.Duration))
	}

	return buf.Bytes()
}

// SongsToText renders one line per song
func SongsToText(songs models.SongSet) []byte {
	var buf bytes.Buffer
	for i, song := range songs {
		fmt.Fprintf(&buf, "%d. %s - %s [%s] (%s)\n",
			i+1, song.Author, song.Title, shared.FormatDuration(song.Duration), song.ID)
	}
	return buf.Bytes()
}

// Render encodes songs in format. Title heads Markdown output; nextPage is appended to
// text output, and JSON output wraps both into a [models.SearchResult].
func Render(format Format, title string, songs models.SongSet, nextPage string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return shared.MarshalJSON(models.SearchResult{Songs: songs, NextPageToken: nextPage}, true)
	case FormatCSV:
		return SongsToCSV(songs)
	case FormatMarkdown:
		return SongsToMarkdown(title, songs), nil
	default:
		out := SongsToText(songs)
		if songs.Len() == 0 {
			out = []byte("No songs found.\n")
		}
		if nextPage != "" {
			out = fmt.Appendf(out, "\nNext page: %s\n", nextPage)
		}
		return out, nil
	}
}

// Write renders songs to w.
func Write(w io.Writer, format Format, title string, songs models.SongSet, nextPage string) error {
	data, err := Render(format, title, songs, nextPage)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteExport writes export to {dir}/{export.ID}{ext} and returns the file path.
func WriteExport(export *models.PlaylistExport, format Format, dir string) (string, error) {
	if export.ID == "" {
		return "", fmt.Errorf("%w: export has no playlist id", shared.ErrInvalidArgument)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if format == FormatJSON {
		data, err = shared.MarshalJSON(export, true)
	} else {
		data, err = Render(format, export.Title, export.Songs, "")
	}
	if err != nil {
		return "", fmt.Errorf("failed to render export: %w", err)
	}

	path := filepath.Join(dir, export.ID+format.Extension())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
