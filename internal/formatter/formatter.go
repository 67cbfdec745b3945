// package formatter provides functions to export the selection list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
)

// Format names accepted by [ExportSelection].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return format
	}
}

// ExportToCSV converts selection items to CSV format with columns: Title, Artist, ID, AlbumCover
func ExportToCSV(items []models.SelectedItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "ID", "AlbumCover"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{item.Title, item.Artist, item.ID, coverOrEmpty(item.AlbumCover)}
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

// ExportToMarkdown converts selection items to a Markdown list under the given title
func ExportToMarkdown(items []models.SelectedItem, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Selection"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(items)))

	buf.WriteString("## Tracks\n\n")
	for i, item := range items {
		line := fmt.Sprintf("%d. %s - %s", i+1, item.Artist, item.Title)
		if item.AlbumCover != nil {
			line += fmt.Sprintf(" ([cover](%s))", *item.AlbumCover)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts selection items to plain text format
func ExportToText(items []models.SelectedItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(items)))
	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, item.Artist, item.Title))
	}

	return buf.Bytes(), nil
}

// ExportSelection renders items in the named format.
func ExportSelection(items []models.SelectedItem, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(items)
	case FormatMarkdown, "md":
		return ExportToMarkdown(items, "")
	case FormatText, "txt":
		return ExportToText(items)
	case FormatJSON:
		if items == nil {
			items = []models.SelectedItem{}
		}
		return shared.MarshalJSON(items, true)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidInput, format)
	}
}

// WriteSelection exports items to filepath in the named format.
//
// Defaults to selection_{epoch}.{ext} in the working directory as the filename.
func WriteSelection(items []models.SelectedItem, format, filepath string) (string, error) {
	data, err := ExportSelection(items, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if filepath == "" {
		filepath = fmt.Sprintf("selection_%d.%s", time.Now().Unix(), Extension(strings.ToLower(format)))
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

// FormatDuration renders milliseconds as m:ss, or h:mm:ss for an hour or more.
func FormatDuration(ms int) string {
	if ms <= 0 {
		return "0:00"
	}
	total := ms / 1000
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// TrackLine renders a track as "Artist - Title [m:ss]" for CLI output.
func TrackLine(t models.Track) string {
	line := fmt.Sprintf("%s - %s", t.ArtistNames(), t.Name)
	if t.DurationMS > 0 {
		line += fmt.Sprintf(" [%s]", FormatDuration(t.DurationMS))
	}
	return line
}

func coverOrEmpty(cover *string) string {
	if cover == nil {
		return ""
	}
	return *cover
}
