// package formatter provides functions to export a user's movie list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat resolves a format name, accepting "md" and "text" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, markdown, txt or json)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	case FormatJSON:
		return ".json"
	default:
		return ".csv"
	}
}

// MovieExport is a user's movie list prepared for export.
type MovieExport struct {
	User   models.User    `json:"user"`
	Movies []models.Movie `json:"movies"`
}

// ExportToCSV converts a MovieExport to CSV format with columns: ID, Name, Director, Year, Rating, Poster
func ExportToCSV(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Director", "Year", "Rating", "Poster"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, mv := range export.Movies {
		record := []string{
			strconv.FormatInt(mv.ID, 10),
			mv.Name,
			mv.Director,
			strconv.Itoa(mv.Year),
			strconv.FormatFloat(mv.Rating, 'f', 1, 64),
			mv.Poster,
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

// ExportToMarkdown converts a MovieExport to Markdown, linking posters when present
func ExportToMarkdown(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s's movies\n\n", export.User.Name))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(export.Movies)))

	if len(export.Movies) == 0 {
		buf.WriteString("_No movies yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Name | Director | Year | Rating | Poster |\n")
	buf.WriteString("|---|------|----------|------|--------|--------|\n")
	for i, mv := range export.Movies {
		poster := ""
		if mv.Poster != "" {
			poster = fmt.Sprintf("[poster](%s)", mv.Poster)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %.1f | %s |\n",
			i+1, escapeCell(mv.Name), escapeCell(mv.Director), yearString(mv.Year), mv.Rating, poster))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a MovieExport to plain text format
func ExportToText(export *MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s\n", export.User.Name))
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(export.Movies)))

	for i, mv := range export.Movies {
		year := ""
		if mv.Year > 0 {
			year = fmt.Sprintf(" (%d)", mv.Year)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s - %s [%.1f]\n", i+1, mv.Name, year, mv.Director, mv.Rating))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a MovieExport to indented JSON
func ExportToJSON(export *MovieExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Export renders export in format.
func Export(export *MovieExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders export in format to w.
func WriteExport(w io.Writer, export *MovieExport, format Format) error {
	data, err := Export(export, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExportFile renders export in format to path.
//
// Defaults to movies_{user ID}{ext} as the filename.
func WriteExportFile(export *MovieExport, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("movies_%d%s", export.User.ID, format.Extension())
	}

	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func yearString(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// escapeCell keeps pipes from breaking a Markdown table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
