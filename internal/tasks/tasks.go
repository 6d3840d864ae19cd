// package tasks implements bulk movie operations on top of the gateway and the lookup client.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Importer imports movies for a user by title.
// Contains dependencies on the persistence gateway and the lookup client.
type Importer struct {
	data   models.DataManager
	lookup models.MovieLookup
	logger *log.Logger
}

// NewImporter creates a new [Importer].
func NewImporter(data models.DataManager, lookup models.MovieLookup, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{
		data:   data,
		lookup: lookup,
		logger: shared.WithLogger(logger, "component", "tasks"),
	}
}

// TitleResult represents the outcome of importing a single title.
type TitleResult struct {
	Title string        // Title as given
	Movie *models.Movie // Stored movie (nil unless imported)
	Found bool          // Whether the lookup resolved the title
	Error error         // Storage error, if the title was found but not stored
}

// Imported reports whether the title ended up in storage.
func (r TitleResult) Imported() bool {
	return r.Movie != nil && r.Error == nil
}

// BulkImportResult summarizes a [Importer.BulkImport] run.
type BulkImportResult struct {
	UserID   int64         // Owner of the imported movies
	Total    int           // Number of titles requested
	Imported int           // Titles looked up and stored
	NotFound int           // Titles the lookup could not resolve
	Failed   int           // Titles found but not stored
	Results  []TitleResult // Per-title results in input order
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (i *Importer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}

// ReadTitles reads one title per line from r.
//
// Surrounding whitespace is trimmed; blank lines and '#' comments are skipped.
func ReadTitles(r io.Reader) ([]string, error) {
	titles := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read titles: %w", err)
	}
	return titles, nil
}
