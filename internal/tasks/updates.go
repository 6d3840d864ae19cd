package tasks

import (
	"fmt"

	"github.com/desertthunder/moviweb/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ImportStart Phase = iota
	LookupTitles
	ImportDone
)

func (p Phase) String() string {
	switch p {
	case ImportStart:
		return "import_start"
	case LookupTitles:
		return "lookup_titles"
	case ImportDone:
		return "import_done"
	default:
		return ""
	}
}

func importStartUpdate(total int, user models.User) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d titles for %s...", total, user.Name),
		Data:    user,
	}
}

func titleImportedUpdate(step, total int, mv *models.Movie) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, mv.Name),
		Data:    mv,
	}
}

func titleNotFoundUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ? %s: not found", step, total, title),
	}
}

func titleFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func importDoneUpdate(res *BulkImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportDone,
		Step:    res.Total,
		Total:   res.Total,
		Message: fmt.Sprintf("Imported %d of %d titles (%d not found, %d failed)", res.Imported, res.Total, res.NotFound, res.Failed),
		Data:    res,
	}
}
