package tasks

import (
	"fmt"

	"github.com/desertthunder/reelx/internal/models"
)

// Operation names the coordinator operation that produced an [Update].
type Operation int

const (
	OpInitialize Operation = iota
	OpTrending
	OpSearch
	OpFilter
	OpClearFilters
	OpClearSearch
	OpDetails
	OpFavorites
)

func (o Operation) String() string {
	switch o {
	case OpInitialize:
		return "initialize"
	case OpTrending:
		return "trending"
	case OpSearch:
		return "search"
	case OpFilter:
		return "filter"
	case OpClearFilters:
		return "clear_filters"
	case OpClearSearch:
		return "clear_search"
	case OpDetails:
		return "details"
	case OpFavorites:
		return "favorites"
	default:
		return ""
	}
}

// Update is sent to subscribers after each state mutation.
type Update struct {
	Op    Operation
	State State
}

// ProgressUpdate represents a progress event during a favorites export.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Export phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Export phase enumeration
type Phase int

const (
	FetchDetails Phase = iota
	DownloadPoster
	WriteFiles
)

func (p Phase) String() string {
	switch p {
	case FetchDetails:
		return "fetch_details"
	case DownloadPoster:
		return "download_poster"
	case WriteFiles:
		return "write_files"
	default:
		return ""
	}
}

func enrichStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Preparing %d favorites...", total),
	}
}

func movieCompletedUpdate(step, total int, m models.Movie) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, m.Title),
		Data:    m,
	}
}

func movieFailedUpdate(step, total int, m models.Movie, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, m.Title, err),
	}
}

func posterFailedUpdate(step, total int, m models.Movie, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] poster for %s skipped: %v", step, total, m.Title, err),
	}
}

func writeFilesUpdate(format, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %s export to %s...", format, dir),
	}
}
