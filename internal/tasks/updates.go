package tasks

import (
	"fmt"
	"time"

	"github.com/desertthunder/trackdown/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current entry number (1-based)
	Total   int    // Total entries in the playlist
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Searching Phase = iota
	Downloading
	Tagging
	NotFound
)

func (p Phase) String() string {
	switch p {
	case Searching:
		return "searching"
	case Downloading:
		return "downloading"
	case Tagging:
		return "tagging"
	case NotFound:
		return "not_found"
	default:
		return ""
	}
}

func searchingUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Searching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching: %s", query),
	}
}

func downloadedUpdate(step, total int, eta time.Duration) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Downloading,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloaded %d/%d, ETA: %s", step, total, shared.FormatETA(eta)),
	}
}

func notFoundUpdate(step, total int, title, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   NotFound,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, title, reason),
	}
}

func taggingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Tagging,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Tagging: %s", path),
	}
}
