package tasks

import (
	"fmt"

	"github.com/desertthunder/ytcat/internal/models"
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
	FetchSource Phase = iota
	VerifySongs
	CreatePlaylist
	InsertItems
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case VerifySongs:
		return "verify_songs"
	case CreatePlaylist:
		return "create_playlist"
	case InsertItems:
		return "insert_items"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func fetchPageUpdate(page int, playlistID string, found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    page,
		Total:   0,
		Message: fmt.Sprintf("Fetched page %d of %s (%d songs so far)", page, playlistID, found),
	}
}

func verifySongsUpdate(step, total, playable int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   VerifySongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Checked %d/%d songs (%d playable)", step, total, playable),
	}
}

func creatingPlaylistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", title),
	}
}

func playlistCreatedUpdate(job *models.InsertJob) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", job.PlaylistTitle(), job.PlaylistID()),
		Data:    job,
	}
}

func insertItemUpdate(step, total int, songID string, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   InsertItems,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, songID, err),
		}
	}
	return ProgressUpdate{
		Phase:   InsertItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, songID),
	}
}

func exportCompletedUpdate(step, total int, title, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, title, path),
	}
}

func exportFailedUpdate(step, total int, playlistID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, playlistID, err),
	}
}
