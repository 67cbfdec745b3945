package tasks

import "fmt"

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
	ParseURL Phase = iota
	ExpandPlaylist
	MapTracks
	AppendSelection
)

func (p Phase) String() string {
	switch p {
	case ParseURL:
		return "parse_url"
	case ExpandPlaylist:
		return "expand_playlist"
	case MapTracks:
		return "map_tracks"
	case AppendSelection:
		return "append_selection"
	default:
		return ""
	}
}

const importSteps = 4

func parseURLUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseURL,
		Step:    1,
		Total:   importSteps,
		Message: "Parsing playlist URL...",
		Data:    url,
	}
}

func expandPlaylistUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExpandPlaylist,
		Step:    2,
		Total:   importSteps,
		Message: fmt.Sprintf("Expanding playlist %s...", playlistID),
		Data:    playlistID,
	}
}

func mapTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MapTracks,
		Step:    3,
		Total:   importSteps,
		Message: fmt.Sprintf("Mapping %d tracks...", count),
		Data:    count,
	}
}

func appendSelectionUpdate(added, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendSelection,
		Step:    4,
		Total:   importSteps,
		Message: fmt.Sprintf("Added %d of %d tracks to selection", added, total),
		Data:    added,
	}
}
