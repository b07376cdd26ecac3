package tasks

import (
	"fmt"

	"github.com/desertthunder/spotdir/internal/models"
)

// ProgressUpdate represents one entry of a sync run's progress log.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase   `json:"phase" yaml:"phase"`                     // Operation phase
	Outcome Outcome `json:"outcome" yaml:"outcome"`                 // Result of the step
	Step    int     `json:"step" yaml:"step"`                       // Current step number within phase
	Total   int     `json:"total" yaml:"total"`                     // Total steps in this phase
	Message string  `json:"message" yaml:"message"`                 // Human-readable message for display
	Query   string  `json:"query,omitempty" yaml:"query,omitempty"` // Search query, for per-item entries
	Data    any     `json:"-" yaml:"-"`                             // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	CreatePlaylist
	SearchTracks
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Outcome classifies a log entry.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFound
	OutcomeMissing
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFound:
		return "found"
	case OutcomeMissing:
		return "missing"
	case OutcomeFailed:
		return "failed"
	default:
		return ""
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func profileUpdate(p *models.Profile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Outcome: OutcomeOK,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("👤 Logged in as %s", p.Name()),
		Data:    p,
	}
}

func profileFailedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Outcome: OutcomeFailed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("❌ Could not load profile: %v", err),
	}
}

func createPlaylistUpdate(c *models.Collection) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Outcome: OutcomeOK,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("📁 Created playlist: %s", c.URL),
		Data:    c,
	}
}

func createPlaylistFailedUpdate(name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Outcome: OutcomeFailed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("❌ Could not create playlist %q: %v", name, err),
	}
}

func foundUpdate(step, total int, query, uri string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Outcome: OutcomeFound,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✔ Found: %s", query),
		Query:   query,
		Data:    uri,
	}
}

func notFoundUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Outcome: OutcomeMissing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("❌ Not found: %s", query),
		Query:   query,
	}
}

func searchFailedUpdate(step, total int, query string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Outcome: OutcomeFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("⚠️ Error searching \"%s\": %v", query, err),
		Query:   query,
		Data:    err,
	}
}

func addedTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Outcome: OutcomeOK,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("🎉 Added %d tracks!", count),
	}
}

func noTracksUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Outcome: OutcomeMissing,
		Step:    1,
		Total:   1,
		Message: "😕 No tracks found.",
	}
}

func addTracksFailedUpdate(count int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Outcome: OutcomeFailed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("❌ Could not add %d tracks: %v", count, err),
	}
}
