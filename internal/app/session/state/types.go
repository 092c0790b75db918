// Package state provides the calculator's view state.
package state

import (
	"time"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

// Phase represents the view lifecycle phase.
type Phase int

const (
	PhaseIdle    Phase = iota // Nothing submitted yet
	PhaseLoading              // A run is in progress
	PhaseSuccess              // The last run produced a summary
	PhaseFailed               // The last run failed
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the state at one point in time.
type Snapshot struct {
	Phase     Phase
	Input     string            // Text of the last submission
	Summary   *playlist.Summary // Set only in PhaseSuccess
	ErrorKind playlist.Kind     // Set only in PhaseFailed
	Message   string            // User-facing failure message
	UpdatedAt time.Time
}

// Loading reports whether a run is in progress.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}
