// Package filter provides the filter chain that decides which playlist members are counted.
package filter

import (
	"context"

	"github.com/youtube-chrono/chrono/internal/domain/video"
)

// Stage is the point of the pipeline at which a filter runs.
type Stage int

const (
	StageListed   Stage = iota // Member was just enumerated, duration unknown
	StageResolved              // Duration lookup for the member's page has finished
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageListed:
		return "listed"
	case StageResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "unavailable", "duration_limit_exceeded"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for member filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this filter should run at the given stage.
	AppliesTo(stage Stage) bool
	// Check performs the filter check.
	Check(ctx context.Context, v video.Video) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}
