package filter

import (
	"context"

	"github.com/youtube-chrono/chrono/internal/domain/video"
)

const (
	// UnavailableFilterName is the registry name of the unavailable filter.
	UnavailableFilterName = "unavailable_filter"
	// CodeUnavailable is returned for members without a video ID.
	CodeUnavailable = "unavailable"
)

// UnavailableFilter drops members the platform no longer exposes (no video ID).
type UnavailableFilter struct{}

// NewUnavailableFilter creates a new unavailable filter.
func NewUnavailableFilter() *UnavailableFilter {
	return &UnavailableFilter{}
}

func (f *UnavailableFilter) Name() string {
	return UnavailableFilterName
}

func (f *UnavailableFilter) Description() string {
	return "Skips playlist members without a video ID (always enabled)"
}

func (f *UnavailableFilter) ReturnCodes() []string {
	return []string{CodeUnavailable}
}

func (f *UnavailableFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *UnavailableFilter) AppliesTo(stage Stage) bool {
	return stage == StageListed
}

func (f *UnavailableFilter) Check(ctx context.Context, v video.Video) Result {
	if !v.Available() {
		return Reject(CodeUnavailable)
	}
	return Accept()
}

func init() {
	Register(UnavailableFilterName, func() Filter {
		return NewUnavailableFilter()
	})
}
