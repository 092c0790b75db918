package playlist

import (
	"fmt"
	"math"

	"github.com/youtube-chrono/chrono/internal/domain/duration"
)

// Multiplier is a named playback speed.
type Multiplier struct {
	Label string
	Speed float64
}

// Multipliers are the playback speeds every summary is projected to, in display order.
var Multipliers = []Multiplier{
	{Label: "1.25x", Speed: 1.25},
	{Label: "1.50x", Speed: 1.50},
	{Label: "1.75x", Speed: 1.75},
	{Label: "2.00x", Speed: 2.00},
}

// Skipped counts members that were dropped before aggregation.
type Skipped struct {
	Unavailable int // Members without a video ID
	Excluded    int // Members rejected by an optional filter
}

// Summary is the read-only aggregate of one playlist run.
type Summary struct {
	Title          string
	ID             Reference
	Creator        string
	VideoCount     int
	Unavailable    int
	Excluded       int
	Unresolved     int // Members whose duration lookup failed; they contribute zero
	TotalSeconds   int64
	AverageSeconds int64
	Total          string            // Long form of TotalSeconds
	TotalCompact   string            // Compact form of TotalSeconds
	Average        string            // Long form of AverageSeconds
	Speeds         map[string]string // Multiplier label -> long form of the projected duration
}

// NewSummary derives a summary from a collected playlist.
// A playlist without members yields ErrEmptyPlaylist.
func NewSummary(p *Playlist, skipped Skipped) (*Summary, error) {
	count := len(p.Videos)
	if count == 0 {
		return nil, ErrEmptyPlaylist
	}

	total := p.TotalSeconds()
	average := total / int64(count)
	if rem := total % int64(count); rem*2 >= int64(count) {
		average++
	}

	return &Summary{
		Title:          p.Title,
		ID:             p.ID,
		Creator:        p.Creator(),
		VideoCount:     count,
		Unavailable:    skipped.Unavailable,
		Excluded:       skipped.Excluded,
		Unresolved:     p.UnresolvedCount(),
		TotalSeconds:   total,
		AverageSeconds: average,
		Total:          duration.Encode(total),
		TotalCompact:   duration.Compact(total),
		Average:        duration.Encode(average),
		Speeds:         Project(total),
	}, nil
}

// Project divides total by every multiplier and renders the rounded result.
func Project(total int64) map[string]string {
	speeds := make(map[string]string, len(Multipliers))
	for _, m := range Multipliers {
		speeds[m.Label] = duration.Encode(ProjectSeconds(total, m.Speed))
	}
	return speeds
}

// ProjectSeconds returns round(total / speed).
func ProjectSeconds(total int64, speed float64) int64 {
	if speed <= 0 {
		return total
	}
	projected := math.Round(float64(total) / speed)
	if projected >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(projected)
}

// Range describes which members were counted, e.g. "1 to 42".
func (s *Summary) Range() string {
	return fmt.Sprintf("1 to %d", s.VideoCount)
}
