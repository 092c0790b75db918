// Package video provides the Video domain entity.
package video

import "github.com/youtube-chrono/chrono/internal/domain/duration"

// Video represents one member of a remote playlist.
type Video struct {
	ID       string // Platform video ID, empty when the member is unavailable
	Title    string // Video title
	Creator  string // Channel or artist name
	Duration string // Duration token (e.g. PT4M13S), empty until resolved
}

// Available reports whether the member can be resolved at all.
func (v *Video) Available() bool {
	return v.ID != ""
}

// Resolved reports whether a duration token is known.
func (v *Video) Resolved() bool {
	return v.Duration != ""
}

// Seconds returns the decoded duration.
func (v *Video) Seconds() int64 {
	return duration.Decode(v.Duration)
}
