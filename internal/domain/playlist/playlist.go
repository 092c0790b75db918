// Package playlist provides the Playlist domain entity and its derived summary.
package playlist

import (
	"math"

	"github.com/youtube-chrono/chrono/internal/domain/duration"
	"github.com/youtube-chrono/chrono/internal/domain/video"
)

// Reference is the opaque identifier of a remote playlist.
// It is kept exactly as extracted and passed to the platform API unchanged.
type Reference string

// String returns the reference as a plain string.
func (r Reference) String() string {
	return string(r)
}

// Playlist represents a remote playlist and the members collected from it.
type Playlist struct {
	ID     Reference     // Platform playlist ID
	Title  string        // Playlist display title
	Videos []video.Video // Members in enumeration order
}

// Page is one page of enumerated playlist members.
type Page struct {
	Videos        []video.Video
	NextPageToken string // Empty on the last page
}

// VideoIDs returns all member IDs in the playlist.
func (p *Playlist) VideoIDs() []string {
	ids := make([]string, len(p.Videos))
	for i, v := range p.Videos {
		ids[i] = v.ID
	}
	return ids
}

// TotalSeconds returns the total duration of all members, saturating at math.MaxInt64.
func (p *Playlist) TotalSeconds() int64 {
	var total int64
	for _, v := range p.Videos {
		sum, ok := duration.Add(total, v.Seconds())
		if !ok {
			return math.MaxInt64
		}
		total = sum
	}
	return total
}

// Creator returns the creator of the first member, or "" for an empty playlist.
func (p *Playlist) Creator() string {
	if len(p.Videos) == 0 {
		return ""
	}
	return p.Videos[0].Creator
}

// UnresolvedCount returns the number of members without a known duration.
func (p *Playlist) UnresolvedCount() int {
	n := 0
	for _, v := range p.Videos {
		if !v.Resolved() {
			n++
		}
	}
	return n
}
