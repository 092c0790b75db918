// Package resolver extracts playlist references from user supplied links.
package resolver

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

// Func resolves a free-form input into a playlist reference.
type Func func(input string) (playlist.Reference, error)

var listParam = regexp.MustCompile(`[?&]list=([^&]+)`)

// Resolve extracts the value of the "list" query parameter from a YouTube link,
// e.g. https://www.youtube.com/playlist?list=PLxyz or .../watch?v=abc&list=PLxyz.
func Resolve(input string) (playlist.Reference, error) {
	match := listParam.FindStringSubmatch(input)
	if match == nil {
		return "", playlist.ErrInvalidURL
	}
	id := match[1]
	// Only %XX escapes are decoded; "+" stays literal and undecodable input is kept verbatim.
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}
	if id == "" {
		return "", playlist.ErrInvalidURL
	}
	return playlist.Reference(id), nil
}

// ResolveSpotify extracts the playlist ID from a Spotify playlist URL or URI.
func ResolveSpotify(input string) (playlist.Reference, error) {
	input = strings.TrimSpace(input)

	// Spotify URI format: spotify:playlist:PLAYLIST_ID
	if strings.HasPrefix(input, "spotify:playlist:") {
		id := strings.TrimPrefix(input, "spotify:playlist:")
		if id == "" {
			return "", playlist.ErrInvalidURL
		}
		return playlist.Reference(id), nil
	}

	// URL format: https://open.spotify.com/playlist/ID or https://open.spotify.com/intl-XX/playlist/ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		id := strings.Split(parts[len(parts)-1], "?")[0]
		id = strings.TrimRight(id, "/")
		if id != "" {
			return playlist.Reference(id), nil
		}
	}

	return "", playlist.ErrInvalidURL
}

// For returns the resolver matching a source type. Unknown types use Resolve.
func For(sourceType string) Func {
	switch sourceType {
	case "spotify":
		return ResolveSpotify
	default:
		return Resolve
	}
}
