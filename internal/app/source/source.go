// Package source defines the playlist platform a pipeline reads from.
package source

import (
	"context"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

// Source is the interface for playlist platforms.
// Each method issues at most one request and never retries.
type Source interface {
	// Name returns the source name (used in config).
	Name() string

	// PlaylistTitle returns the playlist title or playlist.ErrNotFound.
	PlaylistTitle(ctx context.Context, ref playlist.Reference) (string, error)

	// ListMembers returns the page of members following pageToken.
	// An empty pageToken requests the first page.
	ListMembers(ctx context.Context, ref playlist.Reference, pageToken string, pageSize int) (*playlist.Page, error)

	// Durations maps each requested ID to its duration encoding.
	// IDs the platform does not know are absent from the result.
	Durations(ctx context.Context, ids []string) (map[string]string, error)
}
