// Package spotify provides a playlist source backed by the Spotify Web API.
package spotify

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/youtube-chrono/chrono/internal/domain/duration"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/domain/video"
)

const (
	// MaxPageSize is the largest page the playlist items endpoint accepts.
	MaxPageSize = 100
	// MaxTrackBatch is the largest batch the tracks endpoint accepts.
	MaxTrackBatch = 50
)

// Client is a Spotify API client.
type Client struct {
	client *spotify.Client
	market string
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
	BaseURL      string // API base URL override, must end with a slash
	TokenURL     string // token endpoint override
}

// New creates a new Spotify client authenticated with the client credentials flow.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	var opts []spotify.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: spotify.New(creds.Client(ctx), opts...),
		market: cfg.Market,
	}, nil
}

// Name returns the source name.
func (c *Client) Name() string {
	return "spotify"
}

func (c *Client) marketOpts() []spotify.RequestOption {
	if c.market == "" {
		return nil
	}
	return []spotify.RequestOption{spotify.Market(c.market)}
}

// PlaylistTitle returns the playlist name.
func (c *Client) PlaylistTitle(ctx context.Context, ref playlist.Reference) (string, error) {
	opts := append(c.marketOpts(), spotify.Fields("name"))
	p, err := c.client.GetPlaylist(ctx, spotify.ID(ref), opts...)
	if err != nil {
		return "", classify(err, "failed to get playlist")
	}
	if p.Name == "" {
		return "Untitled Playlist", nil
	}
	return p.Name, nil
}

// ListMembers returns one page of playlist items. The continuation token is the
// offset of the next page.
func (c *Client) ListMembers(ctx context.Context, ref playlist.Reference, pageToken string, pageSize int) (*playlist.Page, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return nil, errors.Newf("invalid page token: %q", pageToken)
		}
		offset = n
	}

	opts := append(c.marketOpts(), spotify.Limit(pageSize), spotify.Offset(offset))
	items, err := c.client.GetPlaylistItems(ctx, spotify.ID(ref), opts...)
	if err != nil {
		return nil, classify(err, "failed to get playlist items")
	}

	page := &playlist.Page{Videos: make([]video.Video, 0, len(items.Items))}
	for _, item := range items.Items {
		page.Videos = append(page.Videos, convertItem(item))
	}
	if items.Next != "" {
		page.NextPageToken = strconv.Itoa(offset + len(items.Items))
	}

	zlog.Debug().Msgf("listed playlist items: playlist=%s offset=%d items=%d next=%q", ref, offset, len(page.Videos), page.NextPageToken)
	return page, nil
}

// Durations returns ISO 8601 duration encodings for the requested track IDs.
func (c *Client) Durations(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	if len(ids) > MaxTrackBatch {
		return nil, errors.Newf("too many ids in one batch: %d > %d", len(ids), MaxTrackBatch)
	}

	trackIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		trackIDs[i] = spotify.ID(id)
	}

	tracks, err := c.client.GetTracks(ctx, trackIDs, c.marketOpts()...)
	if err != nil {
		return nil, classify(err, "failed to get tracks")
	}

	for _, t := range tracks {
		if t == nil || t.ID == "" {
			continue
		}
		result[string(t.ID)] = encodeMillis(int64(t.Duration))
	}
	return result, nil
}

// convertItem converts a playlist item to a member. Episodes and local files
// without an ID become members without an ID.
func convertItem(item spotify.PlaylistItem) video.Video {
	t := item.Track.Track
	if t == nil {
		if ep := item.Track.Episode; ep != nil {
			return video.Video{Title: ep.Name}
		}
		return video.Video{}
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	v := video.Video{
		Title:   t.Name,
		Creator: strings.Join(artists, ", "),
	}
	if t.ID != "" && !item.IsLocal {
		v.ID = string(t.ID)
		v.Duration = encodeMillis(int64(t.Duration))
	}
	return v
}

// encodeMillis rounds milliseconds to whole seconds and encodes them.
func encodeMillis(ms int64) string {
	return duration.ISO((ms + 500) / 1000)
}

// classify maps a 404 to playlist.ErrNotFound and everything else to a transport error.
func classify(err error, msg string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return errors.Wrap(playlist.ErrNotFound, msg)
	}
	return playlist.MarkTransport(errors.Wrap(err, msg))
}
