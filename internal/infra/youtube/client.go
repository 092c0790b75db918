// Package youtube provides a playlist source backed by the YouTube Data API v3.
package youtube

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/domain/video"
)

// MaxBatch is the largest page or detail batch the API accepts.
const MaxBatch = 50

// Config represents YouTube client configuration.
type Config struct {
	APIKey   string
	Endpoint string
}

// Client is a YouTube Data API client.
type Client struct {
	service *youtube.Service
}

// New creates a new YouTube client. The key is sent as the key query parameter.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube api key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create youtube service")
	}

	return &Client{service: svc}, nil
}

// Name returns the source name.
func (c *Client) Name() string {
	return "youtube"
}

// PlaylistTitle returns the title of the playlist, or playlist.ErrNotFound when
// no playlist matches the reference.
func (c *Client) PlaylistTitle(ctx context.Context, ref playlist.Reference) (string, error) {
	resp, err := c.service.Playlists.
		List([]string{"snippet"}).
		Id(ref.String()).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err, "failed to get playlist")
	}

	if len(resp.Items) == 0 {
		return "", errors.Wrapf(playlist.ErrNotFound, "playlist %s", ref)
	}

	title := ""
	if resp.Items[0].Snippet != nil {
		title = resp.Items[0].Snippet.Title
	}
	if title == "" {
		title = "Untitled Playlist"
	}
	return title, nil
}

// ListMembers returns one page of playlist members in playlist order.
func (c *Client) ListMembers(ctx context.Context, ref playlist.Reference, pageToken string, pageSize int) (*playlist.Page, error) {
	if pageSize <= 0 || pageSize > MaxBatch {
		pageSize = MaxBatch
	}

	call := c.service.PlaylistItems.
		List([]string{"contentDetails", "snippet"}).
		PlaylistId(ref.String()).
		MaxResults(int64(pageSize)).
		Context(ctx)
	if pageToken != "" {
		call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, classify(err, "failed to list playlist items")
	}

	page := &playlist.Page{
		Videos:        make([]video.Video, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		page.Videos = append(page.Videos, convertItem(item))
	}

	zlog.Debug().Msgf("listed playlist items: playlist=%s items=%d next=%q", ref, len(page.Videos), page.NextPageToken)
	return page, nil
}

// Durations returns the duration encoding for each requested ID. IDs the API
// does not return are absent from the map.
func (c *Client) Durations(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	if len(ids) > MaxBatch {
		return nil, errors.Newf("too many ids in one batch: %d > %d", len(ids), MaxBatch)
	}

	resp, err := c.service.Videos.
		List([]string{"contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, "failed to get video details")
	}

	for _, item := range resp.Items {
		if item.ContentDetails == nil {
			continue
		}
		result[item.Id] = item.ContentDetails.Duration
	}
	return result, nil
}

func convertItem(item *youtube.PlaylistItem) video.Video {
	var v video.Video
	if item.ContentDetails != nil {
		v.ID = item.ContentDetails.VideoId
	}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.Creator = item.Snippet.VideoOwnerChannelTitle
		if v.Creator == "" {
			v.Creator = item.Snippet.ChannelTitle
		}
	}
	return v
}

// classify maps a 404 to playlist.ErrNotFound and everything else to a transport error.
func classify(err error, msg string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return errors.Wrap(playlist.ErrNotFound, msg)
	}
	return playlist.MarkTransport(errors.Wrap(err, msg))
}
