package playlist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youtube-chrono/chrono/internal/domain/video"
)

func TestPlaylist_VideoIDs(t *testing.T) {
	tests := []struct {
		name     string
		videos   []video.Video
		expected []string
	}{
		{
			name:     "empty playlist",
			videos:   []video.Video{},
			expected: []string{},
		},
		{
			name:     "single video",
			videos:   []video.Video{{ID: "video-1"}},
			expected: []string{"video-1"},
		},
		{
			name: "multiple videos keep order",
			videos: []video.Video{
				{ID: "video-3"},
				{ID: "video-1"},
				{ID: "video-2"},
			},
			expected: []string{"video-3", "video-1", "video-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "PL1", Videos: tt.videos}
			assert.Equal(t, tt.expected, p.VideoIDs())
		})
	}
}

func TestPlaylist_TotalSeconds(t *testing.T) {
	tests := []struct {
		name     string
		videos   []video.Video
		expected int64
	}{
		{
			name:     "empty playlist",
			videos:   []video.Video{},
			expected: 0,
		},
		{
			name:     "single video",
			videos:   []video.Video{{ID: "v1", Duration: "PT3M"}},
			expected: 180,
		},
		{
			name: "multiple videos",
			videos: []video.Video{
				{ID: "v1", Duration: "PT2M"},
				{ID: "v2", Duration: "PT3M30S"},
				{ID: "v3", Duration: "PT1H"},
			},
			expected: 120 + 210 + 3600,
		},
		{
			name: "unresolved videos contribute zero",
			videos: []video.Video{
				{ID: "v1", Duration: "PT2M15S"},
				{ID: "v2"},
			},
			expected: 135,
		},
		{
			name: "sum saturates instead of overflowing",
			videos: []video.Video{
				{ID: "v1", Duration: "PT9223372036854775807S"},
				{ID: "v2", Duration: "PT1S"},
			},
			expected: math.MaxInt64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "PL1", Videos: tt.videos}
			assert.Equal(t, tt.expected, p.TotalSeconds())
		})
	}
}

func TestPlaylist_CreatorAndUnresolved(t *testing.T) {
	p := &Playlist{
		ID:    "PL1",
		Title: "Go Course",
		Videos: []video.Video{
			{ID: "v1", Creator: "First Channel", Duration: "PT1M"},
			{ID: "v2", Creator: "Second Channel"},
		},
	}

	assert.Equal(t, "First Channel", p.Creator())
	assert.Equal(t, 1, p.UnresolvedCount())
	assert.Equal(t, "", (&Playlist{}).Creator())
}
