package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtube-chrono/chrono/internal/domain/video"
	"github.com/youtube-chrono/chrono/internal/infra/config"
)

func TestUnavailableFilter_Check(t *testing.T) {
	f := NewUnavailableFilter()

	result := f.Check(context.Background(), video.Video{ID: "v1", Title: "Intro"})
	assert.True(t, result.Accepted)

	result = f.Check(context.Background(), video.Video{Title: "Deleted video"})
	assert.False(t, result.Accepted)
	assert.Equal(t, CodeUnavailable, result.Code)
}

func TestFilters_AppliesTo(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		stage    Stage
		expected bool
	}{
		{name: "unavailable on listed", filter: NewUnavailableFilter(), stage: StageListed, expected: true},
		{name: "unavailable on resolved", filter: NewUnavailableFilter(), stage: StageResolved, expected: false},
		{name: "duration limit on listed", filter: NewDurationLimitFilter(), stage: StageListed, expected: false},
		{name: "duration limit on resolved", filter: NewDurationLimitFilter(), stage: StageResolved, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.AppliesTo(tt.stage))
		})
	}
}

func TestChain_Execute(t *testing.T) {
	limit := NewDurationLimitFilter()
	limit.config = &DurationLimitConfig{MinMinutes: 1}

	chain := NewChain()
	chain.Add(NewUnavailableFilter())
	chain.Add(limit)

	ctx := context.Background()

	// A missing ID is only checked at the listed stage.
	assert.Equal(t, Reject(CodeUnavailable), chain.Execute(ctx, video.Video{}, StageListed))
	// The short video passes listing and is excluded once resolved.
	short := video.Video{ID: "short", Duration: "PT30S"}
	assert.True(t, chain.Execute(ctx, short, StageListed).Accepted)
	assert.Equal(t, Reject("duration_limit_exceeded"), chain.Execute(ctx, short, StageResolved))
	assert.True(t, chain.Execute(ctx, video.Video{ID: "long", Duration: "PT10M"}, StageResolved).Accepted)
}

func TestNewChainFromConfig(t *testing.T) {
	t.Run("defaults to unavailable filter only", func(t *testing.T) {
		chain, err := NewChainFromConfig(&config.Config{})
		require.NoError(t, err)
		require.Len(t, chain.Filters(), 1)
		assert.Equal(t, UnavailableFilterName, chain.Filters()[0].Name())
	})

	t.Run("adds enabled filters", func(t *testing.T) {
		cfg := &config.Config{
			Filters: map[string]config.FilterConfig{
				"duration_limit_filter": {Enabled: true, Settings: map[string]any{"min_minutes": 1}},
				UnavailableFilterName:   {Enabled: true},
			},
		}
		chain, err := NewChainFromConfig(cfg)
		require.NoError(t, err)
		require.Len(t, chain.Filters(), 2)
		assert.Equal(t, "duration_limit_filter", chain.Filters()[1].Name())
	})

	t.Run("skips disabled filters", func(t *testing.T) {
		cfg := &config.Config{
			Filters: map[string]config.FilterConfig{
				"duration_limit_filter": {Enabled: false},
			},
		}
		chain, err := NewChainFromConfig(cfg)
		require.NoError(t, err)
		assert.Len(t, chain.Filters(), 1)
	})

	t.Run("rejects unknown filters", func(t *testing.T) {
		cfg := &config.Config{
			Filters: map[string]config.FilterConfig{
				"no_such_filter": {Enabled: true},
			},
		}
		_, err := NewChainFromConfig(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects invalid settings", func(t *testing.T) {
		cfg := &config.Config{
			Filters: map[string]config.FilterConfig{
				"duration_limit_filter": {Enabled: true, Settings: map[string]any{"min_minutes": 10, "max_minutes": 5}},
			},
		}
		_, err := NewChainFromConfig(cfg)
		assert.Error(t, err)
	})
}
