package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/youtube-chrono/chrono/internal/domain/video"
	"github.com/youtube-chrono/chrono/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// NewChainFromConfig creates the chain used by the aggregation pipeline.
// The unavailable filter is always first; configured filters follow in name order.
func NewChainFromConfig(cfg *config.Config) (*Chain, error) {
	chain := NewChain()
	chain.Add(NewUnavailableFilter())

	names := make([]string, 0, len(cfg.Filters))
	for name := range cfg.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		filterCfg := cfg.Filters[name]
		if !filterCfg.Enabled || name == UnavailableFilterName {
			continue
		}
		factory, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
		f := factory()
		if err := f.ValidateConfig(filterCfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("registered filter: name=%s", name)
	}

	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters that apply to the stage.
// Returns immediately if any filter rejects the member.
func (c *Chain) Execute(ctx context.Context, v video.Video, stage Stage) Result {
	for _, f := range c.filters {
		if !f.AppliesTo(stage) {
			continue
		}

		result := f.Check(ctx, v)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
