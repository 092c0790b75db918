// Package aggregate collects a playlist's members page by page and sums their durations.
package aggregate

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"github.com/youtube-chrono/chrono/internal/app/filter"
	"github.com/youtube-chrono/chrono/internal/app/source"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/domain/video"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// Aggregator runs the duration aggregation pipeline against a source.
// Runs are sequential and share no state.
type Aggregator struct {
	src      source.Source
	chain    *filter.Chain
	pageSize int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPageSize sets the member page size. Values outside 1..50 are ignored.
func WithPageSize(n int) Option {
	return func(a *Aggregator) {
		if n >= 1 && n <= DefaultPageSize {
			a.pageSize = n
		}
	}
}

// WithChain sets the member filter chain.
func WithChain(chain *filter.Chain) Option {
	return func(a *Aggregator) {
		if chain != nil {
			a.chain = chain
		}
	}
}

// New creates an Aggregator. Without WithChain only unavailable members are dropped.
func New(src source.Source, opts ...Option) *Aggregator {
	chain := filter.NewChain()
	chain.Add(filter.NewUnavailableFilter())

	a := &Aggregator{src: src, chain: chain, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate collects every reachable member of the playlist and summarizes it.
func (a *Aggregator) Aggregate(ctx context.Context, ref playlist.Reference) (*playlist.Summary, error) {
	title, err := a.src.PlaylistTitle(ctx, ref)
	if err != nil {
		return nil, classify(err, "playlist lookup failed")
	}
	zlog.Debug().Msgf("playlist found: source=%s playlist=%s title=%q", a.src.Name(), ref, title)

	p := &playlist.Playlist{ID: ref, Title: title}
	var skipped playlist.Skipped

	pager := NewPager(a.src, ref, a.pageSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, playlist.MarkTransport(errors.Wrap(err, "aggregation cancelled"))
		}

		page, err := pager.Next(ctx)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			if pager.Pages() == 0 {
				return nil, classify(err, "failed to list playlist members")
			}
			zlog.Warn().Msgf("member page failed, keeping collected members: playlist=%s page=%d collected=%d error=%v",
				ref, pager.Pages()+1, len(p.Videos), err)
			break
		}

		usable := a.filter(ctx, page.Videos, filter.StageListed, &skipped)
		if len(usable) == 0 {
			zlog.Debug().Msgf("page has no usable members, stopping: playlist=%s page=%d", ref, pager.Pages())
			break
		}

		a.resolve(ctx, usable, pager.Pages())

		p.Videos = append(p.Videos, a.filter(ctx, usable, filter.StageResolved, &skipped)...)
		zlog.Debug().Msgf("page collected: playlist=%s page=%d members=%d total=%d", ref, pager.Pages(), len(usable), len(p.Videos))
	}

	summary, err := playlist.NewSummary(p, skipped)
	if err != nil {
		return nil, errors.Wrapf(err, "playlist %s", ref)
	}

	zlog.Info().Msgf("playlist aggregated: playlist=%s pages=%d videos=%d unavailable=%d excluded=%d unresolved=%d total=%s",
		ref, pager.Pages(), summary.VideoCount, summary.Unavailable, summary.Excluded, summary.Unresolved, summary.TotalCompact)
	return summary, nil
}

// filter keeps the members the chain accepts at stage and counts the rest.
func (a *Aggregator) filter(ctx context.Context, videos []video.Video, stage filter.Stage, skipped *playlist.Skipped) []video.Video {
	kept := make([]video.Video, 0, len(videos))
	for _, v := range videos {
		result := a.chain.Execute(ctx, v, stage)
		if result.Accepted {
			kept = append(kept, v)
			continue
		}
		if result.Code == filter.CodeUnavailable {
			skipped.Unavailable++
		} else {
			skipped.Excluded++
		}
		zlog.Debug().Msgf("member rejected: id=%s title=%q stage=%s code=%s", v.ID, v.Title, stage, result.Code)
	}
	return kept
}

// resolve fills in missing durations with one detail batch. A failed batch
// leaves the members unresolved so they contribute zero.
func (a *Aggregator) resolve(ctx context.Context, videos []video.Video, page int) {
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		if !v.Resolved() {
			ids = append(ids, v.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	durations, err := a.src.Durations(ctx, ids)
	if err != nil {
		zlog.Warn().Msgf("duration batch failed, counting zero: page=%d ids=%d error=%v", page, len(ids), err)
		return
	}
	if len(durations) < len(ids) {
		zlog.Warn().Msgf("duration batch incomplete: page=%d requested=%d returned=%d", page, len(ids), len(durations))
	}

	for i := range videos {
		if videos[i].Resolved() {
			continue
		}
		if d, ok := durations[videos[i].ID]; ok {
			videos[i].Duration = d
		}
	}
}

// classify keeps not-found failures and marks everything else as transport.
func classify(err error, msg string) error {
	if errors.Is(err, playlist.ErrNotFound) {
		return errors.Wrap(err, msg)
	}
	return playlist.MarkTransport(errors.Wrap(err, msg))
}
