package aggregate

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/api/iterator"

	"github.com/youtube-chrono/chrono/internal/app/source"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

// Pager walks the member pages of one playlist in token order.
type Pager struct {
	src      source.Source
	ref      playlist.Reference
	pageSize int
	token    string
	seen     map[string]struct{}
	pages    int
	done     bool
}

// NewPager creates a pager positioned before the first page.
func NewPager(src source.Source, ref playlist.Reference, pageSize int) *Pager {
	return &Pager{src: src, ref: ref, pageSize: pageSize, seen: make(map[string]struct{})}
}

// Next fetches the next page. It returns iterator.Done once the previous page
// carried no continuation token.
func (p *Pager) Next(ctx context.Context) (*playlist.Page, error) {
	if p.done {
		return nil, iterator.Done
	}

	page, err := p.src.ListMembers(ctx, p.ref, p.token, p.pageSize)
	if err != nil {
		return nil, err
	}

	p.seen[p.token] = struct{}{}
	if _, ok := p.seen[page.NextPageToken]; ok && page.NextPageToken != "" {
		p.done = true
		return nil, playlist.MarkTransport(errors.Newf("page token %q repeated", page.NextPageToken))
	}

	p.pages++
	p.token = page.NextPageToken
	p.done = p.token == ""
	return page, nil
}

// Pages returns how many pages were fetched successfully.
func (p *Pager) Pages() int {
	return p.pages
}
