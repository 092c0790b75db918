package aggregate

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

func TestPager_WalksTokensInOrder(t *testing.T) {
	src := pagedSource(3, 2)
	pager := NewPager(src, "PL", 50)

	var got int
	for {
		page, err := pager.Next(context.Background())
		if errors.Is(err, iterator.Done) {
			break
		}
		require.NoError(t, err)
		got += len(page.Videos)
	}

	assert.Equal(t, 6, got)
	assert.Equal(t, 3, pager.Pages())
	assert.Equal(t, []string{"", "tok1", "tok2"}, src.listCalls)

	_, err := pager.Next(context.Background())
	assert.ErrorIs(t, err, iterator.Done)
	assert.Len(t, src.listCalls, 3)
}

func TestPager_PropagatesErrors(t *testing.T) {
	src := pagedSource(2, 1)
	src.pageErrs = map[string]error{"tok1": errors.New("boom")}
	pager := NewPager(src, "PL", 50)

	_, err := pager.Next(context.Background())
	require.NoError(t, err)

	_, err = pager.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, pager.Pages())
}

func TestPager_RepeatedToken(t *testing.T) {
	src := &fakeSource{pages: map[string]*playlist.Page{
		"":     {NextPageToken: "loop"},
		"loop": {NextPageToken: "loop"},
	}}
	pager := NewPager(src, "PL", 50)

	_, err := pager.Next(context.Background())
	require.NoError(t, err)

	_, err = pager.Next(context.Background())
	assert.ErrorIs(t, err, playlist.ErrTransport)

	_, err = pager.Next(context.Background())
	assert.ErrorIs(t, err, iterator.Done)
}

func TestPager_TokenCycle(t *testing.T) {
	src := &fakeSource{pages: map[string]*playlist.Page{
		"":  {NextPageToken: "A"},
		"A": {NextPageToken: "B"},
		"B": {NextPageToken: "A"},
	}}
	pager := NewPager(src, "PL", 50)

	_, err := pager.Next(context.Background())
	require.NoError(t, err)
	_, err = pager.Next(context.Background())
	require.NoError(t, err)

	_, err = pager.Next(context.Background())
	assert.ErrorIs(t, err, playlist.ErrTransport)
	assert.Equal(t, 2, pager.Pages())

	_, err = pager.Next(context.Background())
	assert.ErrorIs(t, err, iterator.Done)
}
