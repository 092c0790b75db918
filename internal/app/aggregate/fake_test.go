package aggregate

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/domain/video"
)

// fakeSource serves pages keyed by continuation token and records every call.
type fakeSource struct {
	mu sync.Mutex

	title      string
	titleErr   error
	pages      map[string]*playlist.Page
	pageErrs   map[string]error
	durations  map[string]string
	detailErrs map[int]error // detail call index (1-based) -> error

	listCalls   []string
	detailCalls [][]string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) PlaylistTitle(ctx context.Context, ref playlist.Reference) (string, error) {
	if f.titleErr != nil {
		return "", f.titleErr
	}
	return f.title, nil
}

func (f *fakeSource) ListMembers(ctx context.Context, ref playlist.Reference, pageToken string, pageSize int) (*playlist.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, pageToken)

	if err, ok := f.pageErrs[pageToken]; ok {
		return nil, err
	}
	page, ok := f.pages[pageToken]
	if !ok {
		return nil, errors.Newf("unexpected token %q", pageToken)
	}
	cp := *page
	cp.Videos = append([]video.Video(nil), page.Videos...)
	return &cp, nil
}

func (f *fakeSource) Durations(ctx context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, append([]string(nil), ids...))

	if err, ok := f.detailErrs[len(f.detailCalls)]; ok {
		return nil, err
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if d, ok := f.durations[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

// pagedSource builds a source with n pages of size members each, every member lasting 60s.
func pagedSource(n, size int) *fakeSource {
	f := &fakeSource{
		title:     "Course",
		pages:     make(map[string]*playlist.Page),
		durations: make(map[string]string),
	}
	for p := 0; p < n; p++ {
		token := ""
		if p > 0 {
			token = fmt.Sprintf("tok%d", p)
		}
		page := &playlist.Page{}
		if p < n-1 {
			page.NextPageToken = fmt.Sprintf("tok%d", p+1)
		}
		for i := 0; i < size; i++ {
			id := fmt.Sprintf("v%d_%d", p, i)
			page.Videos = append(page.Videos, video.Video{ID: id, Title: id, Creator: fmt.Sprintf("creator%d", p)})
			f.durations[id] = "PT1M"
		}
		f.pages[token] = page
	}
	return f
}
