package web

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtube-chrono/chrono/internal/app/session"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/domain/video"
	"github.com/youtube-chrono/chrono/internal/infra/config"
)

type stubAggregator struct {
	err error
}

func (s *stubAggregator) Aggregate(ctx context.Context, ref playlist.Reference) (*playlist.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := &playlist.Playlist{ID: ref, Title: "Go <Course>", Videos: []video.Video{
		{ID: "a", Creator: "Alice", Duration: "PT10M"},
		{ID: "b", Creator: "Bob", Duration: "PT20M"},
	}}
	return playlist.NewSummary(p, playlist.Skipped{})
}

func newTestRouter(t *testing.T, agg session.Aggregator) (http.Handler, *config.Config) {
	t.Helper()
	t.Setenv("CHRONO_SOURCE", "")
	t.Setenv("CHRONO_API_TOKEN", "")
	cfg, err := config.Default()
	require.NoError(t, err)

	return NewRouter(ServerConfig{
		Config:    cfg,
		Session:   session.NewManager(cfg, agg),
		StartTime: time.Now(),
	}), cfg
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, &stubAggregator{})

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "youtube", body.Source)
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))
}

func TestSummaryAPI(t *testing.T) {
	h, _ := newTestRouter(t, &stubAggregator{})

	q := url.Values{"url": {"https://www.youtube.com/playlist?list=PLgo"}}
	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/api/summary?"+q.Encode(), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body SummaryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "PLgo", body.ID)
	assert.Equal(t, "Alice", body.Creator)
	assert.Equal(t, 2, body.VideoCount)
	assert.Equal(t, "1 to 2", body.Range)
	assert.Equal(t, int64(1800), body.TotalSeconds)
	assert.Equal(t, "0 hours 30 minutes 0 seconds", body.Total)
	assert.Equal(t, "0 hours 15 minutes 0 seconds", body.Average)
	assert.Equal(t, "0 hours 15 minutes 0 seconds", body.Speeds["2.00x"])
}

func TestSummaryAPI_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing url", "", nil, http.StatusBadRequest, "invalid_url"},
		{"invalid url", "https://example.com", nil, http.StatusBadRequest, "invalid_url"},
		{"not found", "?list=PL1", playlist.ErrNotFound, http.StatusNotFound, "not_found"},
		{"empty", "?list=PL1", playlist.ErrEmptyPlaylist, http.StatusUnprocessableEntity, "empty_playlist"},
		{"transport", "?list=PL1", playlist.MarkTransport(errors.New("eof")), http.StatusBadGateway, "transport_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, cfg := newTestRouter(t, &stubAggregator{err: tt.err})

			target := "/api/summary"
			if tt.input != "" {
				target += "?" + url.Values{"url": {tt.input}}.Encode()
			}
			rr := do(t, h, httptest.NewRequest(http.MethodGet, target, nil))
			require.Equal(t, tt.wantStatus, rr.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, cfg.GetMessage(tt.wantCode), body.Error)
		})
	}
}

func TestStatusFor_Busy(t *testing.T) {
	status, code := statusFor(session.ErrBusy)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "busy", code)
}

func TestPage_SubmitAndRender(t *testing.T) {
	h, cfg := newTestRouter(t, &stubAggregator{})

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Calculate")
	assert.NotContains(t, rr.Body.String(), "At different speeds")

	form := url.Values{"url": {"https://www.youtube.com/playlist?list=PLgo"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = do(t, h, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rr.Body.String()
	assert.Contains(t, body, "Go &lt;Course&gt;")
	assert.Contains(t, body, "By Alice")
	assert.Contains(t, body, "Video count")
	assert.Contains(t, body, "2 (from 1 to 2) (0 unavailable)")
	assert.Contains(t, body, "0 hours 30 minutes 0 seconds (30m)")
	assert.Contains(t, body, "1.25x")
	assert.Contains(t, body, "0 hours 24 minutes 0 seconds")
	assert.Contains(t, body, cfg.Messages.Success)
	assert.Less(t, strings.Index(body, "1.25x"), strings.Index(body, "2.00x"))
}

func TestPage_RendersUnavailableCount(t *testing.T) {
	t.Setenv("CHRONO_SOURCE", "")
	t.Setenv("CHRONO_API_TOKEN", "")
	cfg, err := config.Default()
	require.NoError(t, err)

	summary, err := playlist.NewSummary(&playlist.Playlist{ID: "PL1", Title: "Mixed", Videos: []video.Video{
		{ID: "a", Creator: "Alice", Duration: "PT1M"},
	}}, playlist.Skipped{Unavailable: 3})
	require.NoError(t, err)

	mgr := session.NewManager(cfg, &fixedAggregator{summary: summary})
	_, err = mgr.Submit(context.Background(), "?list=PL1")
	require.NoError(t, err)

	h := NewRouter(ServerConfig{Config: cfg, Session: mgr, StartTime: time.Now()})
	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rr.Body.String(), "1 (from 1 to 1) (3 unavailable)")
}

type fixedAggregator struct {
	summary *playlist.Summary
}

func (f *fixedAggregator) Aggregate(ctx context.Context, ref playlist.Reference) (*playlist.Summary, error) {
	return f.summary, nil
}

func TestTokenProtectsRunningRoutes(t *testing.T) {
	t.Setenv("CHRONO_SOURCE", "")
	t.Setenv("CHRONO_API_TOKEN", "")
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.Token = "secret"

	h := NewRouter(ServerConfig{
		Config:    cfg,
		Session:   session.NewManager(cfg, &stubAggregator{}),
		StartTime: time.Now(),
	})

	tests := []struct {
		name     string
		req      func() *http.Request
		expected int
	}{
		{
			name: "summary without token",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/summary?url=%3Flist%3DPL1", nil)
			},
			expected: http.StatusUnauthorized,
		},
		{
			name: "summary with wrong token",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/summary?url=%3Flist%3DPL1", nil)
				req.Header.Set(TokenHeader, "nope")
				return req
			},
			expected: http.StatusUnauthorized,
		},
		{
			name: "summary with header token",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/summary?url=%3Flist%3DPL1", nil)
				req.Header.Set(TokenHeader, "secret")
				return req
			},
			expected: http.StatusOK,
		},
		{
			name: "form submit without token",
			req: func() *http.Request {
				form := url.Values{"url": {"?list=PL1"}}
				req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			expected: http.StatusUnauthorized,
		},
		{
			name: "form submit with token field",
			req: func() *http.Request {
				form := url.Values{"url": {"?list=PL1"}, "token": {"secret"}}
				req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			expected: http.StatusSeeOther,
		},
		{
			name:     "reset without token",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodPost, "/reset", nil) },
			expected: http.StatusUnauthorized,
		},
		{
			name:     "page stays open",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) },
			expected: http.StatusOK,
		},
		{
			name:     "state stays open",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/state", nil) },
			expected: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.req())
			assert.Equal(t, tt.expected, rr.Code)
		})
	}

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rr.Body.String(), `name="token"`)
}

func TestPage_SubmitFailureShowsMessage(t *testing.T) {
	h, cfg := newTestRouter(t, &stubAggregator{})

	form := url.Values{"url": {"not a playlist"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := do(t, h, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rr.Body.String(), cfg.Messages.InvalidURL)
	assert.Contains(t, rr.Body.String(), "toast-error")
}

func TestStateAPIAndReset(t *testing.T) {
	h, _ := newTestRouter(t, &stubAggregator{})

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/api/summary?url=%3Flist%3DPL1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var st StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, "success", st.Phase)
	require.NotNil(t, st.Summary)
	assert.Equal(t, "PL1", st.Summary.ID)
	require.NotNil(t, st.Toast)
	assert.Equal(t, "success", st.Toast.Type)

	rr = do(t, h, httptest.NewRequest(http.MethodPost, "/reset", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = do(t, h, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	st = StateResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, "idle", st.Phase)
	assert.Nil(t, st.Summary)
}

func TestSitemap(t *testing.T) {
	h, _ := newTestRouter(t, &stubAggregator{})

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/xml", rr.Header().Get("Content-Type"))

	var set urlSet
	require.NoError(t, xml.Unmarshal(rr.Body.Bytes(), &set))
	require.Len(t, set.URLs, 1)
	assert.Equal(t, "https://youtube-chrono.vercel.app/", set.URLs[0].Loc)
	assert.Equal(t, "daily", set.URLs[0].ChangeFreq)
	assert.Equal(t, 1.0, set.URLs[0].Priority)
}

func TestBuildSitemap_TrimsSlash(t *testing.T) {
	body, err := BuildSitemap("https://example.com/")
	require.NoError(t, err)
	assert.Contains(t, string(body), "<loc>https://example.com/</loc>")
	assert.True(t, strings.HasPrefix(string(body), "<?xml"))
}

func TestRPCMount(t *testing.T) {
	t.Setenv("CHRONO_SOURCE", "")
	cfg, err := config.Default()
	require.NoError(t, err)

	h := NewRouter(ServerConfig{
		Config:  cfg,
		Session: session.NewManager(cfg, &stubAggregator{}),
		RPCPath: "/chrono.v1.DurationService/",
		RPCHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte(r.URL.Path))
		}),
	})

	rr := do(t, h, httptest.NewRequest(http.MethodPost, "/chrono.v1.DurationService/Aggregate", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "/chrono.v1.DurationService/Aggregate", rr.Body.String())
}
