package web

import (
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

type SummaryResponse struct {
	Title          string            `json:"title"`
	ID             string            `json:"id"`
	Creator        string            `json:"creator"`
	VideoCount     int               `json:"video_count"`
	Range          string            `json:"range"`
	Unavailable    int               `json:"unavailable"`
	Excluded       int               `json:"excluded"`
	Unresolved     int               `json:"unresolved"`
	TotalSeconds   int64             `json:"total_seconds"`
	AverageSeconds int64             `json:"average_seconds"`
	Total          string            `json:"total"`
	TotalCompact   string            `json:"total_compact"`
	Average        string            `json:"average"`
	Speeds         map[string]string `json:"speeds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Source  string `json:"source"`
	UptimeS int64  `json:"uptime_s"`
}

func SummaryToResponse(s *playlist.Summary) SummaryResponse {
	return SummaryResponse{
		Title:          s.Title,
		ID:             s.ID.String(),
		Creator:        s.Creator,
		VideoCount:     s.VideoCount,
		Range:          s.Range(),
		Unavailable:    s.Unavailable,
		Excluded:       s.Excluded,
		Unresolved:     s.Unresolved,
		TotalSeconds:   s.TotalSeconds,
		AverageSeconds: s.AverageSeconds,
		Total:          s.Total,
		TotalCompact:   s.TotalCompact,
		Average:        s.Average,
		Speeds:         s.Speeds,
	}
}

type ToastResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at"`
}

type StateResponse struct {
	Phase   string           `json:"phase"`
	Input   string           `json:"input"`
	Loading bool             `json:"loading"`
	Message string           `json:"message,omitempty"`
	Summary *SummaryResponse `json:"summary,omitempty"`
	Toast   *ToastResponse   `json:"toast,omitempty"`
}
