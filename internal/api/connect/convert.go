package connect

import (
	"time"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/youtube-chrono/chrono/internal/app/notification"
	"github.com/youtube-chrono/chrono/internal/app/session"
	"github.com/youtube-chrono/chrono/internal/app/session/state"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

// SummaryMap renders a summary with the field names used by every surface.
func SummaryMap(s *playlist.Summary) map[string]any {
	speeds := make(map[string]any, len(s.Speeds))
	for label, v := range s.Speeds {
		speeds[label] = v
	}
	return map[string]any{
		"title":           s.Title,
		"id":              s.ID.String(),
		"creator":         s.Creator,
		"video_count":     s.VideoCount,
		"unavailable":     s.Unavailable,
		"excluded":        s.Excluded,
		"unresolved":      s.Unresolved,
		"range":           s.Range(),
		"total_seconds":   s.TotalSeconds,
		"average_seconds": s.AverageSeconds,
		"total":           s.Total,
		"total_compact":   s.TotalCompact,
		"average":         s.Average,
		"speeds":          speeds,
	}
}

// SummaryToStruct converts a summary to a protobuf Struct.
func SummaryToStruct(s *playlist.Summary) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(SummaryMap(s))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode summary")
	}
	return st, nil
}

// SummaryFromStruct converts a protobuf Struct back to a summary.
func SummaryFromStruct(st *structpb.Struct) *playlist.Summary {
	f := st.GetFields()
	s := &playlist.Summary{
		Title:          f["title"].GetStringValue(),
		ID:             playlist.Reference(f["id"].GetStringValue()),
		Creator:        f["creator"].GetStringValue(),
		VideoCount:     int(f["video_count"].GetNumberValue()),
		Unavailable:    int(f["unavailable"].GetNumberValue()),
		Excluded:       int(f["excluded"].GetNumberValue()),
		Unresolved:     int(f["unresolved"].GetNumberValue()),
		TotalSeconds:   int64(f["total_seconds"].GetNumberValue()),
		AverageSeconds: int64(f["average_seconds"].GetNumberValue()),
		Total:          f["total"].GetStringValue(),
		TotalCompact:   f["total_compact"].GetStringValue(),
		Average:        f["average"].GetStringValue(),
		Speeds:         make(map[string]string),
	}
	for label, v := range f["speeds"].GetStructValue().GetFields() {
		s.Speeds[label] = v.GetStringValue()
	}
	return s
}

// ToastMap renders a toast.
func ToastMap(t *notification.Toast) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"sequence_no": t.SequenceNo,
		"type":        string(t.Type),
		"message":     t.Message,
		"created_at":  t.CreatedAt.Format(time.RFC3339),
		"expires_at":  t.ExpiresAt.Format(time.RFC3339),
	}
}

// ToastToStruct converts a toast to a protobuf Struct.
func ToastToStruct(t *notification.Toast) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(ToastMap(t))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode toast")
	}
	return st, nil
}

// StatusToStruct converts the view state to a protobuf Struct.
func StatusToStruct(status *session.Status) (*structpb.Struct, error) {
	m := map[string]any{
		"phase":      status.Phase.String(),
		"input":      status.Input,
		"loading":    status.Loading(),
		"message":    status.Message,
		"error_code": "",
	}
	if status.Phase == state.PhaseFailed {
		m["error_code"] = status.ErrorKind.Code()
	}
	if !status.UpdatedAt.IsZero() {
		m["updated_at"] = status.UpdatedAt.Format(time.RFC3339)
	}
	if status.Summary != nil {
		m["summary"] = SummaryMap(status.Summary)
	}
	if status.Toast != nil {
		m["toast"] = ToastMap(status.Toast)
	}

	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode status")
	}
	return st, nil
}
