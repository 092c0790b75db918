package web

import (
	"bytes"
	"html/template"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/youtube-chrono/chrono/internal/app/notification"
	"github.com/youtube-chrono/chrono/internal/app/session/state"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

type speedRow struct {
	Label    string
	Duration string
}

type pageData struct {
	Input     string
	Loading   bool
	Failed    bool
	Message   string
	Notice    string
	NeedToken bool
	Summary   *playlist.Summary
	Speeds    []speedRow
	Toast     *notification.Toast
}

func newPageData(cfg ServerConfig, notice string) pageData {
	status := cfg.Session.GetStatus()
	d := pageData{
		Input:     status.Input,
		Loading:   status.Loading(),
		Failed:    status.Phase == state.PhaseFailed,
		Message:   status.Message,
		Notice:    notice,
		NeedToken: cfg.Config.Server.Token != "",
		Summary:   status.Summary,
		Toast:     status.Toast,
	}
	if s := status.Summary; s != nil {
		for _, m := range playlist.Multipliers {
			d.Speeds = append(d.Speeds, speedRow{Label: m.Label, Duration: s.Speeds[m.Label]})
		}
	}
	return d
}

func renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		zlog.Error().Msgf("failed to render page: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>YouTube Chrono - Playlist Length Calculator</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
        .toast { padding: 0.5rem 1rem; border-radius: 0.375rem; margin-bottom: 1rem; }
        .toast-success { background: #dcfce7; }
        .toast-error { background: #fee2e2; }
        .toast-info { background: #e0f2fe; }
        .error { color: #b91c1c; }
        table { border-collapse: collapse; }
        td { padding: 0.25rem 1rem 0.25rem 0; }
    </style>
</head>
<body>
    <h1>Playlist Length Calculator</h1>
    {{with .Toast}}<div class="toast toast-{{.Type}}" id="toast-{{.ID}}">{{.Message}}</div>{{end}}
    {{with .Notice}}<p class="error">{{.}}</p>{{end}}
    <form method="post" action="/">
        <input type="text" name="url" placeholder="https://www.youtube.com/playlist?list=..." value="{{.Input}}" size="50">
        {{if .NeedToken}}<input type="password" name="token" placeholder="API token">{{end}}
        <button type="submit"{{if .Loading}} disabled{{end}}>{{if .Loading}}Calculating...{{else}}Calculate{{end}}</button>
    </form>
    {{if .Failed}}<p class="error">{{.Message}}</p>{{end}}
    {{with .Summary}}
    <section>
        <h2>{{.Title}}</h2>
        <p>By {{.Creator}}</p>
        <table>
            <tr><td>Video count</td><td>{{.VideoCount}} (from {{.Range}}) ({{.Unavailable}} unavailable)</td></tr>
            <tr><td>Total duration</td><td>{{.Total}} ({{.TotalCompact}})</td></tr>
            <tr><td>Average duration</td><td>{{.Average}}</td></tr>
            {{if .Excluded}}<tr><td>Excluded</td><td>{{.Excluded}}</td></tr>{{end}}
            {{if .Unresolved}}<tr><td>Without duration</td><td>{{.Unresolved}}</td></tr>{{end}}
        </table>
    </section>
    {{end}}
    {{if .Speeds}}
    <section>
        <h3>At different speeds</h3>
        <table>
            {{range .Speeds}}<tr><td>{{.Label}}</td><td>{{.Duration}}</td></tr>{{end}}
        </table>
        <form method="post" action="/reset">{{if $.NeedToken}}<input type="password" name="token" placeholder="API token">{{end}}<button type="submit">Clear</button></form>
    </section>
    {{end}}
</body>
</html>
`))
