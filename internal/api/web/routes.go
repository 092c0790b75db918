// Package web serves the calculator page, its JSON API and the sitemap.
package web

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	zlog "github.com/rs/zerolog/log"

	"github.com/youtube-chrono/chrono/internal/app/session"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/infra/config"
)

// ServerConfig holds the dependencies of the router.
type ServerConfig struct {
	Config    *config.Config
	Session   *session.Manager
	StartTime time.Time

	// RPCPath and RPCHandler mount the Connect service when set.
	RPCPath    string
	RPCHandler http.Handler
}

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware())
	r.Use(LoggingMiddleware())

	r.Get("/health", healthHandler(cfg))
	r.Get("/sitemap.xml", sitemapHandler(cfg))

	r.Get("/", pageHandler(cfg))
	r.Get("/api/state", stateHandler(cfg))

	// Routes that start a run or drop its result share the RPC token.
	r.Group(func(r chi.Router) {
		r.Use(TokenMiddleware(cfg.Config.Server.Token))
		r.Post("/", submitHandler(cfg))
		r.Post("/reset", resetHandler(cfg))
		r.Get("/api/summary", summaryHandler(cfg))
	})

	if cfg.RPCHandler != nil {
		r.Handle(cfg.RPCPath+"*", cfg.RPCHandler)
	}

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Source:  cfg.Config.Source.Type,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func pageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, http.StatusOK, newPageData(cfg, ""))
	}
}

func submitHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid form", "bad_request")
			return
		}

		_, err := cfg.Session.Submit(r.Context(), r.PostForm.Get("url"))
		if errors.Is(err, session.ErrBusy) {
			renderPage(w, http.StatusConflict, newPageData(cfg, cfg.Session.Message(err)))
			return
		}

		// The outcome is in the session state either way.
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func resetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Session.Reset()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func summaryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := r.URL.Query().Get("url")
		if input == "" {
			WriteError(w, http.StatusBadRequest, cfg.Config.GetMessage("invalid_url"), "invalid_url")
			return
		}

		summary, err := cfg.Session.Submit(r.Context(), input)
		if err != nil {
			status, code := statusFor(err)
			WriteError(w, status, cfg.Session.Message(err), code)
			return
		}

		WriteJSON(w, http.StatusOK, SummaryToResponse(summary))
	}
}

func stateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := cfg.Session.GetStatus()
		resp := StateResponse{
			Phase:   status.Phase.String(),
			Input:   status.Input,
			Loading: status.Loading(),
			Message: status.Message,
		}
		if status.Summary != nil {
			s := SummaryToResponse(status.Summary)
			resp.Summary = &s
		}
		if status.Toast != nil {
			resp.Toast = &ToastResponse{
				ID:        status.Toast.ID,
				Type:      string(status.Toast.Type),
				Message:   status.Toast.Message,
				ExpiresAt: status.Toast.ExpiresAt.Format(time.RFC3339),
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// statusFor maps a submission failure to an HTTP status and failure code.
func statusFor(err error) (int, string) {
	if errors.Is(err, session.ErrBusy) {
		return http.StatusConflict, "busy"
	}
	kind := playlist.KindOf(err)
	switch kind {
	case playlist.KindInvalidURL:
		return http.StatusBadRequest, kind.Code()
	case playlist.KindNotFound:
		return http.StatusNotFound, kind.Code()
	case playlist.KindEmptyPlaylist:
		return http.StatusUnprocessableEntity, kind.Code()
	default:
		zlog.Debug().Msgf("transport failure surfaced to client: %v", err)
		return http.StatusBadGateway, kind.Code()
	}
}
