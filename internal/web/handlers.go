package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
)

type resolveRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Get(s.sessionKey(w, r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.page.Execute(w, newStateView(ctrl.State())); err != nil {
		s.logger.Error("Failed to render page", "error", err)
	}
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctrl := s.sessions.Get(s.sessionKey(w, r))
	ctrl.Submit(r.Context(), r.PostForm.Get("url"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Get(s.sessionKey(w, r))

	// The browser navigates to the media URL; the page is not re-rendered.
	redirect := controller.NavigatorFunc(func(_ context.Context, link string) error {
		http.Redirect(w, r, link, http.StatusFound)
		return nil
	})
	if err := ctrl.Download(r.Context(), redirect); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Get(s.sessionKey(w, r))
	writeJSON(w, http.StatusOK, newStateView(ctrl.State()))
}

func (s *Server) handleAPIResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if status, msg := decodeJSONBody(w, r, &req); status != 0 {
		writeJSONError(w, status, msg)
		return
	}

	ctrl := s.sessions.Get(s.sessionKey(w, r))
	writeJSON(w, http.StatusOK, newStateView(ctrl.Submit(r.Context(), req.URL)))
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	records, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list resolutions", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyItem{
			InputURL:   rec.InputURL,
			Outcome:    string(rec.Outcome),
			HTTPStatus: rec.HTTPStatus,
			Stale:      rec.Stale,
			DurationMS: rec.Duration.Milliseconds(),
			CreatedAt:  rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// decodeJSONBody returns a non-zero status and a message when the body is unusable.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) (int, string) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return http.StatusUnsupportedMediaType, "content type must be application/json"
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, "request body too large"
		}
		return http.StatusBadRequest, "invalid JSON payload"
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return http.StatusBadRequest, "invalid JSON payload"
	}
	return 0, ""
}
