package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/tiktok-downloader/internal/repositories/resolution"
	"github.com/orgball2608/tiktok-downloader/internal/session"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sessionCookie       = "sid"
	maxRequestBodyBytes = 1 << 16
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type Opts struct {
	fx.In

	Sessions *session.Store
	History  resolution.Repository
	Config   *config.Config
	Logger   logger.Logger
}

type Server struct {
	sessions *session.Store
	history  resolution.Repository
	logger   logger.Logger
	secure   bool
	page     *template.Template
	handler  http.Handler
}

func New(opts Opts) (*Server, error) {
	page, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	history := opts.History
	if history == nil {
		history = resolution.Nop{}
	}

	s := &Server{
		sessions: opts.Sessions,
		history:  history,
		logger:   opts.Logger.WithComponent("Web"),
		secure:   opts.Config.IsProduction(),
		page:     page,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /resolve", s.handleResolve)
	mux.HandleFunc("POST /download", s.handleDownload)
	mux.HandleFunc("GET /api/state", s.handleAPIState)
	mux.HandleFunc("POST /api/resolve", s.handleAPIResolve)
	mux.HandleFunc("GET /api/history", s.handleAPIHistory)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	s.handler = s.withRecovery(s.withLogging(withSecurityHeaders(mux)))
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// sessionKey returns the store key for the request, issuing a cookie when
// the browser has none.
func (s *Server) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return "web:" + c.Value
		}
	}

	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return "web:" + sid
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start).Round(time.Millisecond).String())
	})
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				s.logger.Error("Panic recovered in HTTP handler", "path", r.URL.Path, "panic", rv, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
