package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/internal/controller/controllerimpl"
	"github.com/orgball2608/tiktok-downloader/internal/domain"
	"github.com/orgball2608/tiktok-downloader/internal/repositories/resolution"
	mock_resolution "github.com/orgball2608/tiktok-downloader/internal/repositories/resolution/mocks"
	"github.com/orgball2608/tiktok-downloader/internal/session"
	"github.com/orgball2608/tiktok-downloader/internal/tiklydown"
	mock_tiklydown "github.com/orgball2608/tiktok-downloader/internal/tiklydown/mocks"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/mock/gomock"
)

const videoURL = "https://www.tiktok.com/@user/video/123"

func newTestServer(t *testing.T, resolver tiklydown.Client, history resolution.Repository) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Resolver.ValidateDomain = true
	cfg.Resolver.Domains = []string{"tiktok.com"}

	factory := controllerimpl.NewFactory(controllerimpl.Opts{
		Resolver: resolver,
		History:  history,
		Config:   cfg,
		Logger:   logger.NewNop(),
	})
	srv, err := New(Opts{
		Sessions: session.New(session.Opts{Factory: factory, Logger: logger.NewNop()}),
		History:  history,
		Config:   cfg,
		Logger:   logger.NewNop(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func serve(srv *Server, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexIssuesSessionAndRendersForm(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cookie := sessionCookieFrom(t, rec)
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("cookie = %+v", cookie)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Get Video") || !strings.Contains(body, `action="/resolve"`) {
		t.Error("form missing from page")
	}
	if strings.Contains(body, "Download Video") {
		t.Error("download action rendered before any result")
	}
}

func TestResolveThenDownloadFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(&domain.ResolvedMedia{
		Author:  domain.Author{Nickname: "user", Avatar: "a.jpg"},
		Caption: "<b>caption</b>",
		Video:   "https://cdn.example/v.mp4",
		Statistics: domain.Statistics{
			Likes: domain.Count{Value: 1234},
			Saves: &domain.Count{Text: "12K"},
		},
	}, nil)

	srv := newTestServer(t, resolver, nil)
	cookie := sessionCookieFrom(t, serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	rec := serve(srv, postForm("/resolve", url.Values{"url": {"  " + videoURL + " "}}), cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("resolve status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	body := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie).Body.String()
	for _, want := range []string{
		`src="https://cdn.example/v.mp4"`,
		"Download Video",
		"user",
		"1,234",
		"12K",
		"&lt;b&gt;caption&lt;/b&gt;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	rec = serve(srv, httptest.NewRequest(http.MethodPost, "/download", nil), cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("download status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://cdn.example/v.mp4" {
		t.Errorf("download location = %q", loc)
	}
}

func TestDownloadWithoutResultShowsError(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	cookie := sessionCookieFrom(t, serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	rec := serve(srv, httptest.NewRequest(http.MethodPost, "/download", nil), cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	body := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie).Body.String()
	if !strings.Contains(body, "Download link is invalid.") {
		t.Error("invalid link message not rendered")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(&domain.ResolvedMedia{Video: "https://cdn.example/v.mp4"}, nil)

	srv := newTestServer(t, resolver, nil)
	first := sessionCookieFrom(t, serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	second := sessionCookieFrom(t, serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	if first.Value == second.Value {
		t.Fatal("two browsers got the same session id")
	}

	serve(srv, postForm("/resolve", url.Values{"url": {videoURL}}), first)

	body := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), second).Body.String()
	if strings.Contains(body, "cdn.example") {
		t.Error("result leaked into another session")
	}
}

func TestAPIResolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), videoURL).Return(&domain.ResolvedMedia{
		Author: domain.Author{Nickname: "user"},
		Video:  "https://cdn.example/v.mp4",
	}, nil)

	srv := newTestServer(t, resolver, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(`{"url":"`+videoURL+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(srv, req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var got stateView
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Phase != "success" || got.Media == nil || got.Media.Video != "https://cdn.example/v.mp4" || got.DownloadLink != got.Media.Video {
		t.Errorf("state = %+v", got)
	}

	cookie := sessionCookieFrom(t, rec)
	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/state", nil), cookie)
	var state stateView
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Phase != "success" {
		t.Errorf("api/state phase = %q", state.Phase)
	}
}

func TestAPIResolveValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_tiklydown.NewMockClient(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Times(0)

	srv := newTestServer(t, resolver, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(`{"url":"https://example.com/x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(srv, req, nil)

	var got stateView
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Phase != "failure" || got.Media != nil || got.ErrorMessage != "Please enter a valid TikTok video URL." {
		t.Errorf("state = %+v", got)
	}
}

func TestAPIResolveRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	cases := []struct {
		name        string
		contentType string
		body        string
		status      int
	}{
		{"wrong content type", "text/plain", `{"url":"x"}`, http.StatusUnsupportedMediaType},
		{"malformed", "application/json", `{"url":`, http.StatusBadRequest},
		{"unknown field", "application/json", `{"link":"x"}`, http.StatusBadRequest},
		{"trailing data", "application/json", `{"url":"x"}{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			if rec := serve(srv, req, nil); rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestAPIHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mock_resolution.NewMockRepository(ctrl)
	history.EXPECT().ListRecent(gomock.Any(), 5).Return([]*domain.Resolution{
		{InputURL: videoURL, Outcome: domain.OutcomeTransport, HTTPStatus: 500, Duration: 250 * time.Millisecond},
	}, nil)

	srv := newTestServer(t, nil, history)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Items []historyItem `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].HTTPStatus != 500 || got.Items[0].DurationMS != 250 {
		t.Errorf("items = %+v", got.Items)
	}

	if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/history?limit=abc", nil), nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/nope", nil), nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/resolve", nil), nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /resolve status = %d", rec.Code)
	}
}

func TestStateViewHidesMediaOutsideSuccess(t *testing.T) {
	v := newStateView(controller.State{
		InputURL: videoURL,
		Phase:    controller.PhaseLoading,
		Media:    &domain.ResolvedMedia{Video: "https://cdn.example/v.mp4"},
	})
	if v.Media != nil || !v.Loading || v.Phase != "loading" {
		t.Errorf("view = %+v", v)
	}
}
