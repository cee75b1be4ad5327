package api_adapter

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/orgball2608/tiktok-downloader/internal/tiklydown"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	apperrors "github.com/orgball2608/tiktok-downloader/pkg/errors"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
)

const okBody = `{"status":200,"result":{"desc":"hello","video":"https://cdn.example/v.mp4",
	"author":{"nickname":"user","avatar":"a.jpg"},
	"statistics":{"likeCount":10,"commentCount":2,"shareCount":1,"playCount":100}}}`

func newAdapter(t *testing.T, srv *httptest.Server) tiklydown.Client {
	t.Helper()
	cfg := &config.Config{}
	cfg.Resolver.APIBase = srv.URL + "/api/download/v3"
	cfg.Resolver.UserAgent = "test-agent"
	return New(Opts{Config: cfg, Logger: logger.NewNop(), HTTPClient: srv.Client()})
}

func TestRequestURL(t *testing.T) {
	got, err := RequestURL("https://api.tiklydown.eu.org/api/download/v3", "https://www.tiktok.com/@user/video/123?lang=en&x=1")
	if err != nil {
		t.Fatalf("RequestURL() error = %v", err)
	}
	want := "https://api.tiklydown.eu.org/api/download/v3?url=https%3A%2F%2Fwww.tiktok.com%2F%40user%2Fvideo%2F123%3Flang%3Den%26x%3D1"
	if got != want {
		t.Errorf("RequestURL() = %q, want %q", got, want)
	}

	if _, err := RequestURL("://bad", "x"); err == nil {
		t.Error("expected error for invalid base")
	}
}

func TestResolveSendsSingleEncodedRequest(t *testing.T) {
	target := "https://www.tiktok.com/@user/video/123?is_from_webapp=1&sender=2"
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/download/v3" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != target {
			t.Errorf("url param = %q, want %q", got, target)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	media, err := newAdapter(t, srv).Resolve(context.Background(), target)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if media.Video != "https://cdn.example/v.mp4" || media.Caption != "hello" {
		t.Errorf("media = %+v", media)
	}
}

func TestResolveNonSuccessStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	media, err := newAdapter(t, srv).Resolve(context.Background(), "https://www.tiktok.com/@u/video/1")
	if media != nil {
		t.Errorf("media = %+v, want nil", media)
	}
	var statusErr *tiklydown.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("error = %v, want StatusError 500", err)
	}
	if apperrors.GetCode(err) != apperrors.CodeTransport {
		t.Errorf("code = %q", apperrors.GetCode(err))
	}
	if calls != 1 {
		t.Errorf("calls = %d, want exactly one attempt", calls)
	}
}

func TestResolveMalformedAndEmptyBodies(t *testing.T) {
	cases := []struct {
		body string
		code string
	}{
		{`not json at all`, apperrors.CodeDecode},
		{`{"status":200,"result":{}}`, apperrors.CodeSemantic},
		{`{"status":500,"message":"failed"}`, apperrors.CodeSemantic},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(c.body))
		}))

		_, err := newAdapter(t, srv).Resolve(context.Background(), "https://www.tiktok.com/@u/video/1")
		if got := apperrors.GetCode(err); got != c.code {
			t.Errorf("body %q: code = %q, want %q (err: %v)", c.body, got, c.code, err)
		}
		srv.Close()
	}
}

func TestResolveCompressedBodies(t *testing.T) {
	encoders := map[string]func(w http.ResponseWriter){
		"gzip": func(w http.ResponseWriter) {
			gz := gzip.NewWriter(w)
			_, _ = gz.Write([]byte(okBody))
			_ = gz.Close()
		},
		"br": func(w http.ResponseWriter) {
			br := brotli.NewWriter(w)
			_, _ = br.Write([]byte(okBody))
			_ = br.Close()
		},
	}

	for encoding, write := range encoders {
		t.Run(encoding, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", encoding)
				write(w)
			}))
			defer srv.Close()

			media, err := newAdapter(t, srv).Resolve(context.Background(), "https://www.tiktok.com/@u/video/1")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if media.Author.Nickname != "user" {
				t.Errorf("media = %+v", media)
			}
		})
	}
}

func TestResolveTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	adapter := newAdapter(t, srv)
	srv.Close()

	_, err := adapter.Resolve(context.Background(), "https://www.tiktok.com/@u/video/1")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if apperrors.GetCode(err) != apperrors.CodeTransport {
		t.Errorf("code = %q, want transport", apperrors.GetCode(err))
	}
}
