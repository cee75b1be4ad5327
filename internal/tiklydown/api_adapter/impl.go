package api_adapter

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/orgball2608/tiktok-downloader/internal/domain"
	"github.com/orgball2608/tiktok-downloader/internal/tiklydown"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	apperrors "github.com/orgball2608/tiktok-downloader/pkg/errors"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

const maxBodyBytes = 4 << 20

type Opts struct {
	fx.In
	Config *config.Config
	Logger logger.Logger
	// HTTPClient is optional; the zero-timeout default client is used otherwise.
	HTTPClient *http.Client `optional:"true"`
}

type APIAdapter struct {
	apiBase    string
	userAgent  string
	httpClient *http.Client
	logger     logger.Logger
}

func New(opts Opts) tiklydown.Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// No Timeout: the request lives as long as the caller's context.
		httpClient = &http.Client{}
	}
	return &APIAdapter{
		apiBase:    opts.Config.Resolver.APIBase,
		userAgent:  opts.Config.Resolver.UserAgent,
		httpClient: httpClient,
		logger:     opts.Logger.WithComponent("TiklydownAPI"),
	}
}

var _ tiklydown.Client = (*APIAdapter)(nil)

// RequestURL builds <base>?url=<escaped target>, keeping any query the base already has.
func RequestURL(apiBase, targetURL string) (string, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "", fmt.Errorf("invalid api base %q: %w", apiBase, err)
	}
	q := u.Query()
	q.Set("url", targetURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (a *APIAdapter) Resolve(ctx context.Context, targetURL string) (*domain.ResolvedMedia, error) {
	apiURL, err := RequestURL(a.apiBase, targetURL)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeTransport, "could not build request url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeTransport, "could not create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("Resolution request failed", "url", targetURL, "error", err)
		return nil, apperrors.WrapWithCode(err, apperrors.CodeTransport, "resolution request failed")
	}
	defer safeClose(resp.Body, a.logger)

	a.logger.Debug("Resolution response received",
		"url", targetURL,
		"status", resp.StatusCode,
		"encoding", resp.Header.Get("Content-Encoding"),
		"elapsed", time.Since(start).Round(time.Millisecond).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.WrapWithCode(&tiklydown.StatusError{StatusCode: resp.StatusCode},
			apperrors.CodeTransport, "resolution api returned an error status")
	}

	reader, err := decodedBody(resp)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeDecode, "could not decompress response")
	}
	defer safeClose(reader, a.logger)

	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeTransport, "could not read response body")
	}

	media, err := tiklydown.Decode(body)
	if err != nil {
		a.logger.Warn("Resolution response rejected",
			"url", targetURL,
			"code", apperrors.GetCode(err),
			"error", err)
		return nil, err
	}

	a.logger.Info("Resolved media", "url", targetURL, "author", media.Author.Nickname)
	return media, nil
}

// decodedBody unwraps the compressions we advertise in Accept-Encoding.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

// safeClose safely closes an io.Closer and logs any errors
func safeClose(closer io.Closer, logger logger.Logger) {
	if err := closer.Close(); err != nil {
		logger.Error("Error closing response body", "error", err)
	}
}
