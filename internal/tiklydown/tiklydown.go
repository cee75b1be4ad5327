package tiklydown

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgball2608/tiktok-downloader/internal/domain"
)

var (
	ErrUnsuccessful   = errors.New("resolution api reported failure")
	ErrNoResult       = errors.New("response has no result")
	ErrNoDownloadLink = errors.New("no download link found")
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

//go:generate go run go.uber.org/mock/mockgen -source=tiklydown.go -destination=mocks/mock.go
type Client interface {
	// Resolve issues exactly one request for targetURL. Errors carry a
	// pkg/errors code: transport, decode or semantic.
	Resolve(ctx context.Context, targetURL string) (*domain.ResolvedMedia, error)
}
