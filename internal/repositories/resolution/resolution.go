package resolution

import (
	"context"
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=resolution.go -destination=mocks/mock.go
type Repository interface {
	// Create stores the outcome of one submission
	Create(ctx context.Context, r domain.Resolution) error

	// ListRecent returns the newest records first, at most limit of them
	ListRecent(ctx context.Context, limit int) ([]*domain.Resolution, error)

	// CleanupOldRecords deletes records older than the given age
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
