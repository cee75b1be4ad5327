package resolution

import (
	"context"
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/domain"
)

// Nop discards every record. Used when Postgres is disabled.
type Nop struct{}

var _ Repository = Nop{}

func (Nop) Create(context.Context, domain.Resolution) error { return nil }

func (Nop) ListRecent(context.Context, int) ([]*domain.Resolution, error) { return nil, nil }

func (Nop) CleanupOldRecords(context.Context, time.Duration) (int64, error) { return 0, nil }
