package resolution

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

// New picks the Postgres repository when a pool exists.
func New(pg *pgxpool.Pool, logger logger.Logger) Repository {
	if pg == nil {
		return Nop{}
	}
	return NewPgx(pg, logger)
}

var Module = fx.Module("resolution_repository",
	fx.Provide(New),
)
