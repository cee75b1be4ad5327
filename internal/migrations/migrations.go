package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

//go:embed *.sql
var FS embed.FS

var Module = fx.Module("migrations", fx.Provide(New))

// Applied marks that migrations run on start. Start hooks of anything that
// depends on it are appended after, and so run after, the migrations.
type Applied struct{}

func New(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) Applied {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return Up(ctx, cfg, log)
		},
	})
	return Applied{}
}

// Open prepares goose for the embedded migrations and opens a lib/pq connection.
func Open(cfg *config.Config) (*sql.DB, error) {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Up applies pending migrations. It does nothing when Postgres is disabled.
func Up(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if !cfg.Postgres.Enabled {
		return nil
	}

	db, err := Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations applied")
	return nil
}
