package migrations

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

func TestEmbeddedMigrationsHaveBothDirections(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations embedded")
	}

	for _, name := range files {
		data, err := fs.ReadFile(FS, name)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("%s is missing goose annotations", name)
		}
	}
}

func TestUpSkipsWhenPostgresDisabled(t *testing.T) {
	cfg := &config.Config{}
	if err := Up(context.Background(), cfg, logger.NewNop()); err != nil {
		t.Errorf("Up() error = %v", err)
	}
}

func TestDependentsStartOnlyAfterMigrations(t *testing.T) {
	cfg := &config.Config{}
	cfg.Postgres.Enabled = true
	cfg.Postgres.Host = "127.0.0.1"
	cfg.Postgres.Port = 1 // nothing listens here
	cfg.Postgres.Name = "resolver"
	cfg.Postgres.SslMode = "disable"

	started := false
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() logger.Logger { return logger.NewNop() }),
		Module,
		fx.Invoke(func(lc fx.Lifecycle, _ Applied) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error {
				started = true
				return nil
			}})
		}),
	)
	if err := app.Err(); err != nil {
		t.Fatalf("fx.New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Start(ctx); err == nil {
		_ = app.Stop(ctx)
		t.Fatal("Start() succeeded without a database")
	}
	if started {
		t.Error("dependent start hook ran although migrations failed")
	}
}
