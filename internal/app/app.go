package app

import (
	"context"
	"errors"

	"github.com/orgball2608/tiktok-downloader/internal/command"
	"github.com/orgball2608/tiktok-downloader/internal/command/commandimpl"
	"github.com/orgball2608/tiktok-downloader/internal/controller/controllerimpl"
	"github.com/orgball2608/tiktok-downloader/internal/housekeeping"
	"github.com/orgball2608/tiktok-downloader/internal/migrations"
	"github.com/orgball2608/tiktok-downloader/internal/repositories/resolution"
	"github.com/orgball2608/tiktok-downloader/internal/session"
	"github.com/orgball2608/tiktok-downloader/internal/telegram"
	"github.com/orgball2608/tiktok-downloader/internal/telegram/telegramimpl"
	"github.com/orgball2608/tiktok-downloader/internal/tiklydown/api_adapter"
	"github.com/orgball2608/tiktok-downloader/internal/web"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"github.com/orgball2608/tiktok-downloader/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		api_adapter.New,
		controllerimpl.NewFactory,
		session.New,
	),
	resolution.Module,
	migrations.Module,
	web.Module,
	fx.Invoke(housekeeping.New),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, tgClient telegram.Client, cmdClient command.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := cmdClient.HandleCommand(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("Command handler stopped", "error", err)
					tgClient.NotifyAdmin("Command handler stopped: " + err.Error())
				}
			}()
			tgClient.NotifyAdmin("TikTok downloader started")
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
