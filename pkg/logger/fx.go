package logger

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"go.uber.org/fx"
)

var FxOption = fx.Annotate(
	func(lc fx.Lifecycle, cfg *config.Config) *Impl {
		return New(configOpts(cfg, initSentry(lc, cfg)))
	},
	fx.As(new(Logger)),
)

func configOpts(cfg *config.Config, sentryEnabled bool) Opts {
	return Opts{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Sentry: sentryEnabled,
	}
}

func initSentry(lc fx.Lifecycle, cfg *config.Config) bool {
	if cfg.App.SentryUrl == "" {
		return false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.App.SentryUrl,
		Environment: cfg.App.Env,
	})
	if err != nil {
		New(configOpts(cfg, false)).Error("Sentry initialization failed", "error", err)
		return false
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
	})
	return true
}
