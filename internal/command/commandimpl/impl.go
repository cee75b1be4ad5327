package commandimpl

import (
	"strconv"

	"github.com/orgball2608/tiktok-downloader/internal/command"
	"github.com/orgball2608/tiktok-downloader/internal/session"
	"github.com/orgball2608/tiktok-downloader/internal/telegram"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"github.com/orgball2608/tiktok-downloader/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	Sessions *session.Store
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Sessions *session.Store
	Logger   logger.Logger
	Config   *config.Config

	retryConfig retry.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:    opts.Telegram,
		Sessions:    opts.Sessions,
		Logger:      opts.Logger.WithComponent("Command"),
		Config:      opts.Config,
		retryConfig: retry.DefaultConfig(),
	}
}

var _ command.Client = (*CommandImpl)(nil)

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
