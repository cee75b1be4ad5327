package commandimpl

import (
	"context"
	"encoding/json"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/internal/telegram"
	"github.com/orgball2608/tiktok-downloader/pkg/retry"
)

func (c *CommandImpl) handleCallback(ctx context.Context, callbackQuery *tgbotapi.CallbackQuery) {
	if err := c.Telegram.AnswerCallback(callbackQuery.ID, ""); err != nil {
		c.Logger.Warn("Failed to answer callback", "error", err)
	}

	var data callbackData
	if err := json.Unmarshal([]byte(callbackQuery.Data), &data); err != nil {
		c.Logger.Error("Failed to unmarshal callback data", "error", err)
		return
	}
	if data.Action != actionDownload || callbackQuery.Message == nil || callbackQuery.Message.Chat == nil {
		return
	}

	chatID := callbackQuery.Message.Chat.ID
	ctrl := c.Sessions.Get(sessionKey(chatID))

	if err := ctrl.Download(ctx, c.videoNavigator(chatID, ctrl)); err != nil {
		c.Logger.Error("Download failed", "chatID", chatID, "error", err)
		if _, sendErr := c.Telegram.SendMessage(chatID, "❌ "+ctrl.State().ErrorMessage); sendErr != nil {
			c.Logger.Error("Failed to report download error", "error", sendErr)
		}
	}
}

// videoNavigator delivers the media URL to the chat as a video.
func (c *CommandImpl) videoNavigator(chatID int64, ctrl controller.Controller) controller.Navigator {
	return controller.NavigatorFunc(func(ctx context.Context, mediaURL string) error {
		caption := ""
		if st := ctrl.State(); st.Media != nil {
			caption = formatMedia(st.Media, maxVideoCaption)
		}

		return retry.Do(ctx, c.Logger, "SendVideoByURL", func() error {
			err := c.Telegram.SendVideoByURL(chatID, mediaURL, caption)
			if errors.Is(err, telegram.ErrDisabled) || telegram.IsRejected(err) {
				return retry.Permanent(err)
			}
			return err
		}, c.retryConfig)
	})
}
