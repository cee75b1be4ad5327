package telegram

import (
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrDisabled = errors.New("telegram bot is disabled")

// IsRejected reports whether the Bot API refused the request itself (a 4xx
// other than 429), so sending it again cannot succeed.
func IsRejected(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests
}

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	// Enabled is false when no bot token is configured.
	Enabled() bool

	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error)
	EditMessageText(chatID int64, messageID int, text string) error
	EditMessageWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error
	SendVideoByURL(chatID int64, videoURL, caption string) error
	AnswerCallback(callbackID, text string) error

	// NotifyAdmin sends a service alert to the configured admin chat, if any.
	NotifyAdmin(text string)
}
