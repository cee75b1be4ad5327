package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tiktok-downloader/internal/telegram"
)

// GetUpdatesChan wraps the bot's GetUpdatesChan method
func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	if !tg.Enabled() {
		return nil
	}
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	if tg.Enabled() {
		tg.TgBot.StopReceivingUpdates()
	}
}

// SendMessage sends a message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	return tg.send(chatID, tgbotapi.NewMessage(chatID, text))
}

func (tg *TelegramImpl) SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	return tg.send(chatID, msg)
}

func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, text string) error {
	_, err := tg.send(chatID, tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (tg *TelegramImpl) EditMessageWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	_, err := tg.send(chatID, tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup))
	return err
}

// SendVideoByURL lets Telegram fetch the video itself.
func (tg *TelegramImpl) SendVideoByURL(chatID int64, videoURL, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(videoURL))
	video.Caption = caption
	video.SupportsStreaming = true
	_, err := tg.send(chatID, video)
	return err
}

func (tg *TelegramImpl) AnswerCallback(callbackID, text string) error {
	if !tg.Enabled() {
		return telegram.ErrDisabled
	}
	// Request instead of Send: the answer is a bool, not a Message.
	if _, err := tg.TgBot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// NotifyAdmin sends a text message to the configured admin user
func (tg *TelegramImpl) NotifyAdmin(text string) {
	if !tg.Enabled() || tg.Config.Telegram.User == 0 {
		return
	}
	if _, err := tg.SendMessage(tg.Config.Telegram.User, text); err != nil {
		tg.Logger.Error("Error notifying admin", "userID", tg.Config.Telegram.User, "error", err)
	}
}

func (tg *TelegramImpl) send(chatID int64, c tgbotapi.Chattable) (int, error) {
	if !tg.Enabled() {
		return 0, telegram.ErrDisabled
	}

	sent, err := tg.TgBot.Send(c)
	if err != nil {
		tg.Logger.Error("Error sending to chat", "chatID", chatID, "error", err)
		return 0, fmt.Errorf("failed to send to chat %d: %w", chatID, err)
	}

	tg.Logger.Debug("Sent to chat", "chatID", chatID, "messageID", sent.MessageID)
	return sent.MessageID, nil
}
