package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `👋 Welcome to the TikTok Downloader bot!

Send me a TikTok video link and I will fetch a watermark-free download link for it.

Commands:
/tiktok <url> - Resolve a TikTok video URL.
/help - Show this guide.

You can also just paste the link without any command.`

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	if !c.Telegram.Enabled() {
		c.Logger.Info("Telegram disabled, command handler not started.")
		return nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}
			go c.handleUpdate(ctx, update)
		}
	}
}

func (c *CommandImpl) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if u.CallbackQuery != nil {
		c.handleCallback(ctx, u.CallbackQuery)
		return
	}
	if u.Message == nil || u.Message.Chat == nil {
		return
	}

	from := ""
	if u.Message.From != nil {
		from = u.Message.From.UserName
	}
	c.Logger.Info("Message received", "from", from, "text", u.Message.Text)

	var err error
	if u.Message.IsCommand() {
		err = c.processCommand(ctx, u)
	} else {
		err = c.handleResolve(ctx, u.Message.Chat.ID, u.Message.Text)
	}
	if err != nil {
		c.Logger.Error("Error processing message",
			"command", u.Message.Command(),
			"error", err)
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	switch update.Message.Command() {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "tiktok":
		args := strings.TrimSpace(update.Message.CommandArguments())
		if args == "" {
			_, err := c.Telegram.SendMessage(chatID, "Please provide a video URL: /tiktok <tiktok_video_url>")
			return err
		}
		return c.handleResolve(ctx, chatID, args)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}
