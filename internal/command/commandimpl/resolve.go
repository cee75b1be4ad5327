package commandimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/internal/domain"
	"github.com/orgball2608/tiktok-downloader/pkg/formatter"
)

const (
	actionDownload = "dl"

	// Bot API limits, in UTF-16 code units.
	maxMessageText  = 4096
	maxVideoCaption = 1024
)

type callbackData struct {
	Action string `json:"action"`
}

func (c *CommandImpl) handleResolve(ctx context.Context, chatID int64, input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	sentMsgID, err := c.Telegram.SendMessage(chatID, "Fetching download link... ⏳")
	if err != nil {
		return fmt.Errorf("failed to send initial message: %w", err)
	}

	st := c.Sessions.Get(sessionKey(chatID)).Submit(ctx, input)

	switch st.Phase {
	case controller.PhaseSuccess:
		return c.Telegram.EditMessageWithMarkup(chatID, sentMsgID, formatMedia(st.Media, maxMessageText), downloadKeyboard())
	case controller.PhaseFailure:
		return c.Telegram.EditMessageText(chatID, sentMsgID, "❌ "+st.ErrorMessage)
	default:
		// A newer link from the same chat won; its own message carries the result.
		return c.Telegram.EditMessageText(chatID, sentMsgID, "Skipped, a newer link is being processed.")
	}
}

func downloadKeyboard() tgbotapi.InlineKeyboardMarkup {
	data, _ := json.Marshal(callbackData{Action: actionDownload})
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Download Video", string(data)),
		),
	)
}

// formatMedia renders the author, caption and statistics within limit UTF-16
// units. Only the caption is shortened unless the rest alone is over limit.
func formatMedia(m *domain.ResolvedMedia, limit int) string {
	var head strings.Builder
	head.WriteString("👤 ")
	head.WriteString(m.Author.Nickname)
	if m.Author.Handle != "" {
		fmt.Fprintf(&head, " (@%s)", m.Author.Handle)
	}
	head.WriteString("\n")

	var stats strings.Builder
	s := m.Statistics
	fmt.Fprintf(&stats, "\n❤️ %s  💬 %s  🔁 %s  ▶️ %s", s.Likes, s.Comments, s.Shares, s.Plays)
	if s.Saves != nil {
		fmt.Fprintf(&stats, "  🔖 %s", s.Saves)
	}

	body := ""
	if m.Caption != "" {
		budget := limit - formatter.UTF16Len(head.String()) - formatter.UTF16Len(stats.String()) - 2
		if budget > 0 {
			body = "\n" + formatter.TruncateUTF16(m.Caption, budget) + "\n"
		}
	}
	return formatter.TruncateUTF16(head.String()+body+stats.String(), limit)
}
