package telegram

import (
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestIsRejected(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"bad request", &tgbotapi.Error{Code: 400, Message: "Bad Request: message caption is too long"}, true},
		{"wrapped forbidden", fmt.Errorf("failed to send to chat 1: %w", &tgbotapi.Error{Code: 403}), true},
		{"rate limited", &tgbotapi.Error{Code: 429}, false},
		{"server error", &tgbotapi.Error{Code: 502}, false},
		{"network", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsRejected(c.err); got != c.want {
				t.Errorf("IsRejected(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
