// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/danielhkuo/meal-window/models"
)

// SendTimeout caps a single Telegram API call. It stays below the
// scheduler's job timeout.
const SendTimeout = 30 * time.Second

// Sender is the subset of *telebot.Bot used to deliver messages
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Telegram posts summaries to a single kitchen chat
type Telegram struct {
	bot    Sender
	chatID int64
}

var _ Notifier = (*Telegram)(nil)

// NewTelegram builds an outbound-only bot. Offline skips the getMe call
// so startup does not depend on Telegram being reachable.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: SendTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return NewTelegramWithSender(bot, chatID), nil
}

func NewTelegramWithSender(bot Sender, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

// NotifySummary returns when the send finishes or ctx is done, whichever
// comes first. An abandoned send is still bounded by SendTimeout.
func (t *Telegram) NotifySummary(ctx context.Context, s models.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(telebot.ChatID(t.chatID), FormatSummary(s))
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send summary for %s: %w", s.Window, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send summary for %s: %w", s.Window, ctx.Err())
	}
}
