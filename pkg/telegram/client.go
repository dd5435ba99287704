package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Update is an incoming text message.
type Update struct {
	ChatID    int64
	MessageID int
	Username  string
	Text      string
}

// Bot defines the interface for a long-polling Telegram bot.
type Bot interface {
	Updates(ctx context.Context) <-chan Update
	SendMessage(chatID int64, text string) error
	Stop()
}

// client is an implementation of Bot.
type client struct {
	bot            *tgbotapi.BotAPI
	pollingTimeout int
}

// NewClient creates a new Telegram bot client.
func NewClient(botToken string, pollingTimeout int) (Bot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &client{
		bot:            bot,
		pollingTimeout: pollingTimeout,
	}, nil
}

// Updates streams text messages until ctx is done.
func (c *client) Updates(ctx context.Context) <-chan Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = c.pollingTimeout
	raw := c.bot.GetUpdatesChan(cfg)

	out := make(chan Update)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-raw:
				if !ok {
					return
				}
				if u.Message == nil || u.Message.Text == "" {
					continue
				}
				upd := Update{
					ChatID:    u.Message.Chat.ID,
					MessageID: u.Message.MessageID,
					Text:      u.Message.Text,
				}
				if u.Message.From != nil {
					upd.Username = u.Message.From.UserName
				}
				select {
				case out <- upd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// SendMessage sends text to a chat, split into parts that fit one message.
// A part rejected as invalid Markdown is resent as plain text.
func (c *client) SendMessage(chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := c.bot.Send(msg); err != nil {
			msg.ParseMode = ""
			if _, err := c.bot.Send(msg); err != nil {
				return fmt.Errorf("failed to send telegram message: %w", err)
			}
		}
	}
	return nil
}

// Stop ends long polling.
func (c *client) Stop() {
	c.bot.StopReceivingUpdates()
}
