// Package telegram runs the Telegram front end of the assistant.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/ykres/ai-salon-assistant/internal/domain"
	"github.com/ykres/ai-salon-assistant/internal/logging"
)

const shutdownGrace = 10 * time.Second

const (
	greetingText = "Здравствуйте! Я помогу с записью и вопросами."
	noReplyText  = "(Нет ответа от ассистента)"
	errorText    = "Извините, возникла ошибка при обработке запроса. Попробуйте ещё раз."
	timeoutText  = "Ассистент отвечает слишком долго. Пожалуйста, попробуйте ещё раз."
	panicText    = "Сервис временно недоступен. Пожалуйста, попробуйте позже."
)

// Relay is the part of the service the bot needs.
type Relay interface {
	SendOrStart(ctx context.Context, key, text string) (string, error)
}

// Messenger sends messages to Telegram chats. *telego.Bot implements it.
type Messenger interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
}

// Bot answers private chat messages through the assistant. Every chat is one
// session keyed by its chat id.
type Bot struct {
	bot       *telego.Bot
	messenger Messenger
	relay     Relay
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewBot creates a bot for token.
func NewBot(token string, relay Relay, logger *slog.Logger) (*Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b := newBot(bot, relay, logger)
	b.bot = bot
	return b, nil
}

func newBot(messenger Messenger, relay Relay, logger *slog.Logger) *Bot {
	return &Bot{
		messenger: messenger,
		relay:     relay,
		logger:    logging.Component(logger, "telegram"),
	}
}

// Run long-polls for updates until ctx is done, dropping updates that
// arrived while the bot was offline. In-flight updates get shutdownGrace to
// finish once ctx is done; Run returns after all of them.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to drop pending updates: %w", err)
	}

	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 30,
	})
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	b.logger.Info("telegram bot started", "username", b.bot.Username())

	handleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(ctx, func() {
		time.AfterFunc(shutdownGrace, cancel)
	})
	defer stop()

	for update := range updates {
		b.wg.Add(1)
		go func(update telego.Update) {
			defer b.wg.Done()
			b.HandleUpdate(handleCtx, update)
		}(update)
	}

	b.wg.Wait()
	b.logger.Info("telegram bot stopped")
	return nil
}

// HandleUpdate answers one update. Non-text messages and commands other than
// /start are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update telego.Update) {
	message := update.Message
	if message == nil || message.Text == "" {
		return
	}
	chatID := message.Chat.ID
	logger := b.logger.With("chat_id", chatID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("unhandled error in update handler", "panic", r)
			b.sendPlain(ctx, chatID, panicText)
		}
	}()

	if command, ok := parseCommand(message.Text); ok {
		if command == "start" {
			b.sendPlain(ctx, chatID, greetingText)
		}
		return
	}

	if err := b.messenger.SendChatAction(ctx, tu.ChatAction(tu.ID(chatID), telego.ChatActionTyping)); err != nil {
		logger.Warn("failed to send chat action", "err", err)
	}

	reply, err := b.relay.SendOrStart(ctx, strconv.FormatInt(chatID, 10), message.Text)
	switch {
	case err == nil:
		if reply == "" {
			reply = noReplyText
		}
		b.sendHTML(ctx, chatID, reply)
	case domain.IsTimeout(err):
		logger.Warn("assistant timed out", "err", err)
		b.sendPlain(ctx, chatID, timeoutText)
	case errors.Is(err, context.Canceled):
		logger.Info("update abandoned on shutdown")
	default:
		logger.Error("error while handling message", "err", err)
		b.sendPlain(ctx, chatID, errorText)
	}
}

// sendHTML sends text with HTML parse mode and falls back to plain text when
// Telegram rejects the markup.
func (b *Bot) sendHTML(ctx context.Context, chatID int64, text string) {
	msg := tu.Message(tu.ID(chatID), text)
	msg.ParseMode = telego.ModeHTML
	if _, err := b.messenger.SendMessage(ctx, msg); err != nil {
		b.logger.Warn("HTML parse failed, falling back to plain text", "chat_id", chatID, "err", err)
		b.sendPlain(ctx, chatID, text)
	}
}

func (b *Bot) sendPlain(ctx context.Context, chatID int64, text string) {
	if _, err := b.messenger.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "err", err)
	}
}

// parseCommand returns the command name of a "/name" or "/name@bot" message.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name, true
}
