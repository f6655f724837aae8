package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/blackmetal/material_reports_bot/internal/dto"
	"github.com/blackmetal/material_reports_bot/internal/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// User-facing transport texts.
const (
	msgWelcome      = "Welcome! Use the /report command to generate a material movement report."
	msgAccessDenied = "Sorry, you do not have access to report generation."
	msgNoSession    = "No report in progress. Use /report to start one."
	msgGroupOnly    = "This command is meant for a group chat."
	msgGroupReports = "Press \"Reports\" to open a private chat with the bot and generate a report:"
)

const groupReportsLabel = "Reports"

// Bot receives Telegram updates over long polling and routes them into the
// conversation engine. Unmatched inputs stay with the command layer here.
type Bot struct {
	api           *tgbotapi.BotAPI
	conversations portssvc.ConversationSvc
	logger        *slog.Logger
}

// NewBot creates the inbound update dispatcher.
func NewBot(api *tgbotapi.BotAPI, conversations portssvc.ConversationSvc, logger *slog.Logger) *Bot {
	return &Bot{api: api, conversations: conversations, logger: logger}
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("Bot started, listening for updates", slog.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	updateLogger := b.logger.With(
		slog.String("update_id", uuid.NewString()),
		slog.Int("telegram_update_id", update.UpdateID),
	)
	ctx = middleware.WithLogger(ctx, updateLogger)

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.reply(ctx, chatID, msgWelcome)

	case "report":
		prompt, err := b.conversations.Start(ctx, chatID, message.From.ID, displayName(message.From))
		if errors.Is(err, apperrors.ErrAccessDenied) {
			b.reply(ctx, chatID, msgAccessDenied)
			return
		}
		if err != nil {
			b.logSendFailure(ctx, err, chatID)
			return
		}
		b.sendPrompt(ctx, chatID, prompt)

	case "cancel":
		prompt, err := b.conversations.Cancel(ctx, chatID)
		if err != nil {
			b.logSendFailure(ctx, err, chatID)
			return
		}
		b.sendPrompt(ctx, chatID, prompt)

	case "groupreports":
		if !isGroupChat(message.Chat) {
			b.reply(ctx, chatID, msgGroupOnly)
			return
		}
		if _, err := b.api.Send(groupReportsMessage(chatID, b.api.Self.UserName)); err != nil {
			b.logSendFailure(ctx, err, chatID)
		}
	}
}

// groupReportsMessage builds the group announcement: a single button
// deep-linking members into a private chat with the bot.
func groupReportsMessage(chatID int64, botUsername string) tgbotapi.MessageConfig {
	deepLink := fmt.Sprintf("https://t.me/%s?start=reports", botUsername)
	msg := tgbotapi.NewMessage(chatID, msgGroupReports)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(groupReportsLabel, deepLink),
		),
	)
	return msg
}

func isGroupChat(chat *tgbotapi.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Always acknowledge so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to answer callback query", slog.String("error", err.Error()))
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	prompt, err := b.conversations.HandleChoice(ctx, chatID, query.Data)
	if errors.Is(err, apperrors.ErrNotFound) {
		b.reply(ctx, chatID, msgNoSession)
		return
	}
	if err != nil {
		b.logSendFailure(ctx, err, chatID)
		return
	}
	b.sendPrompt(ctx, chatID, prompt)
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	prompt, err := b.conversations.HandleText(ctx, message.Chat.ID, message.Text)
	if err != nil {
		b.logSendFailure(ctx, err, message.Chat.ID)
		return
	}
	b.sendPrompt(ctx, message.Chat.ID, prompt)
}

// sendPrompt sends a wizard prompt, attaching its options as an inline
// keyboard with one button per row.
func (b *Bot) sendPrompt(ctx context.Context, chatID int64, prompt *dto.Prompt) {
	if prompt == nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, prompt.Text)
	if len(prompt.Options) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(prompt.Options))
		for _, option := range prompt.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(option.Label, option.Data),
			))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logSendFailure(ctx, err, chatID)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logSendFailure(ctx, err, chatID)
	}
}

func (b *Bot) logSendFailure(ctx context.Context, err error, chatID int64) {
	middleware.GetLoggerFromCtx(ctx).Error("Update handling failed",
		slog.Int64("chat_id", chatID),
		slog.String("error", err.Error()))
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}
	return name
}
