package telegram

import (
	"context"
	"fmt"

	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends texts and documents to chats. It is the outbound half of
// the transport, kept separate from the update dispatcher so core services
// can depend on it without a cycle.
type Notifier struct {
	api *tgbotapi.BotAPI
}

// NewNotifier creates the outbound messenger/deliverer.
func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

var (
	_ portssvc.Messenger       = (*Notifier)(nil)
	_ portssvc.ReportDeliverer = (*Notifier)(nil)
)

// SendText sends a plain text message.
func (n *Notifier) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendDocument uploads a rendered document with a caption.
func (n *Notifier) SendDocument(ctx context.Context, chatID int64, filename string, payload []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: payload})
	doc.Caption = caption
	if _, err := n.api.Send(doc); err != nil {
		return fmt.Errorf("sending document to chat %d: %w", chatID, err)
	}
	return nil
}
