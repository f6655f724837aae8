package services

import (
	"context"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
)

// Messenger sends short status texts to a chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// ReportDeliverer hands a rendered document to the chat transport.
// Delivery failures are surfaced, never retried here.
type ReportDeliverer interface {
	SendDocument(ctx context.Context, chatID int64, filename string, payload []byte, caption string) error
}

// DocumentRenderer lays out a formatted report as a byte payload.
type DocumentRenderer interface {
	Render(doc domain.ReportDocument) ([]byte, error)
}
