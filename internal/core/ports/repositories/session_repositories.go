package repositories

import (
	"context"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
)

// SessionRepository owns the transient per-chat wizard record.
// Lifecycle: create on wizard entry, overwrite on each step, delete on
// completion or cancel. Nothing survives a process restart.
type SessionRepository interface {
	// Get retrieves the session for a chat, or apperrors.ErrNotFound.
	Get(ctx context.Context, chatID int64) (*domain.ReportParameters, error)

	// Save creates or overwrites the session for params.ChatID.
	Save(ctx context.Context, params domain.ReportParameters) error

	// Delete removes the session for a chat. Deleting a missing session is a no-op.
	Delete(ctx context.Context, chatID int64) error
}
