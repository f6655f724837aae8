package services

import (
	"context"

	"github.com/blackmetal/material_reports_bot/internal/dto"
)

// ConversationSvc is the wizard state machine driving report parameter
// collection. Each method returns the next prompt to show, or nil when the
// input was consumed without one (or ignored as out-of-band).
type ConversationSvc interface {
	// Start begins the wizard for a chat after an allow-list check.
	// Returns apperrors.ErrAccessDenied without creating a session when the
	// user is not permitted.
	Start(ctx context.Context, chatID, userID int64, displayName string) (*dto.Prompt, error)

	// HandleChoice consumes a tagged choice event ("category:value").
	// Events that do not match the active stage are ignored.
	HandleChoice(ctx context.Context, chatID int64, data string) (*dto.Prompt, error)

	// HandleText consumes free text, expected only while entering custom dates.
	HandleText(ctx context.Context, chatID int64, text string) (*dto.Prompt, error)

	// Cancel aborts the wizard from any stage and discards the session.
	Cancel(ctx context.Context, chatID int64) (*dto.Prompt, error)
}

// AccessSvc gates wizard entry. Lookup failures read as "not allowed".
type AccessSvc interface {
	IsAllowed(ctx context.Context, userID int64) bool
}
