package memory

import (
	"context"
	"sync"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
)

// SessionRepository is an in-process session store. Sessions are transient
// and do not survive a restart; each chat owns exactly one record.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]domain.ReportParameters
}

// NewSessionRepository creates an empty in-memory session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[int64]domain.ReportParameters)}
}

var _ portsrepo.SessionRepository = (*SessionRepository)(nil)

// Get retrieves a copy of the session for a chat.
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (*domain.ReportParameters, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[chatID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &session, nil
}

// Save creates or overwrites the session keyed by params.ChatID.
func (r *SessionRepository) Save(ctx context.Context, params domain.ReportParameters) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[params.ChatID] = params
	return nil
}

// Delete removes the session for a chat; missing sessions are a no-op.
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, chatID)
	return nil
}
