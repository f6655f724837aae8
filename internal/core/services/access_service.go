package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
)

// accessService implements the AccessSvc interface
type accessService struct {
	BaseService
	permissions portsrepo.PermissionReader
}

// NewAccessService creates the allow-list gate for wizard entry.
func NewAccessService(permissions portsrepo.PermissionReader) portssvc.AccessSvc {
	return &accessService{permissions: permissions}
}

var _ portssvc.AccessSvc = (*accessService)(nil)

// IsAllowed checks the report capability for a user. Fail-closed: a missing
// entry or any lookup failure reads as "not allowed", and lookup failures
// are logged rather than propagated.
func (s *accessService) IsAllowed(ctx context.Context, userID int64) bool {
	allowed, err := s.permissions.HasReportAccess(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Permission lookup failed, denying access",
			slog.Int64("user_id", userID))
		return false
	}
	return allowed
}
