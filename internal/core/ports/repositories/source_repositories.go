package repositories

import (
	"context"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
)

// JournalReader reads the full journal table from the source store.
// The snapshot is filtered in memory by the aggregator.
type JournalReader interface {
	// ListRows retrieves every journal row, decoded by named columns.
	ListRows(ctx context.Context) ([]domain.JournalRow, error)
}

// LocationReader lists the location names offered by the wizard.
type LocationReader interface {
	ListLocations(ctx context.Context) ([]string, error)
}

// MaterialReader provides the material to kind lookup.
type MaterialReader interface {
	GetMaterialMapping(ctx context.Context) (domain.MaterialMapping, error)
}

// PermissionReader checks the report capability for a user identity.
type PermissionReader interface {
	// HasReportAccess reports whether the user carries the report capability.
	HasReportAccess(ctx context.Context, userID int64) (bool, error)
}
