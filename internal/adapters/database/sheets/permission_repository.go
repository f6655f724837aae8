package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// reportCapability is the permission flag that unlocks report generation.
const reportCapability = "REPORT"

// PermissionColumns names the header titles of the permissions worksheet.
type PermissionColumns struct {
	UserID     string
	Capability string
}

// SheetPermissionRepository reads the allow-list worksheet.
type SheetPermissionRepository struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
	columns       PermissionColumns
}

// NewSheetPermissionRepository creates a repository for the permissions worksheet.
func NewSheetPermissionRepository(svc *sheetsapi.Service, spreadsheetID, worksheet string, columns PermissionColumns) portsrepo.PermissionReader {
	return &SheetPermissionRepository{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet, columns: columns}
}

// HasReportAccess reports whether the user carries the report capability.
func (r *SheetPermissionRepository) HasReportAccess(ctx context.Context, userID int64) (bool, error) {
	values, err := readSheet(ctx, r.svc, r.spreadsheetID, r.worksheet)
	if err != nil {
		return false, err
	}
	if len(values) == 0 {
		return false, fmt.Errorf("permissions worksheet is empty")
	}

	userIdx, capabilityIdx := -1, -1
	for i := range values[0] {
		switch cellString(values[0], i) {
		case r.columns.UserID:
			userIdx = i
		case r.columns.Capability:
			capabilityIdx = i
		}
	}
	if userIdx < 0 || capabilityIdx < 0 {
		return false, fmt.Errorf("permissions header is missing column %q or %q", r.columns.UserID, r.columns.Capability)
	}

	id := strconv.FormatInt(userID, 10)
	for _, row := range values[1:] {
		if cellString(row, userIdx) != id {
			continue
		}
		if strings.EqualFold(cellString(row, capabilityIdx), reportCapability) {
			return true, nil
		}
	}
	return false, nil
}
