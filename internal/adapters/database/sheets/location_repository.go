package sheets

import (
	"context"

	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// SheetLocationRepository reads the location names offered by the wizard
// from the first column of the locations worksheet.
type SheetLocationRepository struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
}

// NewSheetLocationRepository creates a repository for the locations worksheet.
func NewSheetLocationRepository(svc *sheetsapi.Service, spreadsheetID, worksheet string) portsrepo.LocationReader {
	return &SheetLocationRepository{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}
}

// ListLocations returns the location names, skipping the header row and
// empty cells.
func (r *SheetLocationRepository) ListLocations(ctx context.Context) ([]string, error) {
	values, err := readSheet(ctx, r.svc, r.spreadsheetID, r.worksheet)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}

	locations := make([]string, 0, len(values)-1)
	for _, row := range values[1:] {
		if name := cellString(row, 0); name != "" {
			locations = append(locations, name)
		}
	}
	return locations, nil
}
