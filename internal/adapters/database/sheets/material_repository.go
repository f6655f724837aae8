package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// MaterialColumns names the header titles of the materials worksheet.
type MaterialColumns struct {
	Material string
	Kind     string
}

// SheetMaterialRepository reads the material-to-kind lookup worksheet.
type SheetMaterialRepository struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
	columns       MaterialColumns
}

// NewSheetMaterialRepository creates a repository for the materials worksheet.
func NewSheetMaterialRepository(svc *sheetsapi.Service, spreadsheetID, worksheet string, columns MaterialColumns) portsrepo.MaterialReader {
	return &SheetMaterialRepository{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet, columns: columns}
}

// GetMaterialMapping builds the material to kind lookup. Materials with an
// empty kind cell are left out; they default to the "Other" kind downstream.
func (r *SheetMaterialRepository) GetMaterialMapping(ctx context.Context) (domain.MaterialMapping, error) {
	values, err := readSheet(ctx, r.svc, r.spreadsheetID, r.worksheet)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("materials worksheet is empty")
	}

	materialIdx, kindIdx := -1, -1
	for i := range values[0] {
		switch cellString(values[0], i) {
		case r.columns.Material:
			materialIdx = i
		case r.columns.Kind:
			kindIdx = i
		}
	}
	if materialIdx < 0 || kindIdx < 0 {
		return nil, fmt.Errorf("materials header is missing column %q or %q", r.columns.Material, r.columns.Kind)
	}

	mapping := domain.MaterialMapping{}
	for _, row := range values[1:] {
		material := cellString(row, materialIdx)
		if material == "" {
			continue
		}
		kind := strings.ReplaceAll(cellString(row, kindIdx), " ", "")
		if kind == "" {
			continue
		}
		mapping[material] = kind
	}
	return mapping, nil
}
