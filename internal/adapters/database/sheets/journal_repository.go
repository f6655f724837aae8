package sheets

import (
	"context"
	"fmt"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// JournalColumns names the header titles of the journal worksheet. Rows are
// decoded by these names, validated once per read, so the aggregation logic
// never carries positional column assumptions.
type JournalColumns struct {
	Date      string
	Material  string
	Operation string
	Weight    string
	Amount    string
	Location  string
}

// SheetJournalRepository reads the journal worksheet.
type SheetJournalRepository struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
	columns       JournalColumns
}

// NewSheetJournalRepository creates a repository for the journal worksheet.
func NewSheetJournalRepository(svc *sheetsapi.Service, spreadsheetID, worksheet string, columns JournalColumns) portsrepo.JournalReader {
	return &SheetJournalRepository{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet, columns: columns}
}

// ListRows retrieves the full journal table decoded by named columns.
func (r *SheetJournalRepository) ListRows(ctx context.Context) ([]domain.JournalRow, error) {
	values, err := readSheet(ctx, r.svc, r.spreadsheetID, r.worksheet)
	if err != nil {
		return nil, err
	}
	return decodeJournalRows(values, r.columns)
}

// journalColumnIndex holds the resolved position of each named column.
type journalColumnIndex struct {
	date, material, operation, weight, amount, location int
}

// decodeJournalRows resolves the header once and decodes every data row.
// Short rows read as empty cells; the aggregator deals with malformed values.
func decodeJournalRows(values [][]interface{}, columns JournalColumns) ([]domain.JournalRow, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("journal worksheet is empty")
	}

	index, err := resolveJournalHeader(values[0], columns)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.JournalRow, 0, len(values)-1)
	for _, raw := range values[1:] {
		rows = append(rows, domain.JournalRow{
			Date:      cellString(raw, index.date),
			Material:  cellString(raw, index.material),
			Operation: cellString(raw, index.operation),
			Weight:    cellString(raw, index.weight),
			Amount:    cellString(raw, index.amount),
			Location:  cellString(raw, index.location),
		})
	}
	return rows, nil
}

func resolveJournalHeader(header []interface{}, columns JournalColumns) (journalColumnIndex, error) {
	position := make(map[string]int, len(header))
	for i := range header {
		position[cellString(header, i)] = i
	}

	index := journalColumnIndex{}
	for _, col := range []struct {
		title  string
		target *int
	}{
		{columns.Date, &index.date},
		{columns.Material, &index.material},
		{columns.Operation, &index.operation},
		{columns.Weight, &index.weight},
		{columns.Amount, &index.amount},
		{columns.Location, &index.location},
	} {
		pos, ok := position[col.title]
		if !ok {
			return journalColumnIndex{}, fmt.Errorf("journal header is missing column %q", col.title)
		}
		*col.target = pos
	}
	return index, nil
}
