package services

import (
	"strings"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// journalAggregator implements the JournalAggregatorSvc interface
type journalAggregator struct {
	format domain.NumberFormat
}

// NewJournalAggregator creates an aggregator for sources written with the
// given number format.
func NewJournalAggregator(format domain.NumberFormat) portssvc.JournalAggregatorSvc {
	return &journalAggregator{format: format}
}

var _ portssvc.JournalAggregatorSvc = (*journalAggregator)(nil)

// rowDateLayouts are the accepted journal date formats, first match wins.
var rowDateLayouts = []string{domain.DateLayout, domain.ISODateLayout}

// Aggregate filters rows by operation type, inclusive date range and location,
// and sums weight and amount per material. A malformed row never aborts the
// pass: unparsable dates skip the row, unparsable numbers read as zero.
func (a *journalAggregator) Aggregate(rows []domain.JournalRow, op domain.OperationType, rng domain.DateRange, location string) domain.Aggregation {
	result := domain.Aggregation{}

	for _, row := range rows {
		date, ok := parseRowDate(row.Date)
		if !ok {
			continue
		}
		if date.Before(rng.Start) || date.After(rng.End) {
			continue
		}
		if strings.TrimSpace(row.Operation) != string(op) {
			continue
		}
		if location != "" && strings.TrimSpace(row.Location) != location {
			continue
		}

		material := strings.TrimSpace(row.Material)
		entry := result[material]
		entry.Weight = entry.Weight.Add(a.parseAmount(row.Weight))
		entry.Amount = entry.Amount.Add(a.parseAmount(row.Amount))
		result[material] = entry
	}

	return result
}

// parseAmount normalizes a numeric cell per the configured number format and
// parses it, defaulting to zero on anything unparsable.
func (a *journalAggregator) parseAmount(cell string) decimal.Decimal {
	s := cell
	if a.format.StripNBSP {
		s = strings.ReplaceAll(s, " ", "")
	}
	if a.format.DecimalComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return value
}

func parseRowDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	for _, layout := range rowDateLayouts {
		if date, err := time.Parse(layout, cell); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
