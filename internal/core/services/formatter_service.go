package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/blackmetal/material_reports_bot/internal/utils"
	"github.com/shopspring/decimal"
)

// GeneralLocation is the title placeholder when no location filter is set.
const GeneralLocation = "General"

// reportFormatter implements the ReportFormatterSvc interface
type reportFormatter struct{}

// NewReportFormatter creates the presentation-layer formatter.
func NewReportFormatter() portssvc.ReportFormatterSvc {
	return &reportFormatter{}
}

var _ portssvc.ReportFormatterSvc = (*reportFormatter)(nil)

var operationHeadings = map[domain.OperationType]string{
	domain.Buy:  "Purchased materials",
	domain.Sell: "Sold materials",
	domain.Ship: "Shipped materials",
}

// OperationHeading returns the section heading for an operation type.
func (f *reportFormatter) OperationHeading(op domain.OperationType) string {
	return operationHeadings[op]
}

// BriefTable groups entries by kind, sums weight and amount per kind, and
// emits one row per kind plus a grand-total row. Kinds are ordered by
// descending summed amount; equal amounts keep alphabetical kind order
// (the stable sort runs over keys collected in lexicographic order).
func (f *reportFormatter) BriefTable(agg domain.Aggregation, mapping domain.MaterialMapping) domain.ReportTable {
	grouped := map[string]domain.AggregatedEntry{}
	for material, entry := range agg {
		kind := mapping.KindOf(material)
		sum := grouped[kind]
		sum.Weight = sum.Weight.Add(entry.Weight)
		sum.Amount = sum.Amount.Add(entry.Amount)
		grouped[kind] = sum
	}

	kinds := sortedKeysByAmount(grouped)

	table := domain.ReportTable{Rows: []domain.ReportRow{
		{Kind: domain.RowHeader, Cells: []string{"Kind", "Weight (kg)", "Amount"}},
	}}

	overallWeight, overallAmount := decimal.Zero, decimal.Zero
	for _, kind := range kinds {
		sum := grouped[kind]
		overallWeight = overallWeight.Add(sum.Weight)
		overallAmount = overallAmount.Add(sum.Amount)
		table.Rows = append(table.Rows, domain.ReportRow{
			Kind:  domain.RowData,
			Cells: []string{kind, utils.FormatNumber(sum.Weight), utils.FormatNumber(sum.Amount)},
		})
	}

	table.Rows = append(table.Rows, domain.ReportRow{
		Kind:  domain.RowGrandTotal,
		Cells: []string{"Grand total:", utils.FormatNumber(overallWeight), utils.FormatNumber(overallAmount)},
	})
	return table
}

// DetailedTable groups entries by kind and lists materials within each kind:
// a kind-header row, one row per material with its average price per kg,
// a kind-subtotal row, then a grand-total row after all kinds. Kinds and
// materials are both ordered by descending amount.
func (f *reportFormatter) DetailedTable(agg domain.Aggregation, mapping domain.MaterialMapping) domain.ReportTable {
	grouped := map[string]map[string]domain.AggregatedEntry{}
	subtotals := map[string]domain.AggregatedEntry{}
	for material, entry := range agg {
		kind := mapping.KindOf(material)
		if grouped[kind] == nil {
			grouped[kind] = map[string]domain.AggregatedEntry{}
		}
		grouped[kind][material] = entry

		sub := subtotals[kind]
		sub.Weight = sub.Weight.Add(entry.Weight)
		sub.Amount = sub.Amount.Add(entry.Amount)
		subtotals[kind] = sub
	}

	table := domain.ReportTable{Rows: []domain.ReportRow{
		{Kind: domain.RowHeader, Cells: []string{"Material type", "Weight (kg)", "Amount", "Average price per kg"}},
	}}

	overallWeight, overallAmount := decimal.Zero, decimal.Zero
	for _, kind := range sortedKeysByAmount(subtotals) {
		table.Rows = append(table.Rows, domain.ReportRow{
			Kind:  domain.RowKindHeader,
			Cells: []string{"Kind: " + kind, "", "", ""},
		})

		for _, material := range sortedKeysByAmount(grouped[kind]) {
			entry := grouped[kind][material]
			table.Rows = append(table.Rows, domain.ReportRow{
				Kind: domain.RowData,
				Cells: []string{
					material,
					utils.FormatNumber(entry.Weight),
					utils.FormatNumber(entry.Amount),
					utils.FormatNumber(averagePrice(entry)),
				},
			})
		}

		sub := subtotals[kind]
		table.Rows = append(table.Rows, domain.ReportRow{
			Kind:  domain.RowSubtotal,
			Cells: []string{fmt.Sprintf("Subtotal (%s):", kind), utils.FormatNumber(sub.Weight), utils.FormatNumber(sub.Amount), ""},
		})
		overallWeight = overallWeight.Add(sub.Weight)
		overallAmount = overallAmount.Add(sub.Amount)
	}

	table.Rows = append(table.Rows, domain.ReportRow{
		Kind:  domain.RowGrandTotal,
		Cells: []string{"Grand total:", utils.FormatNumber(overallWeight), utils.FormatNumber(overallAmount), ""},
	})
	return table
}

// DocumentTitle encodes the three-way title rule: a single day that is not a
// full calendar month gets the day form, an exact calendar month gets the
// month form, everything else gets the literal ISO range form.
func (f *reportFormatter) DocumentTitle(rng domain.DateRange, location string) string {
	if location == "" {
		location = GeneralLocation
	}

	fullMonth := rng.Start.Day() == 1 &&
		rng.Start.Month() == rng.End.Month() &&
		rng.Start.Year() == rng.End.Year() &&
		rng.End.Day() == lastDayOfMonth(rng.End)

	switch {
	case sameDay(rng.Start, rng.End) && !fullMonth:
		return fmt.Sprintf("Report for %d %s %d (%s)", rng.Start.Day(), rng.Start.Month(), rng.Start.Year(), location)
	case fullMonth:
		return fmt.Sprintf("Purchase and sales report: %s for %s %d", location, rng.Start.Month(), rng.Start.Year())
	default:
		return fmt.Sprintf("Report: %s | %s - %s", location,
			rng.Start.Format(domain.ISODateLayout), rng.End.Format(domain.ISODateLayout))
	}
}

// averagePrice is amount/weight, or zero when weight is zero.
func averagePrice(entry domain.AggregatedEntry) decimal.Decimal {
	if entry.Weight.IsZero() {
		return decimal.Zero
	}
	return entry.Amount.DivRound(entry.Weight, 2)
}

// sortedKeysByAmount orders keys by descending accumulated amount; the sort
// is stable over alphabetically collected keys, so ties come out in
// lexicographic order.
func sortedKeysByAmount(entries map[string]domain.AggregatedEntry) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return entries[keys[i]].Amount.GreaterThan(entries[keys[j]].Amount)
	})
	return keys
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
