package services

import (
	"context"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
)

// JournalAggregatorSvc filters and sums journal rows for one operation type.
type JournalAggregatorSvc interface {
	// Aggregate returns the per-material totals for rows matching the
	// operation type, inclusive date range and (optional) location.
	// It is a pure function of its inputs.
	Aggregate(rows []domain.JournalRow, op domain.OperationType, rng domain.DateRange, location string) domain.Aggregation
}

// ReportFormatterSvc turns aggregated figures into presentation tables.
type ReportFormatterSvc interface {
	// BriefTable groups entries by kind and emits one row per kind plus a grand total.
	BriefTable(agg domain.Aggregation, mapping domain.MaterialMapping) domain.ReportTable

	// DetailedTable breaks out materials within each kind with subtotals.
	DetailedTable(agg domain.Aggregation, mapping domain.MaterialMapping) domain.ReportTable

	// DocumentTitle builds the report title for the range and location.
	DocumentTitle(rng domain.DateRange, location string) string

	// OperationHeading returns the section heading for an operation type.
	OperationHeading(op domain.OperationType) string
}

// ReportSvc runs the full generation pipeline for a completed session:
// fetch, aggregate per operation type, format, render and deliver.
type ReportSvc interface {
	Generate(ctx context.Context, params domain.ReportParameters) error
}
