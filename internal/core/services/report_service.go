package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/blackmetal/material_reports_bot/internal/middleware"
	"github.com/google/uuid"
)

// reportCaption accompanies the delivered document.
const reportCaption = "Material movement report"

// reportService implements the ReportSvc interface
type reportService struct {
	BaseService
	journal    portsrepo.JournalReader
	materials  portsrepo.MaterialReader
	aggregator portssvc.JournalAggregatorSvc
	formatter  portssvc.ReportFormatterSvc
	renderer   portssvc.DocumentRenderer
	deliverer  portssvc.ReportDeliverer
	now        func() time.Time
}

// ReportServiceOption is a functional option for configuring the report service
type ReportServiceOption func(*reportService)

// WithReportClock overrides the wall clock, used by tests.
func WithReportClock(now func() time.Time) ReportServiceOption {
	return func(s *reportService) {
		s.now = now
	}
}

// NewReportService creates the generation pipeline behind a completed wizard.
func NewReportService(
	journal portsrepo.JournalReader,
	materials portsrepo.MaterialReader,
	aggregator portssvc.JournalAggregatorSvc,
	formatter portssvc.ReportFormatterSvc,
	renderer portssvc.DocumentRenderer,
	deliverer portssvc.ReportDeliverer,
	options ...ReportServiceOption,
) portssvc.ReportSvc {
	svc := &reportService{
		journal:    journal,
		materials:  materials,
		aggregator: aggregator,
		formatter:  formatter,
		renderer:   renderer,
		deliverer:  deliverer,
		now:        time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.ReportSvc = (*reportService)(nil)

// Generate runs the sequential pipeline for a completed session: snapshot
// fetch, aggregation per operation type, formatting, rendering, delivery.
// A journal fetch failure aborts generation; a material-mapping failure
// degrades to the default kind for every material.
func (s *reportService) Generate(ctx context.Context, params domain.ReportParameters) error {
	reportID := uuid.NewString()
	logger := s.GetLogger(ctx).With(
		slog.String("report_id", reportID),
		slog.Int64("chat_id", params.ChatID),
		slog.String("view_mode", string(params.ViewMode)),
	)
	ctx = middleware.WithLogger(ctx, logger)

	rng := s.resolveRange(ctx, params)

	rows, err := s.journal.ListRows(ctx)
	if err != nil {
		return fmt.Errorf("%w: fetching journal rows: %v", apperrors.ErrSourceRead, err)
	}

	mapping, err := s.materials.GetMaterialMapping(ctx)
	if err != nil {
		s.LogError(ctx, err, "Material mapping unavailable, defaulting every material's kind")
		mapping = domain.MaterialMapping{}
	}

	blocks := make([]domain.OperationBlock, 0, len(domain.OperationOrder))
	for _, op := range domain.OperationOrder {
		agg := s.aggregator.Aggregate(rows, op, rng, params.Location)

		block := domain.OperationBlock{
			Operation: op,
			Heading:   s.formatter.OperationHeading(op),
		}
		if len(agg) == 0 {
			block.NoData = true
		} else if params.ViewMode == domain.ViewBrief {
			block.Table = s.formatter.BriefTable(agg, mapping)
		} else {
			block.Table = s.formatter.DetailedTable(agg, mapping)
		}
		blocks = append(blocks, block)
	}

	doc := domain.ReportDocument{
		Title:       s.formatter.DocumentTitle(rng, params.Location),
		RequestedBy: params.RequestedBy,
		GeneratedAt: s.now(),
		Blocks:      blocks,
	}

	payload, err := s.renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("rendering report document: %w", err)
	}

	if err := s.deliverer.SendDocument(ctx, params.ChatID, "report.pdf", payload, reportCaption); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
	}

	s.LogInfo(ctx, "Report generated and delivered",
		slog.Int("journal_rows", len(rows)),
		slog.String("title", doc.Title))
	return nil
}

// resolveRange parses the stored dd.mm.yyyy dates. Custom input is not
// calendar-validated at the wizard layer, so an unparsable date falls back
// to today with a warning instead of failing the whole pipeline.
func (s *reportService) resolveRange(ctx context.Context, params domain.ReportParameters) domain.DateRange {
	today := truncateToDay(s.now())

	start, err := time.Parse(domain.DateLayout, params.StartDate)
	if err != nil {
		s.LogWarn(ctx, "Unparsable start date, defaulting to today",
			slog.String("start_date", params.StartDate))
		start = today
	}
	end, err := time.Parse(domain.DateLayout, params.EndDate)
	if err != nil {
		s.LogWarn(ctx, "Unparsable end date, defaulting to today",
			slog.String("end_date", params.EndDate))
		end = today
	}
	return domain.DateRange{Start: start, End: end}
}
