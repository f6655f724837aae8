package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/blackmetal/material_reports_bot/internal/dto"
)

// User-facing wizard texts.
const (
	msgChooseLocation   = "Choose a location for the report:"
	msgChooseView       = "Choose a report mode:"
	msgChoosePeriod     = "Choose a report period:"
	msgEnterCustomDates = "Please enter a date or a date range in the format dd.mm.yyyy or dd.mm.yyyy-dd.mm.yyyy:"
	msgInvalidDates     = "Invalid date format. Please enter dd.mm.yyyy or dd.mm.yyyy-dd.mm.yyyy"
	msgGenerating       = "Your parameters are saved. The report is being generated, please wait."
	msgGenerateFailed   = "Report generation failed. Please try again later."
	msgCancelled        = "Operation cancelled."
)

// allLocationsValue is the choice value for a report across every location,
// stored as an empty location filter.
const allLocationsValue = "ALL"

// conversationService implements the ConversationSvc interface
type conversationService struct {
	BaseService
	sessions  portsrepo.SessionRepository
	access    portssvc.AccessSvc
	locations portsrepo.LocationReader
	reports   portssvc.ReportSvc
	messenger portssvc.Messenger
	now       func() time.Time
}

// ConversationServiceOption is a functional option for configuring the conversation service
type ConversationServiceOption func(*conversationService)

// WithConversationClock overrides the wall clock, used by tests.
func WithConversationClock(now func() time.Time) ConversationServiceOption {
	return func(s *conversationService) {
		s.now = now
	}
}

// NewConversationService creates the wizard state machine.
func NewConversationService(
	sessions portsrepo.SessionRepository,
	access portssvc.AccessSvc,
	locations portsrepo.LocationReader,
	reports portssvc.ReportSvc,
	messenger portssvc.Messenger,
	options ...ConversationServiceOption,
) portssvc.ConversationSvc {
	svc := &conversationService{
		sessions:  sessions,
		access:    access,
		locations: locations,
		reports:   reports,
		messenger: messenger,
		now:       time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.ConversationSvc = (*conversationService)(nil)

// Start begins the wizard. Denied users never get a session record.
func (s *conversationService) Start(ctx context.Context, chatID, userID int64, displayName string) (*dto.Prompt, error) {
	if !s.access.IsAllowed(ctx, userID) {
		s.LogWarn(ctx, "Report wizard entry denied",
			slog.Int64("chat_id", chatID),
			slog.Int64("user_id", userID))
		return nil, apperrors.ErrAccessDenied
	}

	session := domain.ReportParameters{
		ChatID:      chatID,
		Stage:       domain.StageChoosingLocation,
		RequestedBy: displayName,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	names, err := s.locations.ListLocations(ctx)
	if err != nil {
		// Degrade to the all-locations option only.
		s.LogError(ctx, err, "Location list unavailable", slog.Int64("chat_id", chatID))
		names = nil
	}

	options := make([]dto.Option, 0, len(names)+1)
	for _, name := range names {
		options = append(options, dto.Option{
			Label: name,
			Data:  dto.Choice{Category: dto.CategoryLocation, Value: name}.Encode(),
		})
	}
	options = append(options, dto.Option{
		Label: "General report",
		Data:  dto.Choice{Category: dto.CategoryLocation, Value: allLocationsValue}.Encode(),
	})

	return &dto.Prompt{Text: msgChooseLocation, Options: options}, nil
}

// HandleChoice advances the wizard on a tagged choice event. Events whose
// category does not match the active stage are ignored so the transport's
// command layer can deal with them.
func (s *conversationService) HandleChoice(ctx context.Context, chatID int64, data string) (*dto.Prompt, error) {
	choice, err := dto.ParseChoice(data)
	if err != nil {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	switch session.Stage {
	case domain.StageChoosingLocation:
		if choice.Category != dto.CategoryLocation {
			return nil, nil
		}
		return s.applyLocation(ctx, *session, choice.Value)

	case domain.StageChoosingView:
		if choice.Category != dto.CategoryView {
			return nil, nil
		}
		return s.applyView(ctx, *session, choice.Value)

	case domain.StageChoosingPeriod:
		if choice.Category != dto.CategoryPeriod {
			return nil, nil
		}
		return s.applyPeriod(ctx, *session, choice.Value)
	}

	return nil, nil
}

// HandleText consumes free text. Outside the custom-dates stage it is left
// untouched for the command layer.
func (s *conversationService) HandleText(ctx context.Context, chatID int64, text string) (*dto.Prompt, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Stage != domain.StageEnteringCustomDates {
		return nil, nil
	}

	start, end, err := ParseCustomRange(text)
	if err != nil {
		// Re-prompt without consuming the stage.
		s.LogDebug(ctx, "Invalid custom date input", slog.Int64("chat_id", chatID), slog.String("text", text))
		return &dto.Prompt{Text: msgInvalidDates}, nil
	}

	session.PeriodType = domain.PeriodCustom
	session.StartDate = start
	session.EndDate = end
	return nil, s.complete(ctx, *session)
}

// Cancel aborts the wizard from any stage.
func (s *conversationService) Cancel(ctx context.Context, chatID int64) (*dto.Prompt, error) {
	if err := s.sessions.Delete(ctx, chatID); err != nil {
		s.LogError(ctx, err, "Failed to discard session on cancel", slog.Int64("chat_id", chatID))
	}
	return &dto.Prompt{Text: msgCancelled}, nil
}

func (s *conversationService) applyLocation(ctx context.Context, session domain.ReportParameters, value string) (*dto.Prompt, error) {
	if value == allLocationsValue {
		session.Location = ""
	} else {
		session.Location = value
	}
	session.Stage = domain.StageChoosingView
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &dto.Prompt{
		Text: msgChooseView,
		Options: []dto.Option{
			{Label: "Brief", Data: dto.Choice{Category: dto.CategoryView, Value: string(domain.ViewBrief)}.Encode()},
			{Label: "Detailed", Data: dto.Choice{Category: dto.CategoryView, Value: string(domain.ViewDetailed)}.Encode()},
		},
	}, nil
}

func (s *conversationService) applyView(ctx context.Context, session domain.ReportParameters, value string) (*dto.Prompt, error) {
	mode := domain.ViewMode(value)
	if mode != domain.ViewBrief && mode != domain.ViewDetailed {
		return nil, nil
	}
	session.ViewMode = mode
	session.Stage = domain.StageChoosingPeriod
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &dto.Prompt{
		Text: msgChoosePeriod,
		Options: []dto.Option{
			{Label: "Today", Data: dto.Choice{Category: dto.CategoryPeriod, Value: string(domain.PeriodToday)}.Encode()},
			{Label: "Yesterday", Data: dto.Choice{Category: dto.CategoryPeriod, Value: string(domain.PeriodYesterday)}.Encode()},
			{Label: "Last week", Data: dto.Choice{Category: dto.CategoryPeriod, Value: string(domain.PeriodLastWeek)}.Encode()},
			{Label: "Last month", Data: dto.Choice{Category: dto.CategoryPeriod, Value: string(domain.PeriodLastMonth)}.Encode()},
			{Label: "From - To", Data: dto.Choice{Category: dto.CategoryPeriod, Value: string(domain.PeriodCustom)}.Encode()},
		},
	}, nil
}

func (s *conversationService) applyPeriod(ctx context.Context, session domain.ReportParameters, value string) (*dto.Prompt, error) {
	period := domain.PeriodType(value)
	session.PeriodType = period

	if period == domain.PeriodCustom {
		session.Stage = domain.StageEnteringCustomDates
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
		return &dto.Prompt{Text: msgEnterCustomDates}, nil
	}

	rng, err := ResolvePeriod(period, s.now())
	if err != nil {
		// Unknown period tag on the wire; not ours to consume.
		return nil, nil
	}
	session.StartDate = rng.Start.Format(domain.DateLayout)
	session.EndDate = rng.End.Format(domain.DateLayout)
	return nil, s.complete(ctx, session)
}

// complete finalizes the session and synchronously runs the generation
// pipeline. The session is discarded whatever the outcome; a failure is
// reported to the user instead of leaving the wizard hanging.
func (s *conversationService) complete(ctx context.Context, session domain.ReportParameters) error {
	session.Stage = domain.StageCompleted
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	defer func() {
		if err := s.sessions.Delete(ctx, session.ChatID); err != nil {
			s.LogError(ctx, err, "Failed to discard completed session", slog.Int64("chat_id", session.ChatID))
		}
	}()

	if err := s.messenger.SendText(ctx, session.ChatID, msgGenerating); err != nil {
		s.LogError(ctx, err, "Failed to send generation notice", slog.Int64("chat_id", session.ChatID))
	}

	if err := s.reports.Generate(ctx, session); err != nil {
		s.LogError(ctx, err, "Report generation failed",
			slog.Int64("chat_id", session.ChatID),
			slog.String("period_type", string(session.PeriodType)))
		if msgErr := s.messenger.SendText(ctx, session.ChatID, msgGenerateFailed); msgErr != nil {
			s.LogError(ctx, msgErr, "Failed to notify user of generation failure", slog.Int64("chat_id", session.ChatID))
		}
		return nil
	}

	return nil
}
