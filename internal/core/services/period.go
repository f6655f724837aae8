package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
	"github.com/blackmetal/material_reports_bot/internal/core/domain"
)

// ResolvePeriod turns a named period into a concrete inclusive date range.
// Anything outside the four named periods is an error; the caller treats it
// as a custom-range request. Boundaries are plain calendar-day arithmetic,
// no timezone conversion.
func ResolvePeriod(period domain.PeriodType, today time.Time) (domain.DateRange, error) {
	today = truncateToDay(today)

	switch period {
	case domain.PeriodToday:
		return domain.DateRange{Start: today, End: today}, nil

	case domain.PeriodYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return domain.DateRange{Start: yesterday, End: yesterday}, nil

	case domain.PeriodLastWeek:
		// Monday of the previous ISO week through the following Sunday.
		// Go's Weekday has Sunday=0, so normalize to Monday=0 first. When
		// today is itself a Monday this yields today-7 .. today-1.
		weekday := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -(weekday + 7))
		return domain.DateRange{Start: start, End: start.AddDate(0, 0, 6)}, nil

	case domain.PeriodLastMonth:
		firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := firstOfThisMonth.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
		return domain.DateRange{Start: start, End: end}, nil
	}

	return domain.DateRange{}, fmt.Errorf("not a named period: %q", period)
}

// ParseCustomRange splits free-text date input on "-". One token is a
// single-day range, two tokens are start and end. Tokens are trimmed but not
// validated as real calendar dates here; downstream consumers that cannot
// parse a stored date fall back to today and log the discrepancy.
func ParseCustomRange(text string) (start, end string, err error) {
	parts := strings.Split(text, "-")
	switch len(parts) {
	case 1:
		day := strings.TrimSpace(parts[0])
		return day, day, nil
	case 2:
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
	}
	return "", "", fmt.Errorf("%w: expected dd.mm.yyyy or dd.mm.yyyy-dd.mm.yyyy, got %d date tokens", apperrors.ErrValidation, len(parts))
}

// truncateToDay pins a timestamp to its calendar day at UTC midnight, so
// range boundaries compare cleanly with dates parsed from the sheet.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
