package services_test

import (
	"testing"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	"github.com/blackmetal/material_reports_bot/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFormat() domain.NumberFormat {
	return domain.NumberFormat{DecimalComma: true, StripNBSP: true}
}

func februaryRange() domain.DateRange {
	return domain.DateRange{
		Start: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregate_FiltersAndSums(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "05.02.2025", Material: "Copper", Operation: "BUY", Weight: "10,5", Amount: "1 050,00", Location: "IRPIN"},
		{Date: "2025-02-10", Material: "Copper", Operation: "BUY", Weight: "4,5", Amount: "450,00", Location: "IRPIN"},
		{Date: "12.02.2025", Material: "Steel", Operation: "BUY", Weight: "100", Amount: "2000", Location: "IRPIN"},
		// Excluded: wrong operation, wrong location, out of range.
		{Date: "12.02.2025", Material: "Steel", Operation: "SELL", Weight: "50", Amount: "1500", Location: "IRPIN"},
		{Date: "12.02.2025", Material: "Steel", Operation: "BUY", Weight: "70", Amount: "1400", Location: "HOSTOMEL"},
		{Date: "12.03.2025", Material: "Steel", Operation: "BUY", Weight: "30", Amount: "600", Location: "IRPIN"},
		{Date: "31.01.2025", Material: "Steel", Operation: "BUY", Weight: "20", Amount: "400", Location: "IRPIN"},
	}

	agg := services.NewJournalAggregator(defaultFormat()).
		Aggregate(rows, domain.Buy, februaryRange(), "IRPIN")

	require.Len(t, agg, 2)
	assert.Equal(t, "15", agg["Copper"].Weight.String())
	assert.Equal(t, "1500", agg["Copper"].Amount.String())
	assert.Equal(t, "100", agg["Steel"].Weight.String())
	assert.Equal(t, "2000", agg["Steel"].Amount.String())
}

func TestAggregate_EmptyLocationMeansAllLocations(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "05.02.2025", Material: "Copper", Operation: "BUY", Weight: "1", Amount: "100", Location: "IRPIN"},
		{Date: "06.02.2025", Material: "Copper", Operation: "BUY", Weight: "2", Amount: "200", Location: "HOSTOMEL"},
	}

	agg := services.NewJournalAggregator(defaultFormat()).
		Aggregate(rows, domain.Buy, februaryRange(), "")

	assert.Equal(t, "3", agg["Copper"].Weight.String())
	assert.Equal(t, "300", agg["Copper"].Amount.String())
}

func TestAggregate_DateRangeIsInclusive(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "01.02.2025", Material: "Copper", Operation: "BUY", Weight: "1", Amount: "10", Location: ""},
		{Date: "28.02.2025", Material: "Copper", Operation: "BUY", Weight: "2", Amount: "20", Location: ""},
	}

	agg := services.NewJournalAggregator(defaultFormat()).
		Aggregate(rows, domain.Buy, februaryRange(), "")

	assert.Equal(t, "3", agg["Copper"].Weight.String())
}

func TestAggregate_MalformedRowsNeverAbortThePass(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "not a date", Material: "Copper", Operation: "BUY", Weight: "1", Amount: "10", Location: ""},
		{Date: "", Material: "Copper", Operation: "BUY", Weight: "1", Amount: "10", Location: ""},
		{Date: "10.02.2025", Material: "Copper", Operation: "BUY", Weight: "garbage", Amount: "", Location: ""},
		{Date: "11.02.2025", Material: "Copper", Operation: "BUY", Weight: "5", Amount: "500", Location: ""},
	}

	agg := services.NewJournalAggregator(defaultFormat()).
		Aggregate(rows, domain.Buy, februaryRange(), "")

	// Unparsable dates skip the row; unparsable numbers read as zero.
	require.Len(t, agg, 1)
	assert.Equal(t, "5", agg["Copper"].Weight.String())
	assert.Equal(t, "500", agg["Copper"].Amount.String())
}

func TestAggregate_NormalizesNBSPAndDecimalComma(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "10.02.2025", Material: "Copper", Operation: "BUY", Weight: "1 234,5", Amount: "12 345,67", Location: ""},
	}

	agg := services.NewJournalAggregator(defaultFormat()).
		Aggregate(rows, domain.Buy, februaryRange(), "")

	assert.Equal(t, "1234.5", agg["Copper"].Weight.String())
	assert.Equal(t, "12345.67", agg["Copper"].Amount.String())
}

func TestAggregate_NormalizationIsConfigurable(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "10.02.2025", Material: "Copper", Operation: "BUY", Weight: "1234.5", Amount: "1,5", Location: ""},
	}

	// Plain dot-decimal source: comma replacement off means "1,5" is garbage.
	agg := services.NewJournalAggregator(domain.NumberFormat{}).
		Aggregate(rows, domain.Buy, februaryRange(), "")

	assert.Equal(t, "1234.5", agg["Copper"].Weight.String())
	assert.True(t, agg["Copper"].Amount.IsZero())
}

func TestAggregate_IsPure(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "10.02.2025", Material: "Copper", Operation: "BUY", Weight: "5", Amount: "500", Location: ""},
		{Date: "11.02.2025", Material: "Steel", Operation: "BUY", Weight: "7", Amount: "700", Location: ""},
	}
	aggregator := services.NewJournalAggregator(defaultFormat())

	first := aggregator.Aggregate(rows, domain.Buy, februaryRange(), "")
	second := aggregator.Aggregate(rows, domain.Buy, februaryRange(), "")

	assert.Equal(t, first, second)
}

func TestAggregate_NoMatchesYieldsEmptyMapping(t *testing.T) {
	rows := []domain.JournalRow{
		{Date: "10.02.2025", Material: "Copper", Operation: "BUY", Weight: "5", Amount: "500", Location: ""},
	}

	agg := services.NewJournalAggregator(defaultFormat()).
		Aggregate(rows, domain.Ship, februaryRange(), "")

	assert.Empty(t, agg)
}
