package utils_test

import (
	"testing"

	"github.com/blackmetal/material_reports_bot/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"zero", "0", "0.00"},
		{"small", "7.5", "7.50"},
		{"rounding", "12.345", "12.35"},
		{"thousands", "1234.56", "1 234.56"},
		{"millions", "1234567", "1 234 567.00"},
		{"exact group boundary", "123456", "123 456.00"},
		{"negative", "-1234.56", "-1 234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, utils.FormatNumber(d))
		})
	}
}
