package dto

import (
	"fmt"
	"strings"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
)

// Choice categories carried in callback data, "category:value".
const (
	CategoryLocation = "choose_location"
	CategoryView     = "choose_view"
	CategoryPeriod   = "choose_period"
)

// Choice is a decoded discrete wizard selection.
type Choice struct {
	Category string
	Value    string
}

// Encode renders the choice in the "category:value" wire form.
func (c Choice) Encode() string {
	return c.Category + ":" + c.Value
}

// ParseChoice decodes callback data of the form "category:value".
func ParseChoice(data string) (Choice, error) {
	category, value, found := strings.Cut(data, ":")
	if !found || category == "" {
		return Choice{}, fmt.Errorf("%w: malformed choice data %q", apperrors.ErrValidation, data)
	}
	return Choice{Category: category, Value: value}, nil
}

// Option is one selectable button on a prompt.
type Option struct {
	Label string
	Data  string
}

// Prompt is an outbound wizard message with its fixed option set.
// An empty Options slice means free-text input is expected.
type Prompt struct {
	Text    string
	Options []Option
}
