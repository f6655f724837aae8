package domain

import "github.com/shopspring/decimal"

// OperationType is the transactional category a journal row represents.
type OperationType string

const (
	Buy  OperationType = "BUY"
	Sell OperationType = "SELL"
	Ship OperationType = "SHIP"
)

// OperationOrder is the fixed order in which operation blocks appear in a report.
var OperationOrder = []OperationType{Buy, Sell, Ship}

// JournalRow is a single row decoded from the journal worksheet by named
// columns. All fields are kept as raw cell text; the aggregator owns date
// parsing and number normalization so that a malformed cell degrades per-row
// instead of failing the whole ingestion pass.
type JournalRow struct {
	Date      string
	Material  string
	Operation string
	Weight    string
	Amount    string
	Location  string
}

// AggregatedEntry accumulates weight and amount for a single material.
type AggregatedEntry struct {
	Weight decimal.Decimal
	Amount decimal.Decimal
}

// Aggregation maps material name to its accumulated figures.
type Aggregation map[string]AggregatedEntry

// DefaultKind is the category assigned to materials absent from the mapping.
const DefaultKind = "Other"

// MaterialMapping maps a material name to its coarse kind.
type MaterialMapping map[string]string

// KindOf returns the kind for a material, falling back to DefaultKind.
func (m MaterialMapping) KindOf(material string) string {
	if kind, ok := m[material]; ok && kind != "" {
		return kind
	}
	return DefaultKind
}

// NumberFormat describes how numeric cells in the source sheet are written.
// The sheet's formatting has varied over time, so it is configuration rather
// than a hardcoded convention.
type NumberFormat struct {
	// DecimalComma indicates amounts use a comma as the decimal separator.
	DecimalComma bool
	// StripNBSP indicates thousands are separated with non-breaking spaces.
	StripNBSP bool
}
