package domain

import "time"

// DateLayout is the user-facing date format used throughout the wizard.
const DateLayout = "02.01.2006"

// ISODateLayout is the secondary date format accepted from the source sheet
// and used in range-form report titles.
const ISODateLayout = "2006-01-02"

// ViewMode selects the report granularity.
type ViewMode string

const (
	ViewBrief    ViewMode = "BRIEF"
	ViewDetailed ViewMode = "DETAILED"
)

// PeriodType identifies one of the named reporting periods or a custom range.
type PeriodType string

const (
	PeriodToday     PeriodType = "TODAY"
	PeriodYesterday PeriodType = "YESTERDAY"
	PeriodLastWeek  PeriodType = "LAST_WEEK"
	PeriodLastMonth PeriodType = "LAST_MONTH"
	PeriodCustom    PeriodType = "CUSTOM"
)

// Stage is the wizard step a session is currently waiting on.
type Stage string

const (
	StageChoosingLocation    Stage = "CHOOSING_LOCATION"
	StageChoosingView        Stage = "CHOOSING_VIEW"
	StageChoosingPeriod      Stage = "CHOOSING_PERIOD"
	StageEnteringCustomDates Stage = "ENTERING_CUSTOM_DATES"
	StageCompleted           Stage = "COMPLETED"
	StageCancelled           Stage = "CANCELLED"
)

// ReportParameters is the per-chat session record collected by the wizard.
// It lives from wizard entry until the report is delivered or cancelled.
type ReportParameters struct {
	ChatID      int64
	Location    string // empty means all locations
	ViewMode    ViewMode
	PeriodType  PeriodType
	StartDate   string // dd.mm.yyyy
	EndDate     string // dd.mm.yyyy
	Stage       Stage
	RequestedBy string
}

// DateRange is an inclusive calendar-day range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RowKind distinguishes table rows structurally; the renderer decides the
// visual treatment (totals come out bold, headers shaded).
type RowKind string

const (
	RowHeader     RowKind = "HEADER"
	RowData       RowKind = "DATA"
	RowKindHeader RowKind = "KIND_HEADER"
	RowSubtotal   RowKind = "SUBTOTAL"
	RowGrandTotal RowKind = "GRAND_TOTAL"
)

// ReportRow is one fixed-width row of display cells.
type ReportRow struct {
	Kind  RowKind
	Cells []string
}

// ReportTable is an ordered sequence of rows, never mutated once built.
type ReportTable struct {
	Rows []ReportRow
}

// OperationBlock is the formatted section for one operation type.
type OperationBlock struct {
	Operation OperationType
	Heading   string
	NoData    bool
	Table     ReportTable
}

// ReportDocument is the fully formatted report handed to the rendering layer.
type ReportDocument struct {
	Title       string
	RequestedBy string
	GeneratedAt time.Time
	Blocks      []OperationBlock
}
