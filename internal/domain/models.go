// package domain/models.go
package domain

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// SheetName is the worksheet every source workbook must carry.
const SheetName = "Controle de viagens"

// Source is one workbook to ingest: a display name plus its raw content.
type Source struct {
	Name   string
	Reader io.Reader
}

// TripRecord is one normalized row of a "Controle de viagens" sheet.
// Quantity and Revenue keep their blank-cell state: a blank cell is not zero.
type TripRecord struct {
	Source     string              `json:"source"`
	Row        int                 `json:"row"`
	Driver     string              `json:"driver"`
	CostCenter string              `json:"cost_center"`
	Date       time.Time           `json:"date"`
	Quantity   decimal.NullDecimal `json:"quantity"`
	Revenue    decimal.NullDecimal `json:"revenue"`
}

// AugmentedRecord is a TripRecord after the bonus pass.
type AugmentedRecord struct {
	TripRecord
	Bonus  decimal.Decimal `json:"bonus"`
	Worked bool            `json:"worked"`
}

// --- Tabelas de resumo ---

// DriverCostCenterRow is one row of the driver by cost-center table.
type DriverCostCenterRow struct {
	Driver     string          `json:"driver"`
	CostCenter string          `json:"cost_center"`
	Trips      int             `json:"trips"`
	Quantity   decimal.Decimal `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// DriverRow is one row of the per-driver table.
type DriverRow struct {
	Driver   string          `json:"driver"`
	Trips    int             `json:"trips"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Bonus    decimal.Decimal `json:"bonus"`
}

// CostCenterRow is one row of the per-cost-center table.
type CostCenterRow struct {
	CostCenter string          `json:"cost_center"`
	Trips      int             `json:"trips"`
	Revenue    decimal.Decimal `json:"revenue"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// DaysWorkedRow counts the distinct dates a driver worked inside the period.
type DaysWorkedRow struct {
	Driver string `json:"driver"`
	Days   int    `json:"days"`
}

// RevenueByDayRow is the revenue booked on one date of the period.
type RevenueByDayRow struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// WorkMatrix marks, per driver and date, whether at least one paid trip exists.
// Cells[i][j] refers to Drivers[i] on Dates[j].
type WorkMatrix struct {
	Drivers []string    `json:"drivers"`
	Dates   []time.Time `json:"dates"`
	Cells   [][]bool    `json:"cells"`
}

// Summary bundles the four consistent tables plus the daily revenue series.
type Summary struct {
	ByDriverCostCenter []DriverCostCenterRow `json:"by_driver_cost_center"`
	ByDriver           []DriverRow           `json:"by_driver"`
	ByCostCenter       []CostCenterRow       `json:"by_cost_center"`
	DaysWorked         []DaysWorkedRow       `json:"days_worked"`
	RevenueByDay       []RevenueByDayRow     `json:"revenue_by_day"`
	Workdays           WorkMatrix            `json:"workdays"`
	TotalBonus         decimal.Decimal       `json:"total_bonus"`
	TotalRevenue       decimal.Decimal       `json:"total_revenue"`
}

// --- Relatório de carga ---

// RowIssue records one cell problem that excluded or degraded a row.
type RowIssue struct {
	Source string `json:"source"`
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SourceReport sums up the ingestion of a single workbook.
type SourceReport struct {
	Source   string     `json:"source"`
	Sheet    string     `json:"sheet,omitempty"`
	RowsRead int        `json:"rows_read"`
	RowsKept int        `json:"rows_kept"`
	Error    string     `json:"error,omitempty"`
	Issues   []RowIssue `json:"issues,omitempty"`
}

// LoadReport sums up one ingestion run across every source.
type LoadReport struct {
	RunID    string         `json:"run_id"`
	Sources  []SourceReport `json:"sources"`
	Records  int            `json:"records"`
	Excluded int            `json:"excluded"`
}

// DataBounds describes the span of the loaded data before any filtering.
type DataBounds struct {
	MinDate     time.Time `json:"min_date"`
	MaxDate     time.Time `json:"max_date"`
	Drivers     []string  `json:"drivers"`
	CostCenters []string  `json:"cost_centers"`
}

// Inspection is the outcome of a dry ingestion pass: bounds plus the load report.
type Inspection struct {
	Bounds DataBounds `json:"bounds"`
	Report LoadReport `json:"report"`
}

// Period is the inclusive date window a run was computed for.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Result is the complete outcome of a bonus run.
type Result struct {
	Period  Period            `json:"period"`
	Report  LoadReport        `json:"report"`
	Records []AugmentedRecord `json:"records"`
	Summary Summary           `json:"summary"`
}
