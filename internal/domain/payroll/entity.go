package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeFixed   ComponentType = "fixed"
	ComponentTypePercent ComponentType = "percent"
)

// BasedOnGross is the reserved percent base meaning the sum of all
// resolved earnings and incentives.
const BasedOnGross = "gross_salary"

// SalaryComponent is one line of a salary template: a fixed amount or a
// percentage of a previously resolved component (or of gross salary).
type SalaryComponent struct {
	Key     string
	Label   string
	Type    ComponentType
	Value   decimal.Decimal // amount for fixed, percentage for percent
	BasedOn string          // percent only: a fixed key or BasedOnGross
}

// SalaryTemplate groups earnings, incentives and deductions.
type SalaryTemplate struct {
	ID         string
	OrgID      string
	Name       string
	Earnings   []SalaryComponent
	Incentives []SalaryComponent
	Deductions []SalaryComponent
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StaffSalary is the per-user component snapshot. When TemplateID is
// set the components mirror the template at assignment time; a
// month-keyed override bucket can replace them for a single month.
type StaffSalary struct {
	ID         string
	OrgID      string
	UserID     string
	TemplateID *string
	MonthKey   *string // nil = base snapshot, set = month override
	Earnings   []SalaryComponent
	Incentives []SalaryComponent
	Deductions []SalaryComponent
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CycleStatus enum
type CycleStatus string

const (
	CycleStatusDraft  CycleStatus = "DRAFT"
	CycleStatusLocked CycleStatus = "LOCKED"
	CycleStatusPaid   CycleStatus = "PAID"
)

// PayrollCycle is the org-wide run for one month.
type PayrollCycle struct {
	ID        string
	OrgID     string
	MonthKey  string // "2006-01"
	Status    CycleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttendanceSummary is the per-user month classification payroll
// proration is built from.
type AttendanceSummary struct {
	Present     int     `json:"present"`
	HalfDay     int     `json:"half_day"`
	PaidLeave   int     `json:"paid_leave"`
	UnpaidLeave int     `json:"unpaid_leave"`
	WeeklyOff   int     `json:"weekly_off"`
	Holiday     int     `json:"holiday"`
	Absent      int     `json:"absent"`
	DaysInMonth int     `json:"days_in_month"`
	Ratio       float64 `json:"ratio"`
}

// PayrollLine is the frozen per-user computation snapshot for a cycle.
type PayrollLine struct {
	ID              string
	CycleID         string
	OrgID           string
	UserID          string
	Earnings        map[string]decimal.Decimal
	Incentives      map[string]decimal.Decimal
	Deductions      map[string]decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalIncentives decimal.Decimal
	TotalDeductions decimal.Decimal
	Gross           decimal.Decimal
	Net             decimal.Decimal
	Summary         AttendanceSummary
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
