package payroll

import (
	"context"
)

// SalaryTemplateRepository defines data access for salary templates and
// per-user snapshots.
type SalaryTemplateRepository interface {
	Create(ctx context.Context, template SalaryTemplate) (SalaryTemplate, error)
	GetByID(ctx context.Context, id string, orgID string) (SalaryTemplate, error)
	List(ctx context.Context, orgID string) ([]SalaryTemplate, error)

	// GetStaffSalary returns the user's base component snapshot, or
	// nil when the user has neither a snapshot nor a template binding.
	GetStaffSalary(ctx context.Context, userID string, orgID string) (*StaffSalary, error)

	// GetMonthOverride returns the month-specific bucket, or nil.
	GetMonthOverride(ctx context.Context, userID string, monthKey string, orgID string) (*StaffSalary, error)

	UpsertStaffSalary(ctx context.Context, salary StaffSalary) (StaffSalary, error)
}

// PayrollRepository defines data access for cycles and lines.
type PayrollRepository interface {
	CreateCycle(ctx context.Context, cycle PayrollCycle) (PayrollCycle, error)

	// GetCycleByMonth returns the cycle for the month, or nil.
	GetCycleByMonth(ctx context.Context, monthKey string, orgID string) (*PayrollCycle, error)

	// GetCycleByMonthForUpdate locks the cycle row so the DRAFT check
	// and the line upsert happen atomically.
	GetCycleByMonthForUpdate(ctx context.Context, monthKey string, orgID string) (*PayrollCycle, error)

	UpdateCycleStatus(ctx context.Context, cycleID string, orgID string, status CycleStatus) error

	// UpsertLine inserts or replaces the (cycle, user) line.
	UpsertLine(ctx context.Context, line PayrollLine) (PayrollLine, error)

	GetLine(ctx context.Context, cycleID, userID string, orgID string) (PayrollLine, error)

	ListLines(ctx context.Context, cycleID string, orgID string) ([]PayrollLine, error)

	// ListCycleUserIDs returns the user ids enrolled in a cycle run
	// (staff with a salary snapshot or template binding).
	ListCycleUserIDs(ctx context.Context, orgID string) ([]string, error)
}
