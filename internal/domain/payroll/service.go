package payroll

import (
	"context"
)

// PayrollService computes prorated payroll from salary components and
// the month's attendance outcomes, and manages cycle snapshots.
type PayrollService interface {
	// ComputeSalaryForUser resolves the user's components (snapshot or
	// template, month override first), builds the month's attendance
	// summary, applies the ratio and persists the line. Fails with
	// ErrCycleFrozen when the cycle has left DRAFT.
	ComputeSalaryForUser(ctx context.Context, orgID, userID string, monthKey string) (PayrollLineResponse, error)

	// ComputeCycle runs ComputeSalaryForUser for every enrolled staff
	// member of the month's cycle. Per-user runs are independent and
	// execute concurrently.
	ComputeCycle(ctx context.Context, orgID string, monthKey string) ([]PayrollLineResponse, error)

	// PreviewTemplateCalculation resolves a template against caller
	// supplied attendance data without touching storage.
	PreviewTemplateCalculation(ctx context.Context, orgID string, req PreviewRequest) (PreviewResponse, error)

	// LockCycle freezes a DRAFT cycle; MarkCyclePaid finalizes a
	// LOCKED cycle.
	LockCycle(ctx context.Context, orgID string, monthKey string) error
	MarkCyclePaid(ctx context.Context, orgID string, monthKey string) error

	// Template administration.
	CreateTemplate(ctx context.Context, orgID string, req CreateSalaryTemplateRequest) (SalaryTemplate, error)
	ListTemplates(ctx context.Context, orgID string) ([]SalaryTemplate, error)

	// AssignStaffSalary stores the user's component snapshot, or a
	// month-keyed override bucket when month_key is set.
	AssignStaffSalary(ctx context.Context, orgID string, req AssignStaffSalaryRequest) (StaffSalary, error)
}
