package leave

import (
	"context"
	"time"
)

// LeaveTemplateRepository defines data access for leave templates and
// their staff assignments.
type LeaveTemplateRepository interface {
	Create(ctx context.Context, template LeaveTemplate) (LeaveTemplate, error)

	// GetByID loads a template with its categories.
	GetByID(ctx context.Context, id string, orgID string) (LeaveTemplate, error)

	List(ctx context.Context, orgID string) ([]LeaveTemplate, error)

	Assign(ctx context.Context, assignment StaffLeaveAssignment) (StaffLeaveAssignment, error)

	// GetActiveForDate resolves the template assigned to the user on
	// the date (max effective_from among covering rows), with
	// categories loaded. Returns nil when none is assigned.
	GetActiveForDate(ctx context.Context, userID string, date time.Time, orgID string) (*LeaveTemplate, error)
}

// LeaveBalanceRepository defines data access for per-cycle balances.
// At most one row exists per (user, category, cycleStart).
type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	// GetForCycle returns the balance row, or nil when none exists yet.
	GetForCycle(ctx context.Context, userID, categoryKey string, cycleStart time.Time, orgID string) (*LeaveBalance, error)

	// GetForCycleForUpdate is GetForCycle with a row lock; must run
	// inside a transaction. Concurrent final-level approvals for the
	// same key serialize on it.
	GetForCycleForUpdate(ctx context.Context, userID, categoryKey string, cycleStart time.Time, orgID string) (*LeaveBalance, error)

	Update(ctx context.Context, balance LeaveBalance) error
}

// LeaveRequestRepository defines data access for leave requests.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string, orgID string) (LeaveRequest, error)

	// GetByIDForUpdate locks the request row for the approval flow.
	GetByIDForUpdate(ctx context.Context, id string, orgID string) (LeaveRequest, error)

	Update(ctx context.Context, request LeaveRequest) error

	Delete(ctx context.Context, id string, orgID string) error

	// FindApprovedCovering returns the approved request containing the
	// date, or nil.
	FindApprovedCovering(ctx context.Context, userID string, date time.Time, orgID string) (*LeaveRequest, error)

	// ListApprovedOverlapping returns approved requests intersecting
	// [from, to].
	ListApprovedOverlapping(ctx context.Context, userID string, from, to time.Time, orgID string) ([]LeaveRequest, error)

	// SumApprovedDays totals approved request days for the category
	// whose start date falls inside [from, to]. Used to derive `used`
	// when no balance row exists.
	SumApprovedDays(ctx context.Context, userID, categoryKey string, from, to time.Time, orgID string) (int, error)

	ListForUser(ctx context.Context, userID string, orgID string) ([]LeaveRequest, error)
}
