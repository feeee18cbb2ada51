package shift

import (
	"context"
	"time"
)

// ShiftTemplateRepository defines data access for shift templates.
type ShiftTemplateRepository interface {
	Create(ctx context.Context, template ShiftTemplate) (ShiftTemplate, error)
	GetByID(ctx context.Context, id string, orgID string) (ShiftTemplate, error)
	List(ctx context.Context, orgID string) ([]ShiftTemplate, error)
}

// ShiftAssignmentRepository defines data access for staff shift bindings.
type ShiftAssignmentRepository interface {
	Create(ctx context.Context, assignment StaffShiftAssignment) (StaffShiftAssignment, error)

	// GetActiveForDate picks the assignment with the greatest
	// effective_from among rows where effective_from <= date and
	// (effective_to is null or effective_to >= date). Returns nil when
	// no assignment covers the date.
	GetActiveForDate(ctx context.Context, userID string, date time.Time, orgID string) (*StaffShiftAssignment, error)
}

// AttendanceTemplateRepository defines data access for punch policies.
type AttendanceTemplateRepository interface {
	Create(ctx context.Context, template AttendanceTemplate) (AttendanceTemplate, error)
	GetByID(ctx context.Context, id string, orgID string) (AttendanceTemplate, error)
	List(ctx context.Context, orgID string) ([]AttendanceTemplate, error)
}

// AttendanceAssignmentRepository defines data access for staff
// attendance-template bindings.
type AttendanceAssignmentRepository interface {
	Create(ctx context.Context, assignment StaffAttendanceAssignment) (StaffAttendanceAssignment, error)

	// GetActiveForDate has the same contract as the shift variant: both
	// resolver paths honour the full effective range.
	GetActiveForDate(ctx context.Context, userID string, date time.Time, orgID string) (*StaffAttendanceAssignment, error)
}
