package shift

import (
	"context"
	"time"
)

// PolicyResolver resolves the shift and attendance policy for a
// (user, date) pair. All resolution honours assignment effective ranges;
// a missing resolution is not an error, callers receive nil and fall
// back to org defaults.
type PolicyResolver interface {
	// ResolveShift returns the shift template in force for the user on
	// the date, or nil when none resolves or the template is inactive.
	ResolveShift(ctx context.Context, orgID, userID string, date time.Time) (*ShiftTemplate, error)

	// ResolveAttendanceTemplate returns the punch policy in force for
	// the user on the date, or nil.
	ResolveAttendanceTemplate(ctx context.Context, orgID, userID string, date time.Time) (*AttendanceTemplate, error)

	// RequiredWorkSeconds returns the daily working-seconds target for
	// the user on the date, falling back to the org default when no
	// shift resolves.
	RequiredWorkSeconds(ctx context.Context, orgID, userID string, date time.Time) (int, error)
}

// TemplateService exposes the thin CRUD surface over shift and
// attendance templates and their staff assignments.
type TemplateService interface {
	CreateShiftTemplate(ctx context.Context, orgID string, req CreateShiftTemplateRequest) (ShiftTemplate, error)
	ListShiftTemplates(ctx context.Context, orgID string) ([]ShiftTemplate, error)
	AssignShift(ctx context.Context, orgID string, req AssignShiftRequest) (StaffShiftAssignment, error)

	CreateAttendanceTemplate(ctx context.Context, orgID string, req CreateAttendanceTemplateRequest) (AttendanceTemplate, error)
	ListAttendanceTemplates(ctx context.Context, orgID string) ([]AttendanceTemplate, error)
	AssignAttendanceTemplate(ctx context.Context, orgID string, req AssignAttendanceTemplateRequest) (StaffAttendanceAssignment, error)
}
