package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
)

// PolicyResolverImpl resolves shift and attendance policy per
// (user, date) from time-ranged assignments, falling back to org
// defaults when nothing resolves.
type PolicyResolverImpl struct {
	shift.ShiftTemplateRepository
	shift.ShiftAssignmentRepository
	shift.AttendanceTemplateRepository
	shift.AttendanceAssignmentRepository
	settingsRepository org.SettingsRepository
}

func NewPolicyResolver(
	shiftTemplateRepository shift.ShiftTemplateRepository,
	shiftAssignmentRepository shift.ShiftAssignmentRepository,
	attendanceTemplateRepository shift.AttendanceTemplateRepository,
	attendanceAssignmentRepository shift.AttendanceAssignmentRepository,
	settingsRepository org.SettingsRepository,
) *PolicyResolverImpl {
	return &PolicyResolverImpl{
		ShiftTemplateRepository:        shiftTemplateRepository,
		ShiftAssignmentRepository:      shiftAssignmentRepository,
		AttendanceTemplateRepository:   attendanceTemplateRepository,
		AttendanceAssignmentRepository: attendanceAssignmentRepository,
		settingsRepository:             settingsRepository,
	}
}

// ResolveShift implements shift.PolicyResolver.
func (r *PolicyResolverImpl) ResolveShift(ctx context.Context, orgID, userID string, date time.Time) (*shift.ShiftTemplate, error) {
	assignment, err := r.ShiftAssignmentRepository.GetActiveForDate(ctx, userID, date, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve shift assignment: %w", err)
	}
	if assignment == nil {
		return nil, nil
	}

	template, err := r.ShiftTemplateRepository.GetByID(ctx, assignment.ShiftTemplateID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assigned shift template: %w", err)
	}
	if !template.IsActive {
		return nil, nil
	}

	return &template, nil
}

// ResolveAttendanceTemplate implements shift.PolicyResolver.
func (r *PolicyResolverImpl) ResolveAttendanceTemplate(ctx context.Context, orgID, userID string, date time.Time) (*shift.AttendanceTemplate, error) {
	assignment, err := r.AttendanceAssignmentRepository.GetActiveForDate(ctx, userID, date, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attendance assignment: %w", err)
	}
	if assignment == nil {
		return nil, nil
	}

	template, err := r.AttendanceTemplateRepository.GetByID(ctx, assignment.AttendanceTemplateID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assigned attendance template: %w", err)
	}
	if !template.IsActive {
		return nil, nil
	}

	return &template, nil
}

// RequiredWorkSeconds implements shift.PolicyResolver. A user without a
// resolvable shift gets the org fallback; that path is logged but never
// fails the computation.
func (r *PolicyResolverImpl) RequiredWorkSeconds(ctx context.Context, orgID, userID string, date time.Time) (int, error) {
	template, err := r.ResolveShift(ctx, orgID, userID, date)
	if err != nil {
		return 0, err
	}

	if template != nil {
		if seconds, ok := template.RequiredWorkSeconds(); ok {
			return seconds, nil
		}
		slog.Warn("shift template cannot determine required seconds, using org default",
			"org_id", orgID, "user_id", userID, "template_id", template.ID)
	}

	defaults, err := r.settingsRepository.GetPolicyDefaults(ctx, orgID)
	if err != nil {
		slog.Warn("failed to load org policy defaults, using built-in default",
			"org_id", orgID, "error", err)
		defaults = org.DefaultPolicy()
	}

	return defaults.RequiredWorkSeconds(), nil
}
