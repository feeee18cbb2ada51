package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
)

// TemplateServiceImpl is the CRUD surface over shift and attendance
// templates and their staff assignments.
type TemplateServiceImpl struct {
	shift.ShiftTemplateRepository
	shift.ShiftAssignmentRepository
	shift.AttendanceTemplateRepository
	shift.AttendanceAssignmentRepository
}

func NewTemplateService(
	shiftTemplateRepository shift.ShiftTemplateRepository,
	shiftAssignmentRepository shift.ShiftAssignmentRepository,
	attendanceTemplateRepository shift.AttendanceTemplateRepository,
	attendanceAssignmentRepository shift.AttendanceAssignmentRepository,
) *TemplateServiceImpl {
	return &TemplateServiceImpl{
		ShiftTemplateRepository:        shiftTemplateRepository,
		ShiftAssignmentRepository:      shiftAssignmentRepository,
		AttendanceTemplateRepository:   attendanceTemplateRepository,
		AttendanceAssignmentRepository: attendanceAssignmentRepository,
	}
}

func parseClock(value *string) *time.Time {
	if value == nil {
		return nil
	}
	t, err := time.Parse("15:04", *value)
	if err != nil {
		return nil
	}
	return &t
}

func parseDate(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func parseDatePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	t := parseDate(*value)
	return &t
}

// CreateShiftTemplate implements shift.TemplateService.
func (s *TemplateServiceImpl) CreateShiftTemplate(ctx context.Context, orgID string, req shift.CreateShiftTemplateRequest) (shift.ShiftTemplate, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftTemplate{}, err
	}

	template := shift.ShiftTemplate{
		OrgID:                   orgID,
		Name:                    req.Name,
		ShiftType:               shift.ShiftType(req.ShiftType),
		StartTime:               parseClock(req.StartTime),
		EndTime:                 parseClock(req.EndTime),
		WorkMinutes:             req.WorkMinutes,
		BufferMinutes:           req.BufferMinutes,
		EarliestPunchInTime:     parseClock(req.EarliestPunchInTime),
		LatestPunchOutTime:      parseClock(req.LatestPunchOutTime),
		MinPunchOutAfterMinutes: req.MinPunchOutAfterMinutes,
		MaxPunchOutAfterMinutes: req.MaxPunchOutAfterMinutes,
		HalfDayThresholdMinutes: req.HalfDayThresholdMinutes,
		OvertimeStartMinutes:    req.OvertimeStartMinutes,
		IsActive:                true,
	}

	created, err := s.ShiftTemplateRepository.Create(ctx, template)
	if err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return created, nil
}

// ListShiftTemplates implements shift.TemplateService.
func (s *TemplateServiceImpl) ListShiftTemplates(ctx context.Context, orgID string) ([]shift.ShiftTemplate, error) {
	return s.ShiftTemplateRepository.List(ctx, orgID)
}

// AssignShift implements shift.TemplateService.
func (s *TemplateServiceImpl) AssignShift(ctx context.Context, orgID string, req shift.AssignShiftRequest) (shift.StaffShiftAssignment, error) {
	if err := req.Validate(); err != nil {
		return shift.StaffShiftAssignment{}, err
	}

	// The template must exist in this org before binding staff to it.
	if _, err := s.ShiftTemplateRepository.GetByID(ctx, req.ShiftTemplateID, orgID); err != nil {
		return shift.StaffShiftAssignment{}, err
	}

	assignment := shift.StaffShiftAssignment{
		OrgID:           orgID,
		UserID:          req.UserID,
		ShiftTemplateID: req.ShiftTemplateID,
		EffectiveFrom:   parseDate(req.EffectiveFrom),
		EffectiveTo:     parseDatePtr(req.EffectiveTo),
	}

	created, err := s.ShiftAssignmentRepository.Create(ctx, assignment)
	if err != nil {
		return shift.StaffShiftAssignment{}, fmt.Errorf("failed to assign shift: %w", err)
	}

	return created, nil
}

// CreateAttendanceTemplate implements shift.TemplateService.
func (s *TemplateServiceImpl) CreateAttendanceTemplate(ctx context.Context, orgID string, req shift.CreateAttendanceTemplateRequest) (shift.AttendanceTemplate, error) {
	if err := req.Validate(); err != nil {
		return shift.AttendanceTemplate{}, err
	}

	template := shift.AttendanceTemplate{
		OrgID:                orgID,
		Name:                 req.Name,
		AttendanceMode:       req.AttendanceMode,
		HolidaysRule:         shift.HolidaysRule(req.HolidaysRule),
		TrackInOutEnabled:    req.TrackInOutEnabled,
		RequirePunchOut:      req.RequirePunchOut,
		AllowMultiplePunches: req.AllowMultiplePunches,
		MarkAbsentRule:       req.MarkAbsentRule,
		EffectiveHoursRule:   shift.EffectiveHoursRule(req.EffectiveHoursRule),
		IsActive:             true,
	}

	created, err := s.AttendanceTemplateRepository.Create(ctx, template)
	if err != nil {
		return shift.AttendanceTemplate{}, fmt.Errorf("failed to create attendance template: %w", err)
	}

	return created, nil
}

// ListAttendanceTemplates implements shift.TemplateService.
func (s *TemplateServiceImpl) ListAttendanceTemplates(ctx context.Context, orgID string) ([]shift.AttendanceTemplate, error) {
	return s.AttendanceTemplateRepository.List(ctx, orgID)
}

// AssignAttendanceTemplate implements shift.TemplateService.
func (s *TemplateServiceImpl) AssignAttendanceTemplate(ctx context.Context, orgID string, req shift.AssignAttendanceTemplateRequest) (shift.StaffAttendanceAssignment, error) {
	if err := req.Validate(); err != nil {
		return shift.StaffAttendanceAssignment{}, err
	}

	if _, err := s.AttendanceTemplateRepository.GetByID(ctx, req.AttendanceTemplateID, orgID); err != nil {
		return shift.StaffAttendanceAssignment{}, err
	}

	assignment := shift.StaffAttendanceAssignment{
		OrgID:                orgID,
		UserID:               req.UserID,
		AttendanceTemplateID: req.AttendanceTemplateID,
		EffectiveFrom:        parseDate(req.EffectiveFrom),
		EffectiveTo:          parseDatePtr(req.EffectiveTo),
	}

	created, err := s.AttendanceAssignmentRepository.Create(ctx, assignment)
	if err != nil {
		return shift.StaffAttendanceAssignment{}, fmt.Errorf("failed to assign attendance template: %w", err)
	}

	return created, nil
}
