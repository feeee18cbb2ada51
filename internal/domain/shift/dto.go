package shift

import (
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

type CreateShiftTemplateRequest struct {
	Name                    string  `json:"name"`
	ShiftType               string  `json:"shift_type"`
	StartTime               *string `json:"start_time"` // "15:04"
	EndTime                 *string `json:"end_time"`
	WorkMinutes             int     `json:"work_minutes"`
	BufferMinutes           int     `json:"buffer_minutes"`
	EarliestPunchInTime     *string `json:"earliest_punch_in_time"`
	LatestPunchOutTime      *string `json:"latest_punch_out_time"`
	MinPunchOutAfterMinutes *int    `json:"min_punch_out_after_minutes"`
	MaxPunchOutAfterMinutes *int    `json:"max_punch_out_after_minutes"`
	HalfDayThresholdMinutes int     `json:"half_day_threshold_minutes"`
	OvertimeStartMinutes    int     `json:"overtime_start_minutes"`
}

func (r *CreateShiftTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	switch ShiftType(r.ShiftType) {
	case ShiftTypeFixed, ShiftTypeRotational:
		if r.StartTime == nil || r.EndTime == nil {
			errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time and end_time are required for fixed and rotational shifts"})
		}
	case ShiftTypeOpen:
		if r.WorkMinutes <= 0 {
			errs = append(errs, validator.ValidationError{Field: "work_minutes", Message: "work_minutes must be positive for open shifts"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "shift_type", Message: "shift_type must be one of fixed, open, rotational"})
	}

	if r.StartTime != nil && !validator.IsValidClockTime(*r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be in HH:MM format"})
	}
	if r.EndTime != nil && !validator.IsValidClockTime(*r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be in HH:MM format"})
	}
	if r.BufferMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "buffer_minutes", Message: "buffer_minutes must not be negative"})
	}
	if r.MinPunchOutAfterMinutes != nil && r.MaxPunchOutAfterMinutes != nil &&
		*r.MaxPunchOutAfterMinutes < *r.MinPunchOutAfterMinutes {
		errs = append(errs, validator.ValidationError{Field: "max_punch_out_after_minutes", Message: "max_punch_out_after_minutes must not be less than min_punch_out_after_minutes"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignShiftRequest struct {
	UserID          string  `json:"user_id"`
	ShiftTemplateID string  `json:"shift_template_id"`
	EffectiveFrom   string  `json:"effective_from"` // "2006-01-02"
	EffectiveTo     *string `json:"effective_to"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(r.ShiftTemplateID) {
		errs = append(errs, validator.ValidationError{Field: "shift_template_id", Message: "shift_template_id is required"})
	}

	from, ok := validator.IsValidDate(r.EffectiveFrom)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be a valid date (YYYY-MM-DD)"})
	}
	if r.EffectiveTo != nil {
		to, ok := validator.IsValidDate(*r.EffectiveTo)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be a valid date (YYYY-MM-DD)"})
		} else if to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not precede effective_from"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateAttendanceTemplateRequest struct {
	Name                 string `json:"name"`
	AttendanceMode       string `json:"attendance_mode"`
	HolidaysRule         string `json:"holidays_rule"`
	TrackInOutEnabled    bool   `json:"track_in_out_enabled"`
	RequirePunchOut      bool   `json:"require_punch_out"`
	AllowMultiplePunches bool   `json:"allow_multiple_punches"`
	MarkAbsentRule       string `json:"mark_absent_rule"`
	EffectiveHoursRule   string `json:"effective_hours_rule"`
}

func (r *CreateAttendanceTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	switch HolidaysRule(r.HolidaysRule) {
	case HolidaysRuleDisallow, HolidaysRuleCompOff, HolidaysRuleAllow:
	default:
		errs = append(errs, validator.ValidationError{Field: "holidays_rule", Message: "holidays_rule must be one of disallow, comp_off, allow"})
	}

	switch EffectiveHoursRule(r.EffectiveHoursRule) {
	case EffectiveHoursTotalTime, EffectiveHoursDeductOvertime, EffectiveHoursDeductAllBreaks,
		EffectiveHoursDeductOvertimePaidBreak, EffectiveHoursDefault:
	default:
		errs = append(errs, validator.ValidationError{Field: "effective_hours_rule", Message: "invalid effective_hours_rule"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignAttendanceTemplateRequest struct {
	UserID               string  `json:"user_id"`
	AttendanceTemplateID string  `json:"attendance_template_id"`
	EffectiveFrom        string  `json:"effective_from"`
	EffectiveTo          *string `json:"effective_to"`
}

func (r *AssignAttendanceTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(r.AttendanceTemplateID) {
		errs = append(errs, validator.ValidationError{Field: "attendance_template_id", Message: "attendance_template_id is required"})
	}

	from, ok := validator.IsValidDate(r.EffectiveFrom)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be a valid date (YYYY-MM-DD)"})
	}
	if r.EffectiveTo != nil {
		to, ok := validator.IsValidDate(*r.EffectiveTo)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be a valid date (YYYY-MM-DD)"})
		} else if to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not precede effective_from"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
