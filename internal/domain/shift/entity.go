package shift

import (
	"time"
)

// ShiftType enum
type ShiftType string

const (
	ShiftTypeFixed      ShiftType = "fixed"
	ShiftTypeOpen       ShiftType = "open"
	ShiftTypeRotational ShiftType = "rotational"
)

// ShiftTemplate defines the required hours and punch windows for a shift.
type ShiftTemplate struct {
	ID                      string
	OrgID                   string
	Name                    string
	ShiftType               ShiftType
	StartTime               *time.Time // time-of-day, fixed/rotational only
	EndTime                 *time.Time
	WorkMinutes             int // open shifts: the daily target
	BufferMinutes           int
	EarliestPunchInTime     *time.Time
	LatestPunchOutTime      *time.Time
	MinPunchOutAfterMinutes *int
	MaxPunchOutAfterMinutes *int
	HalfDayThresholdMinutes int
	OvertimeStartMinutes    int
	IsActive                bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// RequiredWorkSeconds returns the daily target for this template, or
// false when the template cannot determine it (unknown shift type).
//
// For fixed/rotational shifts the span wraps past midnight when the end
// time precedes the start time, and the buffer is subtracted from the
// span, floored at zero.
func (t ShiftTemplate) RequiredWorkSeconds() (int, bool) {
	switch t.ShiftType {
	case ShiftTypeOpen:
		if t.WorkMinutes <= 0 {
			return 0, false
		}
		return t.WorkMinutes * 60, true
	case ShiftTypeFixed, ShiftTypeRotational:
		if t.StartTime == nil || t.EndTime == nil {
			return 0, false
		}
		span := minutesOfDay(*t.EndTime) - minutesOfDay(*t.StartTime)
		if span < 0 {
			span += 24 * 60
		}
		span -= t.BufferMinutes
		if span < 0 {
			span = 0
		}
		return span * 60, true
	}
	return 0, false
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// StaffShiftAssignment binds a user to a shift template for a date range.
type StaffShiftAssignment struct {
	ID              string
	OrgID           string
	UserID          string
	ShiftTemplateID string
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HolidaysRule enum
type HolidaysRule string

const (
	HolidaysRuleDisallow HolidaysRule = "disallow"
	HolidaysRuleCompOff  HolidaysRule = "comp_off"
	HolidaysRuleAllow    HolidaysRule = "allow"
)

// EffectiveHoursRule selects how break and overtime time is credited.
type EffectiveHoursRule string

const (
	EffectiveHoursTotalTime               EffectiveHoursRule = "total_time"
	EffectiveHoursDeductOvertime          EffectiveHoursRule = "deduct_overtime"
	EffectiveHoursDeductAllBreaks         EffectiveHoursRule = "deduct_all_breaks"
	EffectiveHoursDeductOvertimePaidBreak EffectiveHoursRule = "deduct_overtime_and_paid_breaks"
	EffectiveHoursDefault                 EffectiveHoursRule = "default"
)

// AttendanceTemplate is the per-org punch policy.
type AttendanceTemplate struct {
	ID                   string
	OrgID                string
	Name                 string
	AttendanceMode       string
	HolidaysRule         HolidaysRule
	TrackInOutEnabled    bool
	RequirePunchOut      bool
	AllowMultiplePunches bool
	MarkAbsentRule       string
	EffectiveHoursRule   EffectiveHoursRule
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StaffAttendanceAssignment binds a user to an attendance template.
type StaffAttendanceAssignment struct {
	ID                   string
	OrgID                string
	UserID               string
	AttendanceTemplateID string
	EffectiveFrom        time.Time
	EffectiveTo          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
