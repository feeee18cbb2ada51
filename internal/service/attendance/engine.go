package attendance

import (
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
)

// EffectiveWorkingSeconds credits worked time toward the daily target
// after applying the template's break-deduction rule.
//
// maxBreakMinutes <= 0 means no paid-break cap is configured; the whole
// break is treated as allowed. The result is always within
// [0, totalSeconds].
func EffectiveWorkingSeconds(totalSeconds, breakSeconds, requiredSeconds, maxBreakMinutes int, rule shift.EffectiveHoursRule) int {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	if breakSeconds < 0 {
		breakSeconds = 0
	}

	allowance := maxBreakMinutes * 60
	var effective int

	switch rule {
	case shift.EffectiveHoursTotalTime:
		effective = totalSeconds
	case shift.EffectiveHoursDeductOvertime:
		effective = min(totalSeconds, requiredSeconds)
	case shift.EffectiveHoursDeductAllBreaks:
		effective = totalSeconds - breakSeconds
	case shift.EffectiveHoursDeductOvertimePaidBreak:
		paidBreak := breakSeconds
		if allowance > 0 {
			paidBreak = min(breakSeconds, allowance)
		}
		effective = min(totalSeconds-paidBreak, requiredSeconds)
	default:
		// Only break time beyond the allowance is deducted.
		excess := 0
		if allowance > 0 && breakSeconds > allowance {
			excess = breakSeconds - allowance
		}
		effective = totalSeconds - excess
	}

	if effective < 0 {
		return 0
	}
	if effective > totalSeconds {
		return totalSeconds
	}
	return effective
}

// OvertimeMinutes returns the whole minutes worked past the daily
// target, zero when the target was not exceeded.
func OvertimeMinutes(effectiveSeconds, requiredSeconds int) int {
	if effectiveSeconds <= requiredSeconds {
		return 0
	}
	return (effectiveSeconds - requiredSeconds) / 60
}

// DayFacts is everything the classifier needs to know about one day.
type DayFacts struct {
	HasPunch         bool
	EffectiveSeconds int
	RequiredSeconds  int
	OnApprovedLeave  bool
	IsPaidHoliday    bool
	IsPast           bool
}

// ClassifyDay is the single canonical status rule. A punched day is
// judged by effective against required seconds; a day without credited
// time falls through to leave, holiday, and past-date handling.
func ClassifyDay(f DayFacts) attendance.DayStatus {
	if f.HasPunch && f.EffectiveSeconds > 0 {
		switch {
		case f.EffectiveSeconds > f.RequiredSeconds:
			return attendance.StatusOvertime
		case f.EffectiveSeconds == f.RequiredSeconds:
			return attendance.StatusPresent
		default:
			return attendance.StatusHalfDay
		}
	}

	if f.OnApprovedLeave {
		return attendance.StatusLeave
	}
	if f.IsPaidHoliday {
		// Paid holidays count as present with zero hours.
		return attendance.StatusPresent
	}
	if f.IsPast {
		return attendance.StatusAbsent
	}
	return attendance.StatusNA
}

// dateOnly normalizes a timestamp to midnight UTC so (user, date)
// lookups and comparisons are stable across call sites.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
