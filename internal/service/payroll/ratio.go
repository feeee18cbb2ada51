package payroll

import (
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
)

// Ratio derives the attendance proration factor from a month summary:
// (present + halfDay/2 + weeklyOff + holiday + paidLeave) / daysInMonth,
// clamped to [0, 1]. Half days count half; unpaid leave and absence earn
// nothing.
func Ratio(summary payroll.AttendanceSummary) float64 {
	if summary.DaysInMonth <= 0 {
		return 0
	}
	credited := float64(summary.Present) +
		float64(summary.HalfDay)*0.5 +
		float64(summary.WeeklyOff) +
		float64(summary.Holiday) +
		float64(summary.PaidLeave)

	return clamp01(credited / float64(summary.DaysInMonth))
}

// PreviewFactor derives the factor for the stateless template preview
// from caller-supplied day counts. Weekly offs are credited on top of
// both the worked days and the divisor so a full month previews at 1.
func PreviewFactor(data payroll.PreviewAttendanceData) float64 {
	divisor := data.WorkingDays + data.WeeklyOffDays
	if divisor <= 0 {
		return 0
	}
	return clamp01(float64(data.PresentDays+data.WeeklyOffDays) / float64(divisor))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
