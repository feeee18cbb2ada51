package payroll

import (
	"testing"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name    string
		summary payroll.AttendanceSummary
		want    float64
	}{
		{
			"full month of presence",
			payroll.AttendanceSummary{Present: 30, DaysInMonth: 30},
			1.0,
		},
		{
			"offs and holidays credited",
			payroll.AttendanceSummary{Present: 22, WeeklyOff: 5, Holiday: 1, PaidLeave: 2, DaysInMonth: 30},
			1.0,
		},
		{
			"half days count half",
			payroll.AttendanceSummary{Present: 14, HalfDay: 2, DaysInMonth: 30},
			0.5,
		},
		{
			"unpaid leave and absence earn nothing",
			payroll.AttendanceSummary{Present: 15, UnpaidLeave: 10, Absent: 5, DaysInMonth: 30},
			0.5,
		},
		{
			"zero days in month",
			payroll.AttendanceSummary{Present: 10},
			0,
		},
		{
			"clamped at one",
			payroll.AttendanceSummary{Present: 28, WeeklyOff: 5, DaysInMonth: 30},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.summary), 1e-9)
		})
	}
}

func TestRatio_NeverOutsideUnitInterval(t *testing.T) {
	for present := 0; present <= 40; present += 5 {
		got := Ratio(payroll.AttendanceSummary{Present: present, HalfDay: 3, DaysInMonth: 30})
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestPreviewFactor(t *testing.T) {
	tests := []struct {
		name string
		data payroll.PreviewAttendanceData
		want float64
	}{
		{
			"full attendance previews at one",
			payroll.PreviewAttendanceData{WorkingDays: 22, PresentDays: 22, WeeklyOffDays: 8},
			1.0,
		},
		{
			"half attendance without offs",
			payroll.PreviewAttendanceData{WorkingDays: 20, PresentDays: 10},
			0.5,
		},
		{
			"offs soften the shortfall",
			payroll.PreviewAttendanceData{WorkingDays: 22, PresentDays: 11, WeeklyOffDays: 8},
			19.0 / 30.0,
		},
		{
			"zero divisor",
			payroll.PreviewAttendanceData{},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PreviewFactor(tt.data), 1e-9)
		})
	}
}
