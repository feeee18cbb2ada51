package leave

import (
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
)

// CycleRange returns the [start, end] dates of the balance cycle
// containing the date. Quarterly cycles align to the calendar quarters
// starting January, April, July and October.
func CycleRange(cycle leave.Cycle, date time.Time) (time.Time, time.Time) {
	year, month, _ := date.Date()

	switch cycle {
	case leave.CycleMonthly:
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case leave.CycleQuarterly:
		quarterStart := month - (month-1)%3
		start := time.Date(year, quarterStart, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, -1)
	default:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, -1)
	}
}

// InclusiveDays counts calendar days from start through end.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
