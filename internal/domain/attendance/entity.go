package attendance

import (
	"time"
)

// DayStatus is the classified outcome for one calendar day.
type DayStatus string

const (
	StatusNA       DayStatus = "NA"
	StatusPresent  DayStatus = "PRESENT"
	StatusAbsent   DayStatus = "ABSENT"
	StatusHalfDay  DayStatus = "HALF_DAY"
	StatusLeave    DayStatus = "LEAVE"
	StatusOvertime DayStatus = "OVERTIME"
)

// Attendance is the single punch record for a (user, date) pair.
//
// OverrideStatus carries an explicit admin decision (LEAVE or HALF_DAY)
// and always wins over the computed classification. It is a separate
// tagged field: duration fields never double as control values.
type Attendance struct {
	ID     string
	OrgID  string
	UserID string
	Date   time.Time

	PunchedInAt      *time.Time
	PunchedOutAt     *time.Time
	PunchInProofURL  *string
	PunchOutProofURL *string

	IsOnBreak         bool
	BreakStartedAt    *time.Time
	BreakTotalSeconds int

	TotalWorkSeconds int
	EffectiveSeconds int
	OvertimeMinutes  int

	Status         DayStatus
	OverrideStatus *DayStatus
	OverrideReason *string
	OverrideBy     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PunchSpanSeconds returns the elapsed seconds between punch-in and the
// given instant (or punch-out when set), never negative.
func (a Attendance) PunchSpanSeconds(now time.Time) int {
	if a.PunchedInAt == nil {
		return 0
	}
	end := now
	if a.PunchedOutAt != nil {
		end = *a.PunchedOutAt
	}
	span := int(end.Sub(*a.PunchedInAt).Seconds())
	if span < 0 {
		return 0
	}
	return span
}

// MonthlyTally aggregates day statuses over a calendar month.
type MonthlyTally struct {
	Present  int
	Absent   int
	HalfDay  int
	Leave    int
	Overtime int
}

// Add counts one classified day into the tally.
func (t *MonthlyTally) Add(status DayStatus) {
	switch status {
	case StatusPresent:
		t.Present++
	case StatusAbsent:
		t.Absent++
	case StatusHalfDay:
		t.HalfDay++
	case StatusLeave:
		t.Leave++
	case StatusOvertime:
		t.Overtime++
	}
}
