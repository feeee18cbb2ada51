package calendar

import "time"

// Holiday is a single dated entry from an org's holiday template.
type Holiday struct {
	ID        string
	OrgID     string
	Date      time.Time
	Name      string
	IsPaid    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyOffDay marks one weekday as off, either every week or only on
// specific weeks of the month (1..5, e.g. 2nd and 4th Saturday).
type WeeklyOffDay struct {
	Weekday time.Weekday
	Weeks   []int // empty means every week
}

// WeeklyOffTemplate is the org's weekly-off pattern.
type WeeklyOffTemplate struct {
	ID        string
	OrgID     string
	Name      string
	Days      []WeeklyOffDay
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOffDay reports whether the date falls on the template's pattern.
func (t WeeklyOffTemplate) IsOffDay(date time.Time) bool {
	weekOfMonth := (date.Day()-1)/7 + 1
	for _, d := range t.Days {
		if d.Weekday != date.Weekday() {
			continue
		}
		if len(d.Weeks) == 0 {
			return true
		}
		for _, w := range d.Weeks {
			if w == weekOfMonth {
				return true
			}
		}
	}
	return false
}
