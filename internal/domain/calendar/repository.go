package calendar

import (
	"context"
	"time"
)

// HolidayRepository defines data access for org holidays.
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)

	// GetByDate returns the holiday on the date, or nil when the date
	// is a regular working day.
	GetByDate(ctx context.Context, orgID string, date time.Time) (*Holiday, error)

	// ListRange returns holidays with from <= date <= to.
	ListRange(ctx context.Context, orgID string, from, to time.Time) ([]Holiday, error)
}

// WeeklyOffRepository defines data access for weekly-off templates.
type WeeklyOffRepository interface {
	Upsert(ctx context.Context, template WeeklyOffTemplate) (WeeklyOffTemplate, error)

	// GetActive returns the org's active weekly-off template, or nil
	// when none is configured.
	GetActive(ctx context.Context, orgID string) (*WeeklyOffTemplate, error)
}
