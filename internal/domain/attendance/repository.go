package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// All methods take orgID to prevent cross-org data access.
type AttendanceRepository interface {
	// Create inserts a new attendance record. The (user, date) pair is
	// unique; a duplicate insert fails at the storage layer.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID with org isolation.
	GetByID(ctx context.Context, id string, orgID string) (Attendance, error)

	// GetByUserAndDate retrieves the record for the user on the date,
	// or nil when no row exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string) (*Attendance, error)

	// GetByUserAndDateForUpdate is GetByUserAndDate with a row lock.
	// Must run inside a transaction; concurrent punch-outs or break
	// mutations for the same key serialize on it.
	GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time, orgID string) (*Attendance, error)

	// Update persists the full mutable state of an existing record.
	Update(ctx context.Context, attendance Attendance) error

	// ListRange returns records for the user with from <= date <= to,
	// ordered by date.
	ListRange(ctx context.Context, userID string, from, to time.Time, orgID string) ([]Attendance, error)

	// ListOpenBefore returns records without a punch-out whose date is
	// before the cutoff, across the org. Used by the finalization job.
	ListOpenBefore(ctx context.Context, orgID string, cutoff time.Time) ([]Attendance, error)
}
