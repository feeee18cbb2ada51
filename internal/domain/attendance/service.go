package attendance

import (
	"context"
	"time"
)

// AttendanceService is the punch/break state machine and daily status
// engine. Org and user identity come in as opaque scope parameters;
// authentication lives at the handler layer.
type AttendanceService interface {
	// PunchIn opens the day's record. Rejects a second punch-in, a
	// punch during approved leave, a punch on a paid holiday when the
	// policy disallows it, and a punch before the shift's earliest
	// punch-in time.
	PunchIn(ctx context.Context, orgID, userID string, req PunchInRequest) (AttendanceResponse, error)

	// PunchOut closes the record, auto-closing a running break, and
	// computes effective seconds, status and overtime.
	PunchOut(ctx context.Context, orgID, userID string, req PunchOutRequest) (AttendanceResponse, error)

	// StartBreak and EndBreak toggle the break state while punched in.
	StartBreak(ctx context.Context, orgID, userID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, orgID, userID string) (AttendanceResponse, error)

	// ComputeStatus classifies a single day for the user.
	ComputeStatus(ctx context.Context, orgID, userID string, date time.Time) (DayStatusResponse, error)

	// MonthlyHistory classifies every day of the month ("2006-01") and
	// tallies the outcomes.
	MonthlyHistory(ctx context.Context, orgID, userID string, monthKey string) (MonthlyHistoryResponse, error)

	// OverrideDay records an explicit admin decision for a day.
	OverrideDay(ctx context.Context, orgID, adminID string, req OverrideDayRequest) (AttendanceResponse, error)

	// FinalizeAbsences closes out stale open records and stamps
	// computed statuses for days before the cutoff. Run by the
	// scheduler.
	FinalizeAbsences(ctx context.Context, orgID string, cutoff time.Time) (int, error)
}
