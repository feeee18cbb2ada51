package attendance

import "errors"

// Attendance domain errors
var (
	// Punch-in errors
	ErrAlreadyPunchedIn    = errors.New("you have already punched in today")
	ErrOnApprovedLeave     = errors.New("approved leave covers this date")
	ErrHolidayPunchBlocked = errors.New("punching in on a paid holiday is not allowed")
	ErrTooEarlyToPunchIn   = errors.New("too early to punch in")
	ErrProofPhotoRequired  = errors.New("attendance proof photo is required")

	// Punch-out / break errors
	ErrNotPunchedIn       = errors.New("you have not punched in yet")
	ErrAlreadyPunchedOut  = errors.New("you have already punched out today")
	ErrAlreadyOnBreak     = errors.New("a break is already running")
	ErrNoActiveBreak      = errors.New("no active break to end")
	ErrPunchOutTooEarly   = errors.New("too early to punch out")
	ErrPunchOutWindowOver = errors.New("punch-out window has closed")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidOverride    = errors.New("override status must be LEAVE or HALF_DAY")
)
