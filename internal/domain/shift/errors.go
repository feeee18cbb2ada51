package shift

import "errors"

var (
	ErrShiftTemplateNotFound      = errors.New("shift template not found")
	ErrAttendanceTemplateNotFound = errors.New("attendance template not found")
	ErrAssignmentNotFound         = errors.New("assignment not found")
	ErrInvalidEffectiveRange      = errors.New("effective_to must not precede effective_from")
)
