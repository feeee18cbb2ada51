package response

import (
	"errors"
	"net/http"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/calendar"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance punch state machine
	case errors.Is(err, attendance.ErrAlreadyPunchedIn),
		errors.Is(err, attendance.ErrAlreadyPunchedOut),
		errors.Is(err, attendance.ErrAlreadyOnBreak),
		errors.Is(err, attendance.ErrNoActiveBreak):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrOnApprovedLeave),
		errors.Is(err, attendance.ErrHolidayPunchBlocked),
		errors.Is(err, attendance.ErrTooEarlyToPunchIn),
		errors.Is(err, attendance.ErrNotPunchedIn),
		errors.Is(err, attendance.ErrPunchOutTooEarly),
		errors.Is(err, attendance.ErrPunchOutWindowOver),
		errors.Is(err, attendance.ErrProofPhotoRequired),
		errors.Is(err, attendance.ErrInvalidOverride):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Leave workflow
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTemplateNotFound):
		NotFound(w, "Leave template not found")
	case errors.Is(err, leave.ErrCategoryNotInTemplate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrRequestAlreadyProcessed),
		errors.Is(err, leave.ErrCancelNotPending):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, err.Error())

	// Shift and attendance policy
	case errors.Is(err, shift.ErrShiftTemplateNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, shift.ErrAttendanceTemplateNotFound):
		NotFound(w, "Attendance template not found")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, shift.ErrInvalidEffectiveRange):
		BadRequest(w, err.Error(), nil)

	// Payroll
	case errors.Is(err, payroll.ErrSalaryTemplateNotFound):
		NotFound(w, "Salary template not found")
	case errors.Is(err, payroll.ErrStaffSalaryNotFound):
		NotFound(w, "No salary assigned to staff member")
	case errors.Is(err, payroll.ErrCycleNotFound):
		NotFound(w, "Payroll cycle not found")
	case errors.Is(err, payroll.ErrLineNotFound):
		NotFound(w, "Payroll line not found")
	case errors.Is(err, payroll.ErrCycleFrozen),
		errors.Is(err, payroll.ErrInvalidCycleTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidMonthKey),
		errors.Is(err, payroll.ErrUnknownPercentBase):
		BadRequest(w, err.Error(), nil)

	// Calendar and settings
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, org.ErrSettingNotFound):
		NotFound(w, "Setting not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
