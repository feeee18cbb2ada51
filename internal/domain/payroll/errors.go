package payroll

import "errors"

var (
	ErrSalaryTemplateNotFound = errors.New("salary template not found")
	ErrStaffSalaryNotFound    = errors.New("no salary template or snapshot assigned to staff")
	ErrCycleNotFound          = errors.New("payroll cycle not found")
	ErrLineNotFound           = errors.New("payroll line not found")
	ErrCycleFrozen            = errors.New("payroll cycle is locked or paid, lines are frozen")
	ErrUnknownPercentBase     = errors.New("percent component references an unknown base")
	ErrInvalidMonthKey        = errors.New("month key must be in YYYY-MM format")
	ErrInvalidCycleTransition = errors.New("invalid payroll cycle status transition")
)
