package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

// ========================================
// PAYROLL DTOs
// ========================================

type SalaryComponentRequest struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Type    string          `json:"type"` // fixed or percent
	Value   decimal.Decimal `json:"value"`
	BasedOn string          `json:"based_on"` // percent only
}

type CreateSalaryTemplateRequest struct {
	Name       string                   `json:"name"`
	Earnings   []SalaryComponentRequest `json:"earnings"`
	Incentives []SalaryComponentRequest `json:"incentives"`
	Deductions []SalaryComponentRequest `json:"deductions"`
}

func validateComponents(field string, comps []SalaryComponentRequest, errs validator.ValidationErrors) validator.ValidationErrors {
	for _, c := range comps {
		if validator.IsEmpty(c.Key) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "component key is required"})
		}
		switch ComponentType(c.Type) {
		case ComponentTypeFixed:
		case ComponentTypePercent:
			if validator.IsEmpty(c.BasedOn) {
				errs = append(errs, validator.ValidationError{Field: field, Message: "percent component requires based_on"})
			}
		default:
			errs = append(errs, validator.ValidationError{Field: field, Message: "component type must be fixed or percent"})
		}
		if c.Value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "component value must not be negative"})
		}
	}
	return errs
}

func (r *CreateSalaryTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	errs = validateComponents("earnings", r.Earnings, errs)
	errs = validateComponents("incentives", r.Incentives, errs)
	errs = validateComponents("deductions", r.Deductions, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AssignStaffSalaryRequest binds a user to a template or an explicit
// component snapshot. A month_key makes the bucket a one-month override.
type AssignStaffSalaryRequest struct {
	UserID     string                   `json:"user_id"`
	TemplateID *string                  `json:"template_id"`
	MonthKey   *string                  `json:"month_key"`
	Earnings   []SalaryComponentRequest `json:"earnings"`
	Incentives []SalaryComponentRequest `json:"incentives"`
	Deductions []SalaryComponentRequest `json:"deductions"`
}

func (r *AssignStaffSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	hasComponents := len(r.Earnings)+len(r.Incentives)+len(r.Deductions) > 0
	if r.TemplateID == nil && !hasComponents {
		errs = append(errs, validator.ValidationError{Field: "template_id", Message: "either template_id or explicit components are required"})
	}
	if r.MonthKey != nil {
		if _, ok := validator.IsValidMonthKey(*r.MonthKey); !ok {
			errs = append(errs, validator.ValidationError{Field: "month_key", Message: "month_key must be in YYYY-MM format"})
		}
	}
	errs = validateComponents("earnings", r.Earnings, errs)
	errs = validateComponents("incentives", r.Incentives, errs)
	errs = validateComponents("deductions", r.Deductions, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PreviewAttendanceData supplies the attendance factor for the
// stateless template preview.
type PreviewAttendanceData struct {
	WorkingDays   int `json:"working_days"`
	PresentDays   int `json:"present_days"`
	UnpaidDays    int `json:"unpaid_days"`
	WeeklyOffDays int `json:"weekly_off_days"`
}

type PreviewRequest struct {
	TemplateID string                `json:"template_id"`
	Attendance PreviewAttendanceData `json:"attendance"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TemplateID) {
		errs = append(errs, validator.ValidationError{Field: "template_id", Message: "template_id is required"})
	}
	a := r.Attendance
	if a.WorkingDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "attendance.working_days", Message: "working_days must be positive"})
	}
	if a.PresentDays < 0 || a.UnpaidDays < 0 || a.WeeklyOffDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "attendance", Message: "day counts must not be negative"})
	}
	if a.PresentDays+a.UnpaidDays > a.WorkingDays {
		errs = append(errs, validator.ValidationError{Field: "attendance", Message: "present_days plus unpaid_days must not exceed working_days"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PayrollLineResponse is the wire shape of one computed line.
type PayrollLineResponse struct {
	UserID          string                     `json:"user_id"`
	MonthKey        string                     `json:"month_key"`
	Earnings        map[string]decimal.Decimal `json:"earnings"`
	Incentives      map[string]decimal.Decimal `json:"incentives"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	TotalEarnings   decimal.Decimal            `json:"total_earnings"`
	TotalIncentives decimal.Decimal            `json:"total_incentives"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	Gross           decimal.Decimal            `json:"gross"`
	Net             decimal.Decimal            `json:"net"`
	Summary         AttendanceSummary          `json:"attendance_summary"`
}

// PreviewResponse mirrors PayrollLineResponse without persistence.
type PreviewResponse struct {
	Earnings        map[string]decimal.Decimal `json:"earnings"`
	Incentives      map[string]decimal.Decimal `json:"incentives"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	TotalEarnings   decimal.Decimal            `json:"total_earnings"`
	TotalIncentives decimal.Decimal            `json:"total_incentives"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	Gross           decimal.Decimal            `json:"gross"`
	Net             decimal.Decimal            `json:"net"`
	Factor          float64                    `json:"factor"`
	Attendance      PreviewAttendanceData      `json:"attendance"`
}
