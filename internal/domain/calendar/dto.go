package calendar

import (
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date   string `json:"date"` // "2006-01-02"
	Name   string `json:"name"`
	IsPaid bool   `json:"is_paid"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be a valid date (YYYY-MM-DD)"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WeeklyOffDayRequest struct {
	Weekday int   `json:"weekday"` // 0 = Sunday .. 6 = Saturday
	Weeks   []int `json:"weeks"`   // empty means every week
}

type UpsertWeeklyOffRequest struct {
	Name string                `json:"name"`
	Days []WeeklyOffDayRequest `json:"days"`
}

func (r *UpsertWeeklyOffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(r.Days) == 0 {
		errs = append(errs, validator.ValidationError{Field: "days", Message: "at least one off day is required"})
	}
	for _, d := range r.Days {
		if d.Weekday < 0 || d.Weekday > 6 {
			errs = append(errs, validator.ValidationError{Field: "days", Message: "weekday must be between 0 (Sunday) and 6 (Saturday)"})
		}
		for _, w := range d.Weeks {
			if w < 1 || w > 5 {
				errs = append(errs, validator.ValidationError{Field: "days", Message: "weeks entries must be between 1 and 5"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToTemplate converts the request into the domain entity for an org.
func (r *UpsertWeeklyOffRequest) ToTemplate(orgID string) WeeklyOffTemplate {
	template := WeeklyOffTemplate{
		OrgID:    orgID,
		Name:     r.Name,
		IsActive: true,
	}
	for _, d := range r.Days {
		template.Days = append(template.Days, WeeklyOffDay{
			Weekday: time.Weekday(d.Weekday),
			Weeks:   d.Weeks,
		})
	}
	return template
}
