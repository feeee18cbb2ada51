package org

import (
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

type UpsertSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (r *UpsertSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Key {
	case SettingRequiredWorkHours, SettingMaxBreakMinutes:
		if !validator.IsNumeric(r.Value) {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "value must be a non-negative integer"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "key", Message: "unknown setting key"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PolicyDefaultsResponse is the wire shape of the org policy.
type PolicyDefaultsResponse struct {
	RequiredWorkHours int `json:"required_work_hours"`
	MaxBreakMinutes   int `json:"max_break_minutes"`
}
