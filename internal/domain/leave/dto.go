package leave

import (
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE DTOs
// ========================================

type CreateLeaveRequestRequest struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	LeaveType   string  `json:"leave_type"`
	CategoryKey *string `json:"category_key"`
	Reason      *string `json:"reason"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not precede start_date"})
	}
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "leave_type is required"})
	}
	if r.CategoryKey != nil && validator.IsEmpty(*r.CategoryKey) {
		errs = append(errs, validator.ValidationError{Field: "category_key", Message: "category_key must not be empty when supplied"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewLeaveRequestRequest struct {
	Action string  `json:"action"` // approve or reject
	Note   *string `json:"note"`
}

func (r *ReviewLeaveRequestRequest) Validate() error {
	if r.Action != "approve" && r.Action != "reject" {
		return validator.ValidationErrors{{Field: "action", Message: "action must be approve or reject"}}
	}
	return nil
}

type CreateLeaveTemplateRequest struct {
	Name          string                          `json:"name"`
	Cycle         string                          `json:"cycle"`
	CountSandwich bool                            `json:"count_sandwich"`
	ApprovalLevel int                             `json:"approval_level"`
	Categories    []CreateLeaveTemplateCategoryRequest `json:"categories"`
}

type CreateLeaveTemplateCategoryRequest struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	LeaveCount      int    `json:"leave_count"`
	UnusedRule      string `json:"unused_rule"`
	CarryLimitDays  int    `json:"carry_limit_days"`
	EncashLimitDays int    `json:"encash_limit_days"`
}

func (r *CreateLeaveTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	switch Cycle(r.Cycle) {
	case CycleMonthly, CycleQuarterly, CycleYearly:
	default:
		errs = append(errs, validator.ValidationError{Field: "cycle", Message: "cycle must be one of monthly, quarterly, yearly"})
	}
	if r.ApprovalLevel < 1 || r.ApprovalLevel > 3 {
		errs = append(errs, validator.ValidationError{Field: "approval_level", Message: "approval_level must be between 1 and 3"})
	}
	for _, c := range r.Categories {
		if validator.IsEmpty(c.Key) || c.Key == CategoryKeyUnpaid {
			errs = append(errs, validator.ValidationError{Field: "categories", Message: "category key is required and must not be the reserved key 'unpaid'"})
		}
		switch UnusedRule(c.UnusedRule) {
		case UnusedRuleLapse, UnusedRuleCarryForward, UnusedRuleEncash:
		default:
			errs = append(errs, validator.ValidationError{Field: "categories", Message: "unused_rule must be one of lapse, carry_forward, encash"})
		}
		if c.LeaveCount < 0 {
			errs = append(errs, validator.ValidationError{Field: "categories", Message: "leave_count must not be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignLeaveTemplateRequest struct {
	UserID          string  `json:"user_id"`
	LeaveTemplateID string  `json:"leave_template_id"`
	EffectiveFrom   string  `json:"effective_from"`
	EffectiveTo     *string `json:"effective_to"`
}

func (r *AssignLeaveTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(r.LeaveTemplateID) {
		errs = append(errs, validator.ValidationError{Field: "leave_template_id", Message: "leave_template_id is required"})
	}
	from, ok := validator.IsValidDate(r.EffectiveFrom)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be a valid date (YYYY-MM-DD)"})
	}
	if r.EffectiveTo != nil {
		to, ok := validator.IsValidDate(*r.EffectiveTo)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be a valid date (YYYY-MM-DD)"})
		} else if to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not precede effective_from"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LeaveRequestResponse is the wire shape for a leave request.
type LeaveRequestResponse struct {
	ID                    string  `json:"id"`
	UserID                string  `json:"user_id"`
	StartDate             string  `json:"start_date"`
	EndDate               string  `json:"end_date"`
	LeaveType             string  `json:"leave_type"`
	CategoryKey           *string `json:"category_key"`
	Days                  int     `json:"days"`
	Status                string  `json:"status"`
	ApprovalLevelRequired int     `json:"approval_level_required"`
	ApprovalLevelDone     int     `json:"approval_level_done"`
	PaidDays              int     `json:"paid_days"`
	UnpaidDays            int     `json:"unpaid_days"`
	Reason                *string `json:"reason,omitempty"`
	ReviewNote            *string `json:"review_note,omitempty"`
}

// CategoryBalanceResponse is the per-category balance view.
type CategoryBalanceResponse struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}
