package attendance

import (
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type PunchInRequest struct {
	// ProofPhotoURL is the stored photo reference. Upload and
	// verification happen outside the engine; an empty value means the
	// proof gate failed.
	ProofPhotoURL string `json:"proof_photo_url"`
}

func (r *PunchInRequest) Validate() error {
	if validator.IsEmpty(r.ProofPhotoURL) {
		return ErrProofPhotoRequired
	}
	return nil
}

type PunchOutRequest struct {
	ProofPhotoURL string `json:"proof_photo_url"`
}

func (r *PunchOutRequest) Validate() error {
	if validator.IsEmpty(r.ProofPhotoURL) {
		return ErrProofPhotoRequired
	}
	return nil
}

type OverrideDayRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
	Status string `json:"status"` // LEAVE or HALF_DAY
	Reason string `json:"reason"`
}

func (r *OverrideDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be a valid date (YYYY-MM-DD)"})
	}
	if s := DayStatus(r.Status); s != StatusLeave && s != StatusHalfDay {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be LEAVE or HALF_DAY"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AttendanceResponse is the wire shape for a single record.
type AttendanceResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Date              string  `json:"date"`
	PunchedInAt       *string `json:"punched_in_at"`
	PunchedOutAt      *string `json:"punched_out_at"`
	IsOnBreak         bool    `json:"is_on_break"`
	BreakTotalSeconds int     `json:"break_total_seconds"`
	TotalWorkHours    float64 `json:"total_work_hours"`
	EffectiveHours    float64 `json:"effective_hours"`
	OvertimeMinutes   int     `json:"overtime_minutes"`
	Status            string  `json:"status"`
	OverrideReason    *string `json:"override_reason,omitempty"`
}

// DayStatusResponse is the computed classification for one day.
type DayStatusResponse struct {
	UserID           string  `json:"user_id"`
	Date             string  `json:"date"`
	Status           string  `json:"status"`
	RequiredHours    float64 `json:"required_hours"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	EffectiveHours   float64 `json:"effective_hours"`
	BreakHours       float64 `json:"break_hours"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	IsAdminOverride  bool    `json:"is_admin_override"`
	OverrideReason   *string `json:"override_reason,omitempty"`
}

// MonthlyHistoryResponse lists per-day rows plus the month tally.
type MonthlyHistoryResponse struct {
	UserID   string              `json:"user_id"`
	MonthKey string              `json:"month_key"`
	Days     []DayStatusResponse `json:"days"`
	Summary  MonthlySummary      `json:"summary"`
}

type MonthlySummary struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	HalfDay  int `json:"half_day"`
	Leave    int `json:"leave"`
	Overtime int `json:"overtime"`
}
