package leave

import (
	"time"
)

// Cycle is the balance-reset period for a leave category.
type Cycle string

const (
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleYearly    Cycle = "yearly"
)

// UnusedRule decides what happens to leftover balance at cycle end.
type UnusedRule string

const (
	UnusedRuleLapse        UnusedRule = "lapse"
	UnusedRuleCarryForward UnusedRule = "carry_forward"
	UnusedRuleEncash       UnusedRule = "encash"
)

// CategoryKeyUnpaid is the synthetic category with unlimited remaining
// days; requests that resolve to it settle entirely as unpaid.
const CategoryKeyUnpaid = "unpaid"

// LeaveTemplate groups categories under a cycle and approval policy.
type LeaveTemplate struct {
	ID            string
	OrgID         string
	Name          string
	Cycle         Cycle
	CountSandwich bool
	ApprovalLevel int // 1..3
	IsActive      bool
	Categories    []TemplateCategory
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryByKey returns the template category with the key, or nil.
func (t LeaveTemplate) CategoryByKey(key string) *TemplateCategory {
	for i := range t.Categories {
		if t.Categories[i].Key == key {
			return &t.Categories[i]
		}
	}
	return nil
}

// TemplateCategory is one leave bucket within a template.
type TemplateCategory struct {
	ID              string
	TemplateID      string
	Key             string
	Name            string
	LeaveCount      int // allocation per cycle
	UnusedRule      UnusedRule
	CarryLimitDays  int
	EncashLimitDays int
}

// StaffLeaveAssignment binds a user to a leave template.
type StaffLeaveAssignment struct {
	ID              string
	OrgID           string
	UserID          string
	LeaveTemplateID string
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LeaveBalance is the per-cycle ledger row for (user, category, cycle).
type LeaveBalance struct {
	ID             string
	OrgID          string
	UserID         string
	CategoryKey    string
	CycleStart     time.Time
	CycleEnd       time.Time
	Allocated      int
	CarriedForward int
	Used           int
	Encashed       int
	Remaining      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recalc restores the remaining invariant:
// remaining = max(0, allocated+carriedForward-used-encashed).
func (b *LeaveBalance) Recalc() {
	remaining := b.Allocated + b.CarriedForward - b.Used - b.Encashed
	if remaining < 0 {
		remaining = 0
	}
	b.Remaining = remaining
}

// RequestStatus enum
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// LeaveRequest is a dated leave application moving through the
// multi-level approval workflow.
type LeaveRequest struct {
	ID                    string
	OrgID                 string
	UserID                string
	StartDate             time.Time
	EndDate               time.Time
	LeaveType             string
	CategoryKey           *string
	Days                  int
	Status                RequestStatus
	ApprovalLevelRequired int
	ApprovalLevelDone     int
	PaidDays              int
	UnpaidDays            int
	Reason                *string
	ReviewedBy            *string
	ReviewedAt            *time.Time
	ReviewNote            *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Covers reports whether the date falls inside the request's range.
func (r LeaveRequest) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(r.StartDate.Truncate(24*time.Hour)) && !d.After(r.EndDate.Truncate(24*time.Hour))
}

// CategoryBalance is the per-category view returned to callers.
type CategoryBalance struct {
	Key       string
	Name      string
	Total     int
	Used      int
	Remaining int
	Unlimited bool
}
