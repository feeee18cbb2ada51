package leave

import (
	"context"
	"time"
)

// LeaveService is the leave ledger: category balances per cycle, the
// multi-level approval workflow, and paid/unpaid settlement.
type LeaveService interface {
	// Categories returns the user's category balances for the cycle
	// containing the date, always ending with the synthetic unlimited
	// "unpaid" category.
	Categories(ctx context.Context, orgID, userID string, date time.Time) ([]CategoryBalanceResponse, error)

	// CreateRequest opens a PENDING request. Days are counted
	// inclusively; the required approval level comes from the user's
	// assigned template (1 when none).
	CreateRequest(ctx context.Context, orgID, userID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	// Approve advances the approval level by one. On reaching the
	// required level the request settles: paid days are clamped to the
	// remaining balance, the rest become unpaid, and the balance is
	// debited under a row lock.
	Approve(ctx context.Context, orgID, requestID, reviewerID string, note *string) (LeaveRequestResponse, error)

	// Reject is terminal and never mutates balances.
	Reject(ctx context.Context, orgID, requestID, reviewerID string, note *string) (LeaveRequestResponse, error)

	// Cancel removes a PENDING request; only the requester may cancel.
	Cancel(ctx context.Context, orgID, requestID, requesterID string) error

	// IsOnApprovedLeave reports whether an approved request covers the
	// date. The attendance engine consults it on punch-in and when
	// classifying days without a punch record.
	IsOnApprovedLeave(ctx context.Context, orgID, userID string, date time.Time) (bool, error)

	// ApprovedLeaveByDay splits each date of [from, to] covered by
	// approved requests into paid or unpaid, for payroll's monthly
	// classification.
	ApprovedLeaveByDay(ctx context.Context, orgID, userID string, from, to time.Time) (map[string]LeaveDayKind, error)

	// Template administration.
	CreateTemplate(ctx context.Context, orgID string, req CreateLeaveTemplateRequest) (LeaveTemplate, error)
	ListTemplates(ctx context.Context, orgID string) ([]LeaveTemplate, error)
	AssignTemplate(ctx context.Context, orgID string, req AssignLeaveTemplateRequest) (StaffLeaveAssignment, error)

	ListRequests(ctx context.Context, orgID, userID string) ([]LeaveRequestResponse, error)
}

// LeaveDayKind tags one leave day as settled against a balance or not.
type LeaveDayKind string

const (
	LeaveDayPaid   LeaveDayKind = "paid"
	LeaveDayUnpaid LeaveDayKind = "unpaid"
)
