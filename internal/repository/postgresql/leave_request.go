package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, org_id, user_id, start_date, end_date, leave_type, category_key,
	days, status, approval_level_required, approval_level_done,
	paid_days, unpaid_days, reason, reviewed_by, reviewed_at, review_note,
	created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.OrgID, &req.UserID, &req.StartDate, &req.EndDate, &req.LeaveType, &req.CategoryKey,
		&req.Days, &req.Status, &req.ApprovalLevelRequired, &req.ApprovalLevelDone,
		&req.PaidDays, &req.UnpaidDays, &req.Reason, &req.ReviewedBy, &req.ReviewedAt, &req.ReviewNote,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			org_id, user_id, start_date, end_date, leave_type, category_key,
			days, status, approval_level_required, approval_level_done,
			paid_days, unpaid_days, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.OrgID, request.UserID, request.StartDate, request.EndDate, request.LeaveType, request.CategoryKey,
		request.Days, request.Status, request.ApprovalLevelRequired, request.ApprovalLevelDone,
		request.PaidDays, request.UnpaidDays, request.Reason,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string, orgID string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, orgID, false)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string, orgID string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, orgID, true)
}

func (r *leaveRequestRepository) getByID(ctx context.Context, id string, orgID string, forUpdate bool) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1 AND org_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return req, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $1, approval_level_done = $2, paid_days = $3, unpaid_days = $4,
			reviewed_by = $5, reviewed_at = $6, review_note = $7,
			updated_at = NOW()
		WHERE id = $8 AND org_id = $9
	`

	tag, err := q.Exec(ctx, query,
		request.Status, request.ApprovalLevelDone, request.PaidDays, request.UnpaidDays,
		request.ReviewedBy, request.ReviewedAt, request.ReviewNote,
		request.ID, request.OrgID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}

	return nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Delete(ctx context.Context, id string, orgID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}

	return nil
}

// FindApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) FindApprovedCovering(ctx context.Context, userID string, date time.Time, orgID string) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1 AND org_id = $2 AND status = $3
		  AND start_date <= $4 AND end_date >= $4
		LIMIT 1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, userID, orgID, leave.RequestStatusApproved, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find approved leave covering date: %w", err)
	}

	return &req, nil
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedOverlapping(ctx context.Context, userID string, from, to time.Time, orgID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1 AND org_id = $2 AND status = $3
		  AND start_date <= $4 AND end_date >= $5
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, userID, orgID, leave.RequestStatusApproved, to, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// SumApprovedDays implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) SumApprovedDays(ctx context.Context, userID, categoryKey string, from, to time.Time, orgID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE user_id = $1 AND org_id = $2 AND category_key = $3 AND status = $4
		  AND start_date >= $5 AND start_date <= $6
	`

	var total int
	err := q.QueryRow(ctx, query, userID, orgID, categoryKey, leave.RequestStatusApproved, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum approved leave days: %w", err)
	}

	return total, nil
}

// ListForUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListForUser(ctx context.Context, userID string, orgID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1 AND org_id = $2
		ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
