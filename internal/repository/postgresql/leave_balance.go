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

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	id, org_id, user_id, category_key, cycle_start, cycle_end,
	allocated, carried_forward, used, encashed, remaining,
	created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.OrgID, &b.UserID, &b.CategoryKey, &b.CycleStart, &b.CycleEnd,
		&b.Allocated, &b.CarriedForward, &b.Used, &b.Encashed, &b.Remaining,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements leave.LeaveBalanceRepository. The unique index on
// (org_id, user_id, category_key, cycle_start) enforces one row per
// (user, category, cycle).
func (r *leaveBalanceRepository) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			org_id, user_id, category_key, cycle_start, cycle_end,
			allocated, carried_forward, used, encashed, remaining
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.OrgID, balance.UserID, balance.CategoryKey, balance.CycleStart, balance.CycleEnd,
		balance.Allocated, balance.CarriedForward, balance.Used, balance.Encashed, balance.Remaining,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return balance, nil
}

// GetForCycle implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetForCycle(ctx context.Context, userID, categoryKey string, cycleStart time.Time, orgID string) (*leave.LeaveBalance, error) {
	return r.getForCycle(ctx, userID, categoryKey, cycleStart, orgID, false)
}

// GetForCycleForUpdate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetForCycleForUpdate(ctx context.Context, userID, categoryKey string, cycleStart time.Time, orgID string) (*leave.LeaveBalance, error) {
	return r.getForCycle(ctx, userID, categoryKey, cycleStart, orgID, true)
}

func (r *leaveBalanceRepository) getForCycle(ctx context.Context, userID, categoryKey string, cycleStart time.Time, orgID string, forUpdate bool) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE user_id = $1 AND category_key = $2 AND cycle_start = $3 AND org_id = $4`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, userID, categoryKey, cycleStart, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return &b, nil
}

// Update implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Update(ctx context.Context, balance leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances SET
			allocated = $1, carried_forward = $2, used = $3, encashed = $4, remaining = $5,
			updated_at = NOW()
		WHERE id = $6 AND org_id = $7
	`

	tag, err := q.Exec(ctx, query,
		balance.Allocated, balance.CarriedForward, balance.Used, balance.Encashed, balance.Remaining,
		balance.ID, balance.OrgID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("leave balance %s not found", balance.ID)
	}

	return nil
}
