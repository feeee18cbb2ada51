package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// CreateCycle implements payroll.PayrollRepository.
func (r *payrollRepository) CreateCycle(ctx context.Context, cycle payroll.PayrollCycle) (payroll.PayrollCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_cycles (org_id, month_key, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, cycle.OrgID, cycle.MonthKey, cycle.Status).
		Scan(&cycle.ID, &cycle.CreatedAt, &cycle.UpdatedAt)
	if err != nil {
		return payroll.PayrollCycle{}, fmt.Errorf("failed to create payroll cycle: %w", err)
	}

	return cycle, nil
}

// GetCycleByMonth implements payroll.PayrollRepository.
func (r *payrollRepository) GetCycleByMonth(ctx context.Context, monthKey string, orgID string) (*payroll.PayrollCycle, error) {
	return r.getCycleByMonth(ctx, monthKey, orgID, false)
}

// GetCycleByMonthForUpdate implements payroll.PayrollRepository.
func (r *payrollRepository) GetCycleByMonthForUpdate(ctx context.Context, monthKey string, orgID string) (*payroll.PayrollCycle, error) {
	return r.getCycleByMonth(ctx, monthKey, orgID, true)
}

func (r *payrollRepository) getCycleByMonth(ctx context.Context, monthKey string, orgID string, forUpdate bool) (*payroll.PayrollCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, month_key, status, created_at, updated_at
		FROM payroll_cycles
		WHERE month_key = $1 AND org_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var c payroll.PayrollCycle
	err := q.QueryRow(ctx, query, monthKey, orgID).Scan(
		&c.ID, &c.OrgID, &c.MonthKey, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll cycle: %w", err)
	}

	return &c, nil
}

// UpdateCycleStatus implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateCycleStatus(ctx context.Context, cycleID string, orgID string, status payroll.CycleStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_cycles SET status = $1, updated_at = NOW()
		WHERE id = $2 AND org_id = $3
	`, status, cycleID, orgID)
	if err != nil {
		return fmt.Errorf("failed to update payroll cycle status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCycleNotFound
	}

	return nil
}

func marshalAmounts(amounts map[string]decimal.Decimal) ([]byte, error) {
	if amounts == nil {
		amounts = map[string]decimal.Decimal{}
	}
	return json.Marshal(amounts)
}

func unmarshalAmounts(raw []byte) (map[string]decimal.Decimal, error) {
	amounts := map[string]decimal.Decimal{}
	if len(raw) == 0 {
		return amounts, nil
	}
	if err := json.Unmarshal(raw, &amounts); err != nil {
		return nil, fmt.Errorf("failed to decode payroll amounts: %w", err)
	}
	return amounts, nil
}

// UpsertLine implements payroll.PayrollRepository. Recomputing a DRAFT
// cycle replaces the previous snapshot for the (cycle, user) pair.
func (r *payrollRepository) UpsertLine(ctx context.Context, line payroll.PayrollLine) (payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	earnings, err := marshalAmounts(line.Earnings)
	if err != nil {
		return payroll.PayrollLine{}, err
	}
	incentives, err := marshalAmounts(line.Incentives)
	if err != nil {
		return payroll.PayrollLine{}, err
	}
	deductions, err := marshalAmounts(line.Deductions)
	if err != nil {
		return payroll.PayrollLine{}, err
	}
	summary, err := json.Marshal(line.Summary)
	if err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to encode attendance summary: %w", err)
	}

	query := `
		INSERT INTO payroll_lines (
			cycle_id, org_id, user_id, earnings, incentives, deductions,
			total_earnings, total_incentives, total_deductions, gross, net, summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (cycle_id, user_id)
		DO UPDATE SET
			earnings = EXCLUDED.earnings,
			incentives = EXCLUDED.incentives,
			deductions = EXCLUDED.deductions,
			total_earnings = EXCLUDED.total_earnings,
			total_incentives = EXCLUDED.total_incentives,
			total_deductions = EXCLUDED.total_deductions,
			gross = EXCLUDED.gross,
			net = EXCLUDED.net,
			summary = EXCLUDED.summary,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		line.CycleID, line.OrgID, line.UserID, earnings, incentives, deductions,
		line.TotalEarnings, line.TotalIncentives, line.TotalDeductions, line.Gross, line.Net, summary,
	).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to upsert payroll line: %w", err)
	}

	return line, nil
}

const payrollLineColumns = `
	id, cycle_id, org_id, user_id, earnings, incentives, deductions,
	total_earnings, total_incentives, total_deductions, gross, net, summary,
	created_at, updated_at`

func scanPayrollLine(row pgx.Row) (payroll.PayrollLine, error) {
	var line payroll.PayrollLine
	var earnings, incentives, deductions, summary []byte
	err := row.Scan(
		&line.ID, &line.CycleID, &line.OrgID, &line.UserID,
		&earnings, &incentives, &deductions,
		&line.TotalEarnings, &line.TotalIncentives, &line.TotalDeductions,
		&line.Gross, &line.Net, &summary,
		&line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollLine{}, err
	}

	if line.Earnings, err = unmarshalAmounts(earnings); err != nil {
		return payroll.PayrollLine{}, err
	}
	if line.Incentives, err = unmarshalAmounts(incentives); err != nil {
		return payroll.PayrollLine{}, err
	}
	if line.Deductions, err = unmarshalAmounts(deductions); err != nil {
		return payroll.PayrollLine{}, err
	}
	if err = json.Unmarshal(summary, &line.Summary); err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to decode attendance summary: %w", err)
	}

	return line, nil
}

// GetLine implements payroll.PayrollRepository.
func (r *payrollRepository) GetLine(ctx context.Context, cycleID, userID string, orgID string) (payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollLineColumns + `
		FROM payroll_lines
		WHERE cycle_id = $1 AND user_id = $2 AND org_id = $3`

	line, err := scanPayrollLine(q.QueryRow(ctx, query, cycleID, userID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollLine{}, payroll.ErrLineNotFound
		}
		return payroll.PayrollLine{}, fmt.Errorf("failed to get payroll line: %w", err)
	}

	return line, nil
}

// ListLines implements payroll.PayrollRepository.
func (r *payrollRepository) ListLines(ctx context.Context, cycleID string, orgID string) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollLineColumns + `
		FROM payroll_lines
		WHERE cycle_id = $1 AND org_id = $2
		ORDER BY user_id`

	rows, err := q.Query(ctx, query, cycleID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayrollLine
	for rows.Next() {
		line, err := scanPayrollLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// ListCycleUserIDs implements payroll.PayrollRepository. Staff with a
// base salary snapshot are the cycle population.
func (r *payrollRepository) ListCycleUserIDs(ctx context.Context, orgID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT user_id
		FROM staff_salaries
		WHERE org_id = $1 AND month_key IS NULL
		ORDER BY user_id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll user ids: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan payroll user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, rows.Err()
}
