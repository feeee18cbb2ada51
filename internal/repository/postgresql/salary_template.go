package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type salaryTemplateRepository struct {
	db *database.DB
}

func NewSalaryTemplateRepository(db *database.DB) payroll.SalaryTemplateRepository {
	return &salaryTemplateRepository{db: db}
}

// Component lists are stored as jsonb so templates stay schema-free
// when orgs add custom component keys.
func marshalComponents(components []payroll.SalaryComponent) ([]byte, error) {
	if components == nil {
		components = []payroll.SalaryComponent{}
	}
	return json.Marshal(components)
}

func unmarshalComponents(raw []byte) ([]payroll.SalaryComponent, error) {
	var components []payroll.SalaryComponent
	if len(raw) == 0 {
		return components, nil
	}
	if err := json.Unmarshal(raw, &components); err != nil {
		return nil, fmt.Errorf("failed to decode salary components: %w", err)
	}
	return components, nil
}

// Create implements payroll.SalaryTemplateRepository.
func (r *salaryTemplateRepository) Create(ctx context.Context, template payroll.SalaryTemplate) (payroll.SalaryTemplate, error) {
	q := GetQuerier(ctx, r.db)

	earnings, err := marshalComponents(template.Earnings)
	if err != nil {
		return payroll.SalaryTemplate{}, err
	}
	incentives, err := marshalComponents(template.Incentives)
	if err != nil {
		return payroll.SalaryTemplate{}, err
	}
	deductions, err := marshalComponents(template.Deductions)
	if err != nil {
		return payroll.SalaryTemplate{}, err
	}

	query := `
		INSERT INTO salary_templates (org_id, name, earnings, incentives, deductions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		template.OrgID, template.Name, earnings, incentives, deductions, template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return payroll.SalaryTemplate{}, fmt.Errorf("failed to create salary template: %w", err)
	}

	return template, nil
}

// GetByID implements payroll.SalaryTemplateRepository.
func (r *salaryTemplateRepository) GetByID(ctx context.Context, id string, orgID string) (payroll.SalaryTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, name, earnings, incentives, deductions, is_active, created_at, updated_at
		FROM salary_templates
		WHERE id = $1 AND org_id = $2
	`

	var t payroll.SalaryTemplate
	var earnings, incentives, deductions []byte
	err := q.QueryRow(ctx, query, id, orgID).Scan(
		&t.ID, &t.OrgID, &t.Name, &earnings, &incentives, &deductions,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryTemplate{}, payroll.ErrSalaryTemplateNotFound
		}
		return payroll.SalaryTemplate{}, fmt.Errorf("failed to get salary template: %w", err)
	}

	if t.Earnings, err = unmarshalComponents(earnings); err != nil {
		return payroll.SalaryTemplate{}, err
	}
	if t.Incentives, err = unmarshalComponents(incentives); err != nil {
		return payroll.SalaryTemplate{}, err
	}
	if t.Deductions, err = unmarshalComponents(deductions); err != nil {
		return payroll.SalaryTemplate{}, err
	}

	return t, nil
}

// List implements payroll.SalaryTemplateRepository.
func (r *salaryTemplateRepository) List(ctx context.Context, orgID string) ([]payroll.SalaryTemplate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, org_id, name, earnings, incentives, deductions, is_active, created_at, updated_at
		FROM salary_templates
		WHERE org_id = $1
		ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary templates: %w", err)
	}
	defer rows.Close()

	var templates []payroll.SalaryTemplate
	for rows.Next() {
		var t payroll.SalaryTemplate
		var earnings, incentives, deductions []byte
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &earnings, &incentives, &deductions, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salary template: %w", err)
		}
		if t.Earnings, err = unmarshalComponents(earnings); err != nil {
			return nil, err
		}
		if t.Incentives, err = unmarshalComponents(incentives); err != nil {
			return nil, err
		}
		if t.Deductions, err = unmarshalComponents(deductions); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// GetStaffSalary implements payroll.SalaryTemplateRepository.
func (r *salaryTemplateRepository) GetStaffSalary(ctx context.Context, userID string, orgID string) (*payroll.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, user_id, template_id, month_key, earnings, incentives, deductions, created_at, updated_at
		FROM staff_salaries
		WHERE user_id = $1 AND org_id = $2 AND month_key IS NULL
	`

	return r.scanStaffSalary(q.QueryRow(ctx, query, userID, orgID))
}

// GetMonthOverride implements payroll.SalaryTemplateRepository.
func (r *salaryTemplateRepository) GetMonthOverride(ctx context.Context, userID string, monthKey string, orgID string) (*payroll.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, user_id, template_id, month_key, earnings, incentives, deductions, created_at, updated_at
		FROM staff_salaries
		WHERE user_id = $1 AND org_id = $2 AND month_key = $3
	`

	return r.scanStaffSalary(q.QueryRow(ctx, query, userID, orgID, monthKey))
}

func (r *salaryTemplateRepository) scanStaffSalary(row pgx.Row) (*payroll.StaffSalary, error) {
	var s payroll.StaffSalary
	var earnings, incentives, deductions []byte
	err := row.Scan(
		&s.ID, &s.OrgID, &s.UserID, &s.TemplateID, &s.MonthKey,
		&earnings, &incentives, &deductions, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff salary: %w", err)
	}

	if s.Earnings, err = unmarshalComponents(earnings); err != nil {
		return nil, err
	}
	if s.Incentives, err = unmarshalComponents(incentives); err != nil {
		return nil, err
	}
	if s.Deductions, err = unmarshalComponents(deductions); err != nil {
		return nil, err
	}

	return &s, nil
}

// UpsertStaffSalary implements payroll.SalaryTemplateRepository. The
// unique expression index on (org_id, user_id, COALESCE(month_key, ''))
// makes the upsert deterministic for both the base snapshot and
// month-override buckets.
func (r *salaryTemplateRepository) UpsertStaffSalary(ctx context.Context, salary payroll.StaffSalary) (payroll.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	earnings, err := marshalComponents(salary.Earnings)
	if err != nil {
		return payroll.StaffSalary{}, err
	}
	incentives, err := marshalComponents(salary.Incentives)
	if err != nil {
		return payroll.StaffSalary{}, err
	}
	deductions, err := marshalComponents(salary.Deductions)
	if err != nil {
		return payroll.StaffSalary{}, err
	}

	query := `
		INSERT INTO staff_salaries (org_id, user_id, template_id, month_key, earnings, incentives, deductions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (org_id, user_id, COALESCE(month_key, ''))
		DO UPDATE SET
			template_id = EXCLUDED.template_id,
			earnings = EXCLUDED.earnings,
			incentives = EXCLUDED.incentives,
			deductions = EXCLUDED.deductions,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		salary.OrgID, salary.UserID, salary.TemplateID, salary.MonthKey,
		earnings, incentives, deductions,
	).Scan(&salary.ID, &salary.CreatedAt, &salary.UpdatedAt)
	if err != nil {
		return payroll.StaffSalary{}, fmt.Errorf("failed to upsert staff salary: %w", err)
	}

	return salary, nil
}
