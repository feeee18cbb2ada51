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

type leaveTemplateRepository struct {
	db *database.DB
}

func NewLeaveTemplateRepository(db *database.DB) leave.LeaveTemplateRepository {
	return &leaveTemplateRepository{db: db}
}

// Create implements leave.LeaveTemplateRepository. Template and
// categories are inserted together.
func (r *leaveTemplateRepository) Create(ctx context.Context, template leave.LeaveTemplate) (leave.LeaveTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_templates (org_id, name, cycle, count_sandwich, approval_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		template.OrgID, template.Name, template.Cycle,
		template.CountSandwich, template.ApprovalLevel, template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return leave.LeaveTemplate{}, fmt.Errorf("failed to create leave template: %w", err)
	}

	for i := range template.Categories {
		c := &template.Categories[i]
		c.TemplateID = template.ID
		err := q.QueryRow(ctx, `
			INSERT INTO leave_template_categories (template_id, key, name, leave_count, unused_rule, carry_limit_days, encash_limit_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, c.TemplateID, c.Key, c.Name, c.LeaveCount, c.UnusedRule, c.CarryLimitDays, c.EncashLimitDays).Scan(&c.ID)
		if err != nil {
			return leave.LeaveTemplate{}, fmt.Errorf("failed to create leave template category: %w", err)
		}
	}

	return template, nil
}

// GetByID implements leave.LeaveTemplateRepository.
func (r *leaveTemplateRepository) GetByID(ctx context.Context, id string, orgID string) (leave.LeaveTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, name, cycle, count_sandwich, approval_level, is_active, created_at, updated_at
		FROM leave_templates
		WHERE id = $1 AND org_id = $2
	`

	var t leave.LeaveTemplate
	err := q.QueryRow(ctx, query, id, orgID).Scan(
		&t.ID, &t.OrgID, &t.Name, &t.Cycle, &t.CountSandwich,
		&t.ApprovalLevel, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveTemplate{}, leave.ErrLeaveTemplateNotFound
		}
		return leave.LeaveTemplate{}, fmt.Errorf("failed to get leave template: %w", err)
	}

	categories, err := r.loadCategories(ctx, t.ID)
	if err != nil {
		return leave.LeaveTemplate{}, err
	}
	t.Categories = categories

	return t, nil
}

func (r *leaveTemplateRepository) loadCategories(ctx context.Context, templateID string) ([]leave.TemplateCategory, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, template_id, key, name, leave_count, unused_rule, carry_limit_days, encash_limit_days
		FROM leave_template_categories
		WHERE template_id = $1
		ORDER BY key
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave template categories: %w", err)
	}
	defer rows.Close()

	var categories []leave.TemplateCategory
	for rows.Next() {
		var c leave.TemplateCategory
		if err := rows.Scan(&c.ID, &c.TemplateID, &c.Key, &c.Name, &c.LeaveCount, &c.UnusedRule, &c.CarryLimitDays, &c.EncashLimitDays); err != nil {
			return nil, fmt.Errorf("failed to scan leave template category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// List implements leave.LeaveTemplateRepository.
func (r *leaveTemplateRepository) List(ctx context.Context, orgID string) ([]leave.LeaveTemplate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, org_id, name, cycle, count_sandwich, approval_level, is_active, created_at, updated_at
		FROM leave_templates
		WHERE org_id = $1
		ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave templates: %w", err)
	}
	defer rows.Close()

	var templates []leave.LeaveTemplate
	for rows.Next() {
		var t leave.LeaveTemplate
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &t.Cycle, &t.CountSandwich, &t.ApprovalLevel, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		categories, err := r.loadCategories(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Categories = categories
	}

	return templates, nil
}

// Assign implements leave.LeaveTemplateRepository.
func (r *leaveTemplateRepository) Assign(ctx context.Context, assignment leave.StaffLeaveAssignment) (leave.StaffLeaveAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff_leave_assignments (org_id, user_id, leave_template_id, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.OrgID, assignment.UserID, assignment.LeaveTemplateID,
		assignment.EffectiveFrom, assignment.EffectiveTo,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return leave.StaffLeaveAssignment{}, fmt.Errorf("failed to create leave assignment: %w", err)
	}

	return assignment, nil
}

// GetActiveForDate implements leave.LeaveTemplateRepository.
func (r *leaveTemplateRepository) GetActiveForDate(ctx context.Context, userID string, date time.Time, orgID string) (*leave.LeaveTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.org_id, t.name, t.cycle, t.count_sandwich, t.approval_level, t.is_active, t.created_at, t.updated_at
		FROM staff_leave_assignments a
		JOIN leave_templates t ON t.id = a.leave_template_id
		WHERE a.user_id = $1
		  AND a.org_id = $2
		  AND a.effective_from <= $3
		  AND (a.effective_to IS NULL OR a.effective_to >= $3)
		  AND t.is_active
		ORDER BY a.effective_from DESC
		LIMIT 1
	`

	var t leave.LeaveTemplate
	err := q.QueryRow(ctx, query, userID, orgID, date).Scan(
		&t.ID, &t.OrgID, &t.Name, &t.Cycle, &t.CountSandwich,
		&t.ApprovalLevel, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve active leave template: %w", err)
	}

	categories, err := r.loadCategories(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Categories = categories

	return &t, nil
}
