package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type shiftTemplateRepository struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) shift.ShiftTemplateRepository {
	return &shiftTemplateRepository{db: db}
}

const shiftTemplateColumns = `
	id, org_id, name, shift_type, start_time, end_time, work_minutes,
	buffer_minutes, earliest_punch_in_time, latest_punch_out_time,
	min_punch_out_after_minutes, max_punch_out_after_minutes,
	half_day_threshold_minutes, overtime_start_minutes, is_active,
	created_at, updated_at`

func scanShiftTemplate(row pgx.Row) (shift.ShiftTemplate, error) {
	var t shift.ShiftTemplate
	err := row.Scan(
		&t.ID, &t.OrgID, &t.Name, &t.ShiftType, &t.StartTime, &t.EndTime, &t.WorkMinutes,
		&t.BufferMinutes, &t.EarliestPunchInTime, &t.LatestPunchOutTime,
		&t.MinPunchOutAfterMinutes, &t.MaxPunchOutAfterMinutes,
		&t.HalfDayThresholdMinutes, &t.OvertimeStartMinutes, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements shift.ShiftTemplateRepository.
func (r *shiftTemplateRepository) Create(ctx context.Context, template shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_templates (
			org_id, name, shift_type, start_time, end_time, work_minutes,
			buffer_minutes, earliest_punch_in_time, latest_punch_out_time,
			min_punch_out_after_minutes, max_punch_out_after_minutes,
			half_day_threshold_minutes, overtime_start_minutes, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		template.OrgID, template.Name, template.ShiftType,
		template.StartTime, template.EndTime, template.WorkMinutes,
		template.BufferMinutes, template.EarliestPunchInTime, template.LatestPunchOutTime,
		template.MinPunchOutAfterMinutes, template.MaxPunchOutAfterMinutes,
		template.HalfDayThresholdMinutes, template.OvertimeStartMinutes, template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return template, nil
}

// GetByID implements shift.ShiftTemplateRepository.
func (r *shiftTemplateRepository) GetByID(ctx context.Context, id string, orgID string) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftTemplateColumns + ` FROM shift_templates WHERE id = $1 AND org_id = $2`

	t, err := scanShiftTemplate(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftTemplate{}, shift.ErrShiftTemplateNotFound
		}
		return shift.ShiftTemplate{}, fmt.Errorf("failed to get shift template: %w", err)
	}

	return t, nil
}

// List implements shift.ShiftTemplateRepository.
func (r *shiftTemplateRepository) List(ctx context.Context, orgID string) ([]shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftTemplateColumns + ` FROM shift_templates WHERE org_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	var templates []shift.ShiftTemplate
	for rows.Next() {
		t, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

type shiftAssignmentRepository struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.ShiftAssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}

// Create implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) Create(ctx context.Context, assignment shift.StaffShiftAssignment) (shift.StaffShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff_shift_assignments (org_id, user_id, shift_template_id, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.OrgID, assignment.UserID, assignment.ShiftTemplateID,
		assignment.EffectiveFrom, assignment.EffectiveTo,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return shift.StaffShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return assignment, nil
}

// GetActiveForDate implements shift.ShiftAssignmentRepository.
// Picks the covering assignment with the greatest effective_from.
func (r *shiftAssignmentRepository) GetActiveForDate(ctx context.Context, userID string, date time.Time, orgID string) (*shift.StaffShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, user_id, shift_template_id, effective_from, effective_to, created_at, updated_at
		FROM staff_shift_assignments
		WHERE user_id = $1
		  AND org_id = $2
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to >= $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var a shift.StaffShiftAssignment
	err := q.QueryRow(ctx, query, userID, orgID, date).Scan(
		&a.ID, &a.OrgID, &a.UserID, &a.ShiftTemplateID,
		&a.EffectiveFrom, &a.EffectiveTo, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active shift assignment: %w", err)
	}

	return &a, nil
}
