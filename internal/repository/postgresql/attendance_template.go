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

type attendanceTemplateRepository struct {
	db *database.DB
}

func NewAttendanceTemplateRepository(db *database.DB) shift.AttendanceTemplateRepository {
	return &attendanceTemplateRepository{db: db}
}

const attendanceTemplateColumns = `
	id, org_id, name, attendance_mode, holidays_rule, track_in_out_enabled,
	require_punch_out, allow_multiple_punches, mark_absent_rule,
	effective_hours_rule, is_active, created_at, updated_at`

func scanAttendanceTemplate(row pgx.Row) (shift.AttendanceTemplate, error) {
	var t shift.AttendanceTemplate
	err := row.Scan(
		&t.ID, &t.OrgID, &t.Name, &t.AttendanceMode, &t.HolidaysRule, &t.TrackInOutEnabled,
		&t.RequirePunchOut, &t.AllowMultiplePunches, &t.MarkAbsentRule,
		&t.EffectiveHoursRule, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements shift.AttendanceTemplateRepository.
func (r *attendanceTemplateRepository) Create(ctx context.Context, template shift.AttendanceTemplate) (shift.AttendanceTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_templates (
			org_id, name, attendance_mode, holidays_rule, track_in_out_enabled,
			require_punch_out, allow_multiple_punches, mark_absent_rule,
			effective_hours_rule, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		template.OrgID, template.Name, template.AttendanceMode, template.HolidaysRule,
		template.TrackInOutEnabled, template.RequirePunchOut, template.AllowMultiplePunches,
		template.MarkAbsentRule, template.EffectiveHoursRule, template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return shift.AttendanceTemplate{}, fmt.Errorf("failed to create attendance template: %w", err)
	}

	return template, nil
}

// GetByID implements shift.AttendanceTemplateRepository.
func (r *attendanceTemplateRepository) GetByID(ctx context.Context, id string, orgID string) (shift.AttendanceTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceTemplateColumns + ` FROM attendance_templates WHERE id = $1 AND org_id = $2`

	t, err := scanAttendanceTemplate(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.AttendanceTemplate{}, shift.ErrAttendanceTemplateNotFound
		}
		return shift.AttendanceTemplate{}, fmt.Errorf("failed to get attendance template: %w", err)
	}

	return t, nil
}

// List implements shift.AttendanceTemplateRepository.
func (r *attendanceTemplateRepository) List(ctx context.Context, orgID string) ([]shift.AttendanceTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceTemplateColumns + ` FROM attendance_templates WHERE org_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance templates: %w", err)
	}
	defer rows.Close()

	var templates []shift.AttendanceTemplate
	for rows.Next() {
		t, err := scanAttendanceTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

type attendanceAssignmentRepository struct {
	db *database.DB
}

func NewAttendanceAssignmentRepository(db *database.DB) shift.AttendanceAssignmentRepository {
	return &attendanceAssignmentRepository{db: db}
}

// Create implements shift.AttendanceAssignmentRepository.
func (r *attendanceAssignmentRepository) Create(ctx context.Context, assignment shift.StaffAttendanceAssignment) (shift.StaffAttendanceAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff_attendance_assignments (org_id, user_id, attendance_template_id, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.OrgID, assignment.UserID, assignment.AttendanceTemplateID,
		assignment.EffectiveFrom, assignment.EffectiveTo,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return shift.StaffAttendanceAssignment{}, fmt.Errorf("failed to create attendance assignment: %w", err)
	}

	return assignment, nil
}

// GetActiveForDate implements shift.AttendanceAssignmentRepository.
func (r *attendanceAssignmentRepository) GetActiveForDate(ctx context.Context, userID string, date time.Time, orgID string) (*shift.StaffAttendanceAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, user_id, attendance_template_id, effective_from, effective_to, created_at, updated_at
		FROM staff_attendance_assignments
		WHERE user_id = $1
		  AND org_id = $2
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to >= $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var a shift.StaffAttendanceAssignment
	err := q.QueryRow(ctx, query, userID, orgID, date).Scan(
		&a.ID, &a.OrgID, &a.UserID, &a.AttendanceTemplateID,
		&a.EffectiveFrom, &a.EffectiveTo, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active attendance assignment: %w", err)
	}

	return &a, nil
}
