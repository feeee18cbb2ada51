package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, org_id, user_id, date,
	punched_in_at, punched_out_at, punch_in_proof_url, punch_out_proof_url,
	is_on_break, break_started_at, break_total_seconds,
	total_work_seconds, effective_seconds, overtime_minutes,
	status, override_status, override_reason, override_by,
	created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.OrgID, &att.UserID, &att.Date,
		&att.PunchedInAt, &att.PunchedOutAt, &att.PunchInProofURL, &att.PunchOutProofURL,
		&att.IsOnBreak, &att.BreakStartedAt, &att.BreakTotalSeconds,
		&att.TotalWorkSeconds, &att.EffectiveSeconds, &att.OvertimeMinutes,
		&att.Status, &att.OverrideStatus, &att.OverrideReason, &att.OverrideBy,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository. The unique index
// on (org_id, user_id, date) enforces one row per user per day.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			org_id, user_id, date,
			punched_in_at, punch_in_proof_url,
			is_on_break, break_started_at, break_total_seconds,
			total_work_seconds, effective_seconds, overtime_minutes,
			status, override_status, override_reason, override_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.OrgID, att.UserID, att.Date,
		att.PunchedInAt, att.PunchInProofURL,
		att.IsOnBreak, att.BreakStartedAt, att.BreakTotalSeconds,
		att.TotalWorkSeconds, att.EffectiveSeconds, att.OvertimeMinutes,
		att.Status, att.OverrideStatus, att.OverrideReason, att.OverrideBy,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string, orgID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1 AND org_id = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string) (*attendance.Attendance, error) {
	return r.getByUserAndDate(ctx, userID, date, orgID, false)
}

// GetByUserAndDateForUpdate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time, orgID string) (*attendance.Attendance, error) {
	return r.getByUserAndDate(ctx, userID, date, orgID, true)
}

func (r *attendanceRepository) getByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string, forUpdate bool) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND date = $2 AND org_id = $3`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			punched_in_at = $1, punched_out_at = $2,
			punch_in_proof_url = $3, punch_out_proof_url = $4,
			is_on_break = $5, break_started_at = $6, break_total_seconds = $7,
			total_work_seconds = $8, effective_seconds = $9, overtime_minutes = $10,
			status = $11, override_status = $12, override_reason = $13, override_by = $14,
			updated_at = NOW()
		WHERE id = $15 AND org_id = $16
	`

	tag, err := q.Exec(ctx, query,
		att.PunchedInAt, att.PunchedOutAt,
		att.PunchInProofURL, att.PunchOutProofURL,
		att.IsOnBreak, att.BreakStartedAt, att.BreakTotalSeconds,
		att.TotalWorkSeconds, att.EffectiveSeconds, att.OvertimeMinutes,
		att.Status, att.OverrideStatus, att.OverrideReason, att.OverrideBy,
		att.ID, att.OrgID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListRange(ctx context.Context, userID string, from, to time.Time, orgID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND org_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date`

	rows, err := q.Query(ctx, query, userID, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}

	return records, rows.Err()
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenBefore(ctx context.Context, orgID string, cutoff time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE org_id = $1 AND date < $2 AND punched_in_at IS NOT NULL AND punched_out_at IS NULL
		ORDER BY date`

	rows, err := q.Query(ctx, query, orgID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}

	return records, rows.Err()
}
