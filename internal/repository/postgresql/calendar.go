package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/calendar"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepository{db: db}
}

// Create implements calendar.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (org_id, date, name, is_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, holiday.OrgID, holiday.Date, holiday.Name, holiday.IsPaid).
		Scan(&holiday.ID, &holiday.CreatedAt, &holiday.UpdatedAt)
	if err != nil {
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return holiday, nil
}

// GetByDate implements calendar.HolidayRepository.
func (r *holidayRepository) GetByDate(ctx context.Context, orgID string, date time.Time) (*calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, date, name, is_paid, created_at, updated_at
		FROM holidays
		WHERE org_id = $1 AND date = $2
	`

	var h calendar.Holiday
	err := q.QueryRow(ctx, query, orgID, date).Scan(
		&h.ID, &h.OrgID, &h.Date, &h.Name, &h.IsPaid, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}

	return &h, nil
}

// ListRange implements calendar.HolidayRepository.
func (r *holidayRepository) ListRange(ctx context.Context, orgID string, from, to time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, org_id, date, name, is_paid, created_at, updated_at
		FROM holidays
		WHERE org_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.OrgID, &h.Date, &h.Name, &h.IsPaid, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

type weeklyOffRepository struct {
	db *database.DB
}

func NewWeeklyOffRepository(db *database.DB) calendar.WeeklyOffRepository {
	return &weeklyOffRepository{db: db}
}

// The day pattern is stored as jsonb; one active template per org is
// enforced by the unique index on org_id.
func (r *weeklyOffRepository) Upsert(ctx context.Context, template calendar.WeeklyOffTemplate) (calendar.WeeklyOffTemplate, error) {
	q := GetQuerier(ctx, r.db)

	days, err := json.Marshal(template.Days)
	if err != nil {
		return calendar.WeeklyOffTemplate{}, fmt.Errorf("failed to encode weekly off days: %w", err)
	}

	query := `
		INSERT INTO weekly_off_templates (org_id, name, days, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			days = EXCLUDED.days,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query, template.OrgID, template.Name, days, template.IsActive).
		Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return calendar.WeeklyOffTemplate{}, fmt.Errorf("failed to upsert weekly off template: %w", err)
	}

	return template, nil
}

// GetActive implements calendar.WeeklyOffRepository.
func (r *weeklyOffRepository) GetActive(ctx context.Context, orgID string) (*calendar.WeeklyOffTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, name, days, is_active, created_at, updated_at
		FROM weekly_off_templates
		WHERE org_id = $1 AND is_active
	`

	var t calendar.WeeklyOffTemplate
	var days []byte
	err := q.QueryRow(ctx, query, orgID).Scan(
		&t.ID, &t.OrgID, &t.Name, &days, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weekly off template: %w", err)
	}

	if len(days) > 0 {
		if err := json.Unmarshal(days, &t.Days); err != nil {
			return nil, fmt.Errorf("failed to decode weekly off days: %w", err)
		}
	}

	return &t, nil
}
