package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) org.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements org.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context, orgID string, key string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var value string
	err := q.QueryRow(ctx, `
		SELECT value FROM app_settings WHERE org_id = $1 AND key = $2
	`, orgID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", org.ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to get app setting: %w", err)
	}

	return value, nil
}

// Upsert implements org.SettingsRepository.
func (r *settingsRepository) Upsert(ctx context.Context, setting org.AppSetting) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO app_settings (org_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, setting.OrgID, setting.Key, setting.Value)
	if err != nil {
		return fmt.Errorf("failed to upsert app setting: %w", err)
	}

	return nil
}

// GetPolicyDefaults implements org.SettingsRepository.
func (r *settingsRepository) GetPolicyDefaults(ctx context.Context, orgID string) (org.PolicyDefaults, error) {
	defaults := org.DefaultPolicy()

	if raw, err := r.Get(ctx, orgID, org.SettingRequiredWorkHours); err == nil {
		if hours, convErr := strconv.Atoi(raw); convErr == nil && hours > 0 {
			defaults.RequiredWorkHours = hours
		}
	} else if !errors.Is(err, org.ErrSettingNotFound) {
		return org.PolicyDefaults{}, err
	}

	if raw, err := r.Get(ctx, orgID, org.SettingMaxBreakMinutes); err == nil {
		if minutes, convErr := strconv.Atoi(raw); convErr == nil && minutes > 0 {
			defaults.MaxBreakMinutes = minutes
		}
	} else if !errors.Is(err, org.ErrSettingNotFound) {
		return org.PolicyDefaults{}, err
	}

	return defaults, nil
}
