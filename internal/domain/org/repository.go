package org

import "context"

// SettingsRepository provides access to org-scoped app settings.
type SettingsRepository interface {
	// Get retrieves a single setting value. Returns ErrSettingNotFound
	// when the key has never been set for the org.
	Get(ctx context.Context, orgID string, key string) (string, error)

	// Upsert creates or replaces a setting value.
	Upsert(ctx context.Context, setting AppSetting) error

	// GetPolicyDefaults assembles the typed policy object from the
	// known setting keys, filling in defaults for missing keys.
	GetPolicyDefaults(ctx context.Context, orgID string) (PolicyDefaults, error)
}
