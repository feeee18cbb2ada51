package org

// AppSetting is a single org-scoped configuration entry.
type AppSetting struct {
	OrgID string
	Key   string
	Value string
}

// Setting keys recognised by the engine.
const (
	SettingRequiredWorkHours = "required_work_hours"
	SettingMaxBreakMinutes   = "max_break_minutes"
)

// PolicyDefaults is the explicit configuration object injected into
// attendance and payroll computations. It replaces per-call key/value
// lookups so the engines stay pure and unit-testable.
type PolicyDefaults struct {
	// RequiredWorkHours is the fallback daily target when no shift
	// template resolves for a user.
	RequiredWorkHours int

	// MaxBreakMinutes is the paid break allowance per day. Zero or
	// negative means no cap is configured: breaks are fully allowed.
	MaxBreakMinutes int
}

// DefaultPolicy returns the safe org defaults: 8 working hours, no
// break cap.
func DefaultPolicy() PolicyDefaults {
	return PolicyDefaults{RequiredWorkHours: 8}
}

// RequiredWorkSeconds converts the fallback daily target to seconds.
func (p PolicyDefaults) RequiredWorkSeconds() int {
	hours := p.RequiredWorkHours
	if hours <= 0 {
		hours = 8
	}
	return hours * 3600
}
