package shift

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID  = "org-1"
	testUserID = "user-1"
)

func clock(hour, minute int) *time.Time {
	t := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

type fakeShiftTemplateRepo struct {
	templates map[string]shift.ShiftTemplate
	nextID    int
}

func (f *fakeShiftTemplateRepo) Create(_ context.Context, t shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	f.nextID++
	t.ID = fmt.Sprintf("sh-%d", f.nextID)
	f.templates[t.ID] = t
	return t, nil
}

func (f *fakeShiftTemplateRepo) GetByID(_ context.Context, id string, _ string) (shift.ShiftTemplate, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return shift.ShiftTemplate{}, shift.ErrShiftTemplateNotFound
}

func (f *fakeShiftTemplateRepo) List(_ context.Context, _ string) ([]shift.ShiftTemplate, error) {
	var out []shift.ShiftTemplate
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

type fakeShiftAssignmentRepo struct {
	assignments map[string]shift.StaffShiftAssignment // userID
}

func (f *fakeShiftAssignmentRepo) Create(_ context.Context, a shift.StaffShiftAssignment) (shift.StaffShiftAssignment, error) {
	a.ID = "sa-" + a.UserID
	f.assignments[a.UserID] = a
	return a, nil
}

func (f *fakeShiftAssignmentRepo) GetActiveForDate(_ context.Context, userID string, date time.Time, _ string) (*shift.StaffShiftAssignment, error) {
	a, ok := f.assignments[userID]
	if !ok || a.EffectiveFrom.After(date) {
		return nil, nil
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(date) {
		return nil, nil
	}
	copied := a
	return &copied, nil
}

type fakeAttendanceTemplateRepo struct {
	templates map[string]shift.AttendanceTemplate
	nextID    int
}

func (f *fakeAttendanceTemplateRepo) Create(_ context.Context, t shift.AttendanceTemplate) (shift.AttendanceTemplate, error) {
	f.nextID++
	t.ID = fmt.Sprintf("at-%d", f.nextID)
	f.templates[t.ID] = t
	return t, nil
}

func (f *fakeAttendanceTemplateRepo) GetByID(_ context.Context, id string, _ string) (shift.AttendanceTemplate, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return shift.AttendanceTemplate{}, shift.ErrAttendanceTemplateNotFound
}

func (f *fakeAttendanceTemplateRepo) List(_ context.Context, _ string) ([]shift.AttendanceTemplate, error) {
	var out []shift.AttendanceTemplate
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

type fakeAttendanceAssignmentRepo struct {
	assignments map[string]shift.StaffAttendanceAssignment
}

func (f *fakeAttendanceAssignmentRepo) Create(_ context.Context, a shift.StaffAttendanceAssignment) (shift.StaffAttendanceAssignment, error) {
	a.ID = "aa-" + a.UserID
	f.assignments[a.UserID] = a
	return a, nil
}

func (f *fakeAttendanceAssignmentRepo) GetActiveForDate(_ context.Context, userID string, date time.Time, _ string) (*shift.StaffAttendanceAssignment, error) {
	a, ok := f.assignments[userID]
	if !ok || a.EffectiveFrom.After(date) {
		return nil, nil
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(date) {
		return nil, nil
	}
	copied := a
	return &copied, nil
}

type stubSettingsRepo struct {
	defaults org.PolicyDefaults
	err      error
}

func (s *stubSettingsRepo) Get(context.Context, string, string) (string, error) {
	return "", org.ErrSettingNotFound
}

func (s *stubSettingsRepo) Upsert(context.Context, org.AppSetting) error { return nil }

func (s *stubSettingsRepo) GetPolicyDefaults(context.Context, string) (org.PolicyDefaults, error) {
	if s.err != nil {
		return org.PolicyDefaults{}, s.err
	}
	return s.defaults, nil
}

type resolverFixture struct {
	resolver              *PolicyResolverImpl
	shiftTemplates        *fakeShiftTemplateRepo
	shiftAssignments      *fakeShiftAssignmentRepo
	attendanceTemplates   *fakeAttendanceTemplateRepo
	attendanceAssignments *fakeAttendanceAssignmentRepo
	settings              *stubSettingsRepo
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		shiftTemplates:        &fakeShiftTemplateRepo{templates: make(map[string]shift.ShiftTemplate)},
		shiftAssignments:      &fakeShiftAssignmentRepo{assignments: make(map[string]shift.StaffShiftAssignment)},
		attendanceTemplates:   &fakeAttendanceTemplateRepo{templates: make(map[string]shift.AttendanceTemplate)},
		attendanceAssignments: &fakeAttendanceAssignmentRepo{assignments: make(map[string]shift.StaffAttendanceAssignment)},
		settings:              &stubSettingsRepo{defaults: org.PolicyDefaults{RequiredWorkHours: 8, MaxBreakMinutes: 30}},
	}
	f.resolver = NewPolicyResolver(
		f.shiftTemplates, f.shiftAssignments, f.attendanceTemplates, f.attendanceAssignments, f.settings,
	)
	return f
}

func (f *resolverFixture) assignShift(t *testing.T, template shift.ShiftTemplate, from time.Time) shift.ShiftTemplate {
	t.Helper()
	ctx := context.Background()

	created, err := f.shiftTemplates.Create(ctx, template)
	require.NoError(t, err)
	_, err = f.shiftAssignments.Create(ctx, shift.StaffShiftAssignment{
		OrgID: testOrgID, UserID: testUserID, ShiftTemplateID: created.ID, EffectiveFrom: from,
	})
	require.NoError(t, err)
	return created
}

func TestResolveShift_NoAssignment(t *testing.T) {
	f := newResolverFixture()

	template, err := f.resolver.ResolveShift(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, template)
}

func TestResolveShift_ActiveAssignment(t *testing.T) {
	f := newResolverFixture()
	created := f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Day", ShiftType: shift.ShiftTypeFixed,
		StartTime: clock(9, 0), EndTime: clock(17, 0), IsActive: true,
	}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	template, err := f.resolver.ResolveShift(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, template)
	assert.Equal(t, created.ID, template.ID)
}

func TestResolveShift_InactiveTemplateResolvesToNothing(t *testing.T) {
	f := newResolverFixture()
	f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Retired", ShiftType: shift.ShiftTypeFixed,
		StartTime: clock(9, 0), EndTime: clock(17, 0), IsActive: false,
	}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	template, err := f.resolver.ResolveShift(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, template)
}

func TestResolveShift_AssignmentNotYetEffective(t *testing.T) {
	f := newResolverFixture()
	f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Day", ShiftType: shift.ShiftTypeFixed,
		StartTime: clock(9, 0), EndTime: clock(17, 0), IsActive: true,
	}, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	template, err := f.resolver.ResolveShift(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, template)
}

func TestRequiredWorkSeconds_FixedShiftSpan(t *testing.T) {
	f := newResolverFixture()
	// 09:00 to 17:30 with a 30 minute buffer.
	f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Day", ShiftType: shift.ShiftTypeFixed,
		StartTime: clock(9, 0), EndTime: clock(17, 30), BufferMinutes: 30, IsActive: true,
	}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	seconds, err := f.resolver.RequiredWorkSeconds(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 8*3600, seconds)
}

func TestRequiredWorkSeconds_WrappingNightShift(t *testing.T) {
	f := newResolverFixture()
	// 22:00 to 06:00 crosses midnight.
	f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Night", ShiftType: shift.ShiftTypeRotational,
		StartTime: clock(22, 0), EndTime: clock(6, 0), IsActive: true,
	}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	seconds, err := f.resolver.RequiredWorkSeconds(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 8*3600, seconds)
}

func TestRequiredWorkSeconds_OpenShiftTarget(t *testing.T) {
	f := newResolverFixture()
	f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Flexible", ShiftType: shift.ShiftTypeOpen,
		WorkMinutes: 450, IsActive: true,
	}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	seconds, err := f.resolver.RequiredWorkSeconds(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 450*60, seconds)
}

func TestRequiredWorkSeconds_NoShiftFallsBackToOrgDefaults(t *testing.T) {
	f := newResolverFixture()
	f.settings.defaults = org.PolicyDefaults{RequiredWorkHours: 9}

	seconds, err := f.resolver.RequiredWorkSeconds(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 9*3600, seconds)
}

func TestRequiredWorkSeconds_MalformedTemplateFallsBack(t *testing.T) {
	f := newResolverFixture()
	// Open shift without a target cannot determine its own seconds.
	f.assignShift(t, shift.ShiftTemplate{
		OrgID: testOrgID, Name: "Broken", ShiftType: shift.ShiftTypeOpen, IsActive: true,
	}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	seconds, err := f.resolver.RequiredWorkSeconds(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 8*3600, seconds)
}

func TestRequiredWorkSeconds_SettingsFailureUsesBuiltInDefault(t *testing.T) {
	f := newResolverFixture()
	f.settings.err = errors.New("connection refused")

	seconds, err := f.resolver.RequiredWorkSeconds(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 8*3600, seconds)
}

func TestResolveAttendanceTemplate(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()

	created, err := f.attendanceTemplates.Create(ctx, shift.AttendanceTemplate{
		OrgID: testOrgID, Name: "Default policy",
		HolidaysRule: shift.HolidaysRuleAllow, EffectiveHoursRule: shift.EffectiveHoursDefault,
		RequirePunchOut: true, IsActive: true,
	})
	require.NoError(t, err)
	_, err = f.attendanceAssignments.Create(ctx, shift.StaffAttendanceAssignment{
		OrgID: testOrgID, UserID: testUserID, AttendanceTemplateID: created.ID,
		EffectiveFrom: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	template, err := f.resolver.ResolveAttendanceTemplate(ctx, testOrgID, testUserID, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, template)
	assert.Equal(t, created.ID, template.ID)

	// Nothing resolves for a user without an assignment.
	other, err := f.resolver.ResolveAttendanceTemplate(ctx, testOrgID, "user-2", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, other)
}
