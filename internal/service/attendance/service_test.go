package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/calendar"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID  = "org-1"
	testUserID = "user-1"
	testProof  = "https://storage.example.com/proof.jpg"
)

type fakeAttendanceRepo struct {
	records map[string]*attendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func (f *fakeAttendanceRepo) key(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.nextID++
	att.ID = fmt.Sprintf("att-%d", f.nextID)
	copied := att
	f.records[f.key(att.UserID, att.Date)] = &copied
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string, _ string) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.ID == id {
			return *r, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time, _ string) (*attendance.Attendance, error) {
	if r, ok := f.records[f.key(userID, date)]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time, orgID string) (*attendance.Attendance, error) {
	return f.GetByUserAndDate(ctx, userID, date, orgID)
}

func (f *fakeAttendanceRepo) Update(_ context.Context, att attendance.Attendance) error {
	key := f.key(att.UserID, att.Date)
	if _, ok := f.records[key]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	copied := att
	f.records[key] = &copied
	return nil
}

func (f *fakeAttendanceRepo) ListRange(_ context.Context, userID string, from, to time.Time, _ string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.UserID == userID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListOpenBefore(_ context.Context, orgID string, cutoff time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.OrgID == orgID && r.Date.Before(cutoff) && r.PunchedInAt != nil && r.PunchedOutAt == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

type stubResolver struct {
	shiftTemplate      *shift.ShiftTemplate
	attendanceTemplate *shift.AttendanceTemplate
	required           int
}

func (s *stubResolver) ResolveShift(context.Context, string, string, time.Time) (*shift.ShiftTemplate, error) {
	return s.shiftTemplate, nil
}

func (s *stubResolver) ResolveAttendanceTemplate(context.Context, string, string, time.Time) (*shift.AttendanceTemplate, error) {
	return s.attendanceTemplate, nil
}

func (s *stubResolver) RequiredWorkSeconds(context.Context, string, string, time.Time) (int, error) {
	return s.required, nil
}

type stubLeaveChecker struct {
	onLeave map[string]bool
}

func (s *stubLeaveChecker) IsOnApprovedLeave(_ context.Context, _, _ string, date time.Time) (bool, error) {
	return s.onLeave[date.Format("2006-01-02")], nil
}

type stubHolidayRepo struct {
	holidays map[string]calendar.Holiday
}

func (s *stubHolidayRepo) Create(_ context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	return h, nil
}

func (s *stubHolidayRepo) GetByDate(_ context.Context, _ string, date time.Time) (*calendar.Holiday, error) {
	if h, ok := s.holidays[date.Format("2006-01-02")]; ok {
		return &h, nil
	}
	return nil, nil
}

func (s *stubHolidayRepo) ListRange(context.Context, string, time.Time, time.Time) ([]calendar.Holiday, error) {
	return nil, nil
}

type stubSettingsRepo struct {
	defaults org.PolicyDefaults
}

func (s *stubSettingsRepo) Get(context.Context, string, string) (string, error) {
	return "", org.ErrSettingNotFound
}

func (s *stubSettingsRepo) Upsert(context.Context, org.AppSetting) error { return nil }

func (s *stubSettingsRepo) GetPolicyDefaults(context.Context, string) (org.PolicyDefaults, error) {
	return s.defaults, nil
}

type attendanceFixture struct {
	svc      *AttendanceServiceImpl
	repo     *fakeAttendanceRepo
	resolver *stubResolver
	leave    *stubLeaveChecker
	holidays *stubHolidayRepo
	clock    *time.Time
}

func newAttendanceFixture() *attendanceFixture {
	repo := newFakeAttendanceRepo()
	resolver := &stubResolver{required: 8 * 3600}
	leaveChecker := &stubLeaveChecker{onLeave: make(map[string]bool)}
	holidays := &stubHolidayRepo{holidays: make(map[string]calendar.Holiday)}
	settings := &stubSettingsRepo{defaults: org.PolicyDefaults{RequiredWorkHours: 8, MaxBreakMinutes: 30}}

	svc := NewAttendanceService(nil, repo, resolver, leaveChecker, holidays, settings)

	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	f := &attendanceFixture{svc: svc, repo: repo, resolver: resolver, leave: leaveChecker, holidays: holidays, clock: &now}
	svc.now = func() time.Time { return *f.clock }
	return f
}

func (f *attendanceFixture) advanceTo(hour, minute int) {
	t := *f.clock
	*f.clock = time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, time.UTC)
}

func TestPunchIn_CreatesOpenRecord(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	resp, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	assert.Equal(t, "2025-06-16", resp.Date)
	assert.NotNil(t, resp.PunchedInAt)
	assert.Nil(t, resp.PunchedOutAt)
	assert.Equal(t, string(attendance.StatusNA), resp.Status)
}

func TestPunchIn_RequiresProofPhoto(t *testing.T) {
	f := newAttendanceFixture()

	_, err := f.svc.PunchIn(context.Background(), testOrgID, testUserID, attendance.PunchInRequest{})
	assert.ErrorIs(t, err, attendance.ErrProofPhotoRequired)
}

func TestPunchIn_TwiceConflicts(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestPunchIn_BlockedOnApprovedLeave(t *testing.T) {
	f := newAttendanceFixture()
	f.leave.onLeave["2025-06-16"] = true

	_, err := f.svc.PunchIn(context.Background(), testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrOnApprovedLeave)
}

func TestPunchIn_BlockedOnPaidHolidayWhenDisallowed(t *testing.T) {
	f := newAttendanceFixture()
	f.resolver.attendanceTemplate = &shift.AttendanceTemplate{
		HolidaysRule:       shift.HolidaysRuleDisallow,
		EffectiveHoursRule: shift.EffectiveHoursDefault,
		IsActive:           true,
	}
	f.holidays.holidays["2025-06-16"] = calendar.Holiday{Date: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), Name: "Founders Day", IsPaid: true}

	_, err := f.svc.PunchIn(context.Background(), testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrHolidayPunchBlocked)
}

func TestPunchIn_TooEarlyForFixedShift(t *testing.T) {
	f := newAttendanceFixture()
	earliest := time.Date(0, 1, 1, 8, 30, 0, 0, time.UTC)
	f.resolver.shiftTemplate = &shift.ShiftTemplate{
		ShiftType:           shift.ShiftTypeFixed,
		EarliestPunchInTime: &earliest,
		IsActive:            true,
	}
	f.advanceTo(7, 45)

	_, err := f.svc.PunchIn(context.Background(), testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrTooEarlyToPunchIn)
}

func TestPunchOut_WithoutPunchIn(t *testing.T) {
	f := newAttendanceFixture()

	_, err := f.svc.PunchOut(context.Background(), testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)
}

// Required 8h, punch 09:00 to 17:30 with a 20 minute break inside the
// 30 minute allowance: overtime of half an hour.
func TestFullDay_OvertimeWithAllowedBreak(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	f.advanceTo(12, 0)
	_, err = f.svc.StartBreak(ctx, testOrgID, testUserID)
	require.NoError(t, err)

	f.advanceTo(12, 20)
	resp, err := f.svc.EndBreak(ctx, testOrgID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 20*60, resp.BreakTotalSeconds)

	f.advanceTo(17, 30)
	resp, err = f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusOvertime), resp.Status)
	assert.Equal(t, 30, resp.OvertimeMinutes)
	assert.InDelta(t, 8.5, resp.EffectiveHours, 0.001)
}

// Four hours of work against an eight hour target: half day.
func TestFullDay_HalfDay(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	f.advanceTo(13, 0)
	resp, err := f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusHalfDay), resp.Status)
	assert.InDelta(t, 4.0, resp.EffectiveHours, 0.001)
	assert.Equal(t, 0, resp.OvertimeMinutes)
}

func TestPunchOut_RepeatWithoutMultiplePunches(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	f.advanceTo(17, 0)
	_, err = f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	_, err = f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
}

func TestPunchOut_AutoClosesRunningBreak(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	f.advanceTo(16, 0)
	_, err = f.svc.StartBreak(ctx, testOrgID, testUserID)
	require.NoError(t, err)

	f.advanceTo(17, 0)
	resp, err := f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	assert.False(t, resp.IsOnBreak)
	assert.Equal(t, 3600, resp.BreakTotalSeconds)
}

func TestPunchOut_WindowEnforced(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()
	minAfter, maxAfter := 240, 600
	f.resolver.shiftTemplate = &shift.ShiftTemplate{
		ShiftType:               shift.ShiftTypeFixed,
		MinPunchOutAfterMinutes: &minAfter,
		MaxPunchOutAfterMinutes: &maxAfter,
		IsActive:                true,
	}

	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	f.advanceTo(10, 0)
	_, err = f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrPunchOutTooEarly)

	f.advanceTo(20, 0)
	_, err = f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	assert.ErrorIs(t, err, attendance.ErrPunchOutWindowOver)
}

func TestBreak_StateMachine(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, testOrgID, testUserID)
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)

	_, err = f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	_, err = f.svc.EndBreak(ctx, testOrgID, testUserID)
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)

	_, err = f.svc.StartBreak(ctx, testOrgID, testUserID)
	require.NoError(t, err)

	_, err = f.svc.StartBreak(ctx, testOrgID, testUserID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnBreak)
}

// A day inside an approved-leave range with no punch record classifies
// as LEAVE with zero hours.
func TestComputeStatus_ApprovedLeaveDay(t *testing.T) {
	f := newAttendanceFixture()
	f.leave.onLeave["2025-06-10"] = true

	resp, err := f.svc.ComputeStatus(context.Background(), testOrgID, testUserID, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusLeave), resp.Status)
	assert.Zero(t, resp.TotalWorkHours)
	assert.Zero(t, resp.EffectiveHours)
	assert.Zero(t, resp.OvertimeMinutes)
}

func TestComputeStatus_PastDayAbsent_FutureNA(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	past, err := f.svc.ComputeStatus(ctx, testOrgID, testUserID, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusAbsent), past.Status)

	future, err := f.svc.ComputeStatus(ctx, testOrgID, testUserID, time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusNA), future.Status)
}

func TestOverrideDay_WinsOverComputed(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.OverrideDay(ctx, testOrgID, "admin-1", attendance.OverrideDayRequest{
		UserID: testUserID,
		Date:   "2025-06-02",
		Status: string(attendance.StatusHalfDay),
		Reason: "worked offsite without punching",
	})
	require.NoError(t, err)

	resp, err := f.svc.ComputeStatus(ctx, testOrgID, testUserID, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusHalfDay), resp.Status)
	assert.True(t, resp.IsAdminOverride)
	require.NotNil(t, resp.OverrideReason)
	assert.Equal(t, "worked offsite without punching", *resp.OverrideReason)
}

func TestOverrideDay_RejectsOtherStatuses(t *testing.T) {
	f := newAttendanceFixture()

	_, err := f.svc.OverrideDay(context.Background(), testOrgID, "admin-1", attendance.OverrideDayRequest{
		UserID: testUserID,
		Date:   "2025-06-02",
		Status: string(attendance.StatusAbsent),
		Reason: "x",
	})
	assert.Error(t, err)
}

func TestMonthlyHistory_Tally(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()
	f.leave.onLeave["2025-06-05"] = true

	// One full worked day on the 3rd.
	*f.clock = time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)
	f.advanceTo(17, 0)
	_, err = f.svc.PunchOut(ctx, testOrgID, testUserID, attendance.PunchOutRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	*f.clock = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	history, err := f.svc.MonthlyHistory(ctx, testOrgID, testUserID, "2025-06")
	require.NoError(t, err)

	assert.Len(t, history.Days, 30)
	assert.Equal(t, 1, history.Summary.Present)
	assert.Equal(t, 1, history.Summary.Leave)
	// Days 1..15 minus the worked day and the leave day.
	assert.Equal(t, 13, history.Summary.Absent)
}

func TestFinalizeAbsences_ClosesStaleOpenRecords(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	*f.clock = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.PunchIn(ctx, testOrgID, testUserID, attendance.PunchInRequest{ProofPhotoURL: testProof})
	require.NoError(t, err)

	*f.clock = time.Date(2025, 6, 12, 2, 0, 0, 0, time.UTC)
	closed, err := f.svc.FinalizeAbsences(ctx, testOrgID, *f.clock)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	record, err := f.repo.GetByUserAndDate(ctx, testUserID, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), testOrgID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.NotNil(t, record.PunchedOutAt)
	// Punch-out is required by default: an unclosed day earns nothing.
	assert.Equal(t, attendance.StatusAbsent, record.Status)
}
