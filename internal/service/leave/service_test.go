package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID  = "org-1"
	testUserID = "user-1"
)

type fakeTemplateRepo struct {
	templates   map[string]leave.LeaveTemplate
	assignments map[string]string // userID -> templateID
	nextID      int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		templates:   make(map[string]leave.LeaveTemplate),
		assignments: make(map[string]string),
	}
}

func (f *fakeTemplateRepo) Create(_ context.Context, template leave.LeaveTemplate) (leave.LeaveTemplate, error) {
	f.nextID++
	template.ID = fmt.Sprintf("lt-%d", f.nextID)
	f.templates[template.ID] = template
	return template, nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id string, _ string) (leave.LeaveTemplate, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return leave.LeaveTemplate{}, leave.ErrLeaveTemplateNotFound
}

func (f *fakeTemplateRepo) List(_ context.Context, _ string) ([]leave.LeaveTemplate, error) {
	var out []leave.LeaveTemplate
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Assign(_ context.Context, a leave.StaffLeaveAssignment) (leave.StaffLeaveAssignment, error) {
	f.assignments[a.UserID] = a.LeaveTemplateID
	a.ID = "la-" + a.UserID
	return a, nil
}

func (f *fakeTemplateRepo) GetActiveForDate(_ context.Context, userID string, _ time.Time, _ string) (*leave.LeaveTemplate, error) {
	id, ok := f.assignments[userID]
	if !ok {
		return nil, nil
	}
	t := f.templates[id]
	return &t, nil
}

type fakeBalanceRepo struct {
	balances map[string]*leave.LeaveBalance
	nextID   int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*leave.LeaveBalance)}
}

func (f *fakeBalanceRepo) key(userID, categoryKey string, cycleStart time.Time) string {
	return userID + "|" + categoryKey + "|" + cycleStart.Format("2006-01-02")
}

func (f *fakeBalanceRepo) Create(_ context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	f.nextID++
	b.ID = fmt.Sprintf("bal-%d", f.nextID)
	copied := b
	f.balances[f.key(b.UserID, b.CategoryKey, b.CycleStart)] = &copied
	return b, nil
}

func (f *fakeBalanceRepo) GetForCycle(_ context.Context, userID, categoryKey string, cycleStart time.Time, _ string) (*leave.LeaveBalance, error) {
	if b, ok := f.balances[f.key(userID, categoryKey, cycleStart)]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBalanceRepo) GetForCycleForUpdate(ctx context.Context, userID, categoryKey string, cycleStart time.Time, orgID string) (*leave.LeaveBalance, error) {
	return f.GetForCycle(ctx, userID, categoryKey, cycleStart, orgID)
}

func (f *fakeBalanceRepo) Update(_ context.Context, b leave.LeaveBalance) error {
	copied := b
	f.balances[f.key(b.UserID, b.CategoryKey, b.CycleStart)] = &copied
	return nil
}

type fakeRequestRepo struct {
	requests map[string]*leave.LeaveRequest
	nextID   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*leave.LeaveRequest)}
}

func (f *fakeRequestRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.nextID++
	r.ID = fmt.Sprintf("req-%d", f.nextID)
	copied := r
	f.requests[r.ID] = &copied
	return r, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string, _ string) (leave.LeaveRequest, error) {
	if r, ok := f.requests[id]; ok {
		return *r, nil
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (f *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string, orgID string) (leave.LeaveRequest, error) {
	return f.GetByID(ctx, id, orgID)
}

func (f *fakeRequestRepo) Update(_ context.Context, r leave.LeaveRequest) error {
	if _, ok := f.requests[r.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	copied := r
	f.requests[r.ID] = &copied
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := f.requests[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) FindApprovedCovering(_ context.Context, userID string, date time.Time, _ string) (*leave.LeaveRequest, error) {
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == leave.RequestStatusApproved && r.Covers(date) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) ListApprovedOverlapping(_ context.Context, userID string, from, to time.Time, _ string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == leave.RequestStatusApproved &&
			!r.StartDate.After(to) && !r.EndDate.Before(from) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) SumApprovedDays(_ context.Context, userID, categoryKey string, from, to time.Time, _ string) (int, error) {
	total := 0
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == leave.RequestStatusApproved &&
			r.CategoryKey != nil && *r.CategoryKey == categoryKey &&
			!r.StartDate.Before(from) && !r.StartDate.After(to) {
			total += r.Days
		}
	}
	return total, nil
}

func (f *fakeRequestRepo) ListForUser(_ context.Context, userID string, _ string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type leaveFixture struct {
	svc       *LeaveServiceImpl
	templates *fakeTemplateRepo
	balances  *fakeBalanceRepo
	requests  *fakeRequestRepo
}

func newLeaveFixture() *leaveFixture {
	templates := newFakeTemplateRepo()
	balances := newFakeBalanceRepo()
	requests := newFakeRequestRepo()

	svc := NewLeaveService(nil, templates, balances, requests)
	svc.now = func() time.Time { return time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC) }

	return &leaveFixture{svc: svc, templates: templates, balances: balances, requests: requests}
}

// seedTemplate creates a monthly template with a sick category of six
// days requiring a single approval, assigned to the test user.
func (f *leaveFixture) seedTemplate(t *testing.T, approvalLevel int) leave.LeaveTemplate {
	t.Helper()
	ctx := context.Background()

	template, err := f.templates.Create(ctx, leave.LeaveTemplate{
		OrgID:         testOrgID,
		Name:          "Standard",
		Cycle:         leave.CycleMonthly,
		ApprovalLevel: approvalLevel,
		IsActive:      true,
		Categories: []leave.TemplateCategory{
			{Key: "sick", Name: "Sick Leave", LeaveCount: 6, UnusedRule: leave.UnusedRuleLapse},
			{Key: "casual", Name: "Casual Leave", LeaveCount: 4, UnusedRule: leave.UnusedRuleLapse},
		},
	})
	require.NoError(t, err)
	f.templates.assignments[testUserID] = template.ID
	return template
}

func strPtr(s string) *string { return &s }

func TestCreateRequest_InclusiveDaysAndLevel(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 2)

	resp, err := f.svc.CreateRequest(context.Background(), testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-12",
		LeaveType:   "sick",
		CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, string(leave.RequestStatusPending), resp.Status)
	assert.Equal(t, 2, resp.ApprovalLevelRequired)
	assert.Equal(t, 0, resp.ApprovalLevelDone)
}

func TestCreateRequest_UnknownCategoryRejected(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)

	_, err := f.svc.CreateRequest(context.Background(), testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-10",
		LeaveType:   "other",
		CategoryKey: strPtr("sabbatical"),
	})
	assert.ErrorIs(t, err, leave.ErrCategoryNotInTemplate)
}

func TestCreateRequest_DefaultsToSingleLevelWithoutTemplate(t *testing.T) {
	f := newLeaveFixture()

	resp, err := f.svc.CreateRequest(context.Background(), testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10",
		EndDate:   "2025-06-10",
		LeaveType: "unpaid",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ApprovalLevelRequired)
}

// Six sick days with three already used: an eight day request settles
// as three paid and five unpaid on final approval.
func TestApprove_ClampsPaidDaysToRemaining(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	cycleStart, cycleEnd := CycleRange(leave.CycleMonthly, date(2025, time.June, 1))
	seeded := leave.LeaveBalance{
		OrgID: testOrgID, UserID: testUserID, CategoryKey: "sick",
		CycleStart: cycleStart, CycleEnd: cycleEnd,
		Allocated: 6, Used: 3,
	}
	seeded.Recalc()
	_, err := f.balances.Create(ctx, seeded)
	require.NoError(t, err)

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate:   "2025-06-09",
		EndDate:     "2025-06-16",
		LeaveType:   "sick",
		CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)
	require.Equal(t, 8, created.Days)

	resp, err := f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusApproved), resp.Status)
	assert.Equal(t, 3, resp.PaidDays)
	assert.Equal(t, 5, resp.UnpaidDays)
	assert.Equal(t, resp.Days, resp.PaidDays+resp.UnpaidDays)

	balance, err := f.balances.GetForCycle(ctx, testUserID, "sick", cycleStart, testOrgID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, 6, balance.Used)
	assert.Equal(t, 0, balance.Remaining)
}

func TestApprove_MultiLevelStaysPendingUntilFinal(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 3)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-11",
		LeaveType:   "sick",
		CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)

	for level := 1; level <= 2; level++ {
		resp, err := f.svc.Approve(ctx, testOrgID, created.ID, fmt.Sprintf("manager-%d", level), nil)
		require.NoError(t, err)
		assert.Equal(t, string(leave.RequestStatusPending), resp.Status)
		assert.Equal(t, level, resp.ApprovalLevelDone)
	}

	resp, err := f.svc.Approve(ctx, testOrgID, created.ID, "manager-3", nil)
	require.NoError(t, err)
	assert.Equal(t, string(leave.RequestStatusApproved), resp.Status)
	assert.Equal(t, 3, resp.ApprovalLevelDone)
	assert.Equal(t, 2, resp.PaidDays)
	assert.Equal(t, 0, resp.UnpaidDays)
}

func TestApprove_SeedsBalanceWhenMissing(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-13",
		LeaveType:   "sick",
		CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)

	resp, err := f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.PaidDays)
	assert.Equal(t, 0, resp.UnpaidDays)

	cycleStart, _ := CycleRange(leave.CycleMonthly, date(2025, time.June, 1))
	balance, err := f.balances.GetForCycle(ctx, testUserID, "sick", cycleStart, testOrgID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, 6, balance.Allocated)
	assert.Equal(t, 4, balance.Used)
	assert.Equal(t, 2, balance.Remaining)
}

func TestApprove_UnpaidCategorySettlesFullyUnpaid(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
		LeaveType: "unpaid",
	})
	require.NoError(t, err)

	resp, err := f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.PaidDays)
	assert.Equal(t, 3, resp.UnpaidDays)
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10", EndDate: "2025-06-10", LeaveType: "unpaid",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
}

func TestReject_TerminalWithoutBalanceMutation(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10", EndDate: "2025-06-12", LeaveType: "sick", CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)

	resp, err := f.svc.Reject(ctx, testOrgID, created.ID, "manager-1", strPtr("short staffed"))
	require.NoError(t, err)
	assert.Equal(t, string(leave.RequestStatusRejected), resp.Status)

	cycleStart, _ := CycleRange(leave.CycleMonthly, date(2025, time.June, 1))
	balance, err := f.balances.GetForCycle(ctx, testUserID, "sick", cycleStart, testOrgID)
	require.NoError(t, err)
	assert.Nil(t, balance)

	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
}

func TestCancel_OnlyOwnerAndOnlyPending(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10", EndDate: "2025-06-10", LeaveType: "unpaid",
	})
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, testOrgID, created.ID, "someone-else")
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	require.NoError(t, f.svc.Cancel(ctx, testOrgID, created.ID, testUserID))

	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestCancel_ApprovedRequestRefused(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10", EndDate: "2025-06-10", LeaveType: "unpaid",
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, testOrgID, created.ID, testUserID)
	assert.ErrorIs(t, err, leave.ErrCancelNotPending)
}

func TestCategories_AppendsUnlimitedUnpaid(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)

	categories, err := f.svc.Categories(context.Background(), testOrgID, testUserID, date(2025, time.June, 16))
	require.NoError(t, err)

	require.Len(t, categories, 3)
	assert.Equal(t, "sick", categories[0].Key)
	assert.Equal(t, 6, categories[0].Total)
	last := categories[len(categories)-1]
	assert.Equal(t, leave.CategoryKeyUnpaid, last.Key)
	assert.True(t, last.Unlimited)
}

func TestCategories_DerivesUsedFromApprovedRequests(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-02", EndDate: "2025-06-03", LeaveType: "sick", CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	// Remove the balance row so `used` must be derived from requests.
	f.balances.balances = make(map[string]*leave.LeaveBalance)

	categories, err := f.svc.Categories(ctx, testOrgID, testUserID, date(2025, time.June, 16))
	require.NoError(t, err)
	assert.Equal(t, 2, categories[0].Used)
	assert.Equal(t, 4, categories[0].Remaining)
}

func TestIsOnApprovedLeave(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-10", EndDate: "2025-06-12", LeaveType: "unpaid",
	})
	require.NoError(t, err)

	on, err := f.svc.IsOnApprovedLeave(ctx, testOrgID, testUserID, date(2025, time.June, 11))
	require.NoError(t, err)
	assert.False(t, on, "pending requests do not cover dates")

	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	on, err = f.svc.IsOnApprovedLeave(ctx, testOrgID, testUserID, date(2025, time.June, 11))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = f.svc.IsOnApprovedLeave(ctx, testOrgID, testUserID, date(2025, time.June, 13))
	require.NoError(t, err)
	assert.False(t, on)
}

// A settled 3 paid / 2 unpaid request maps its first three dates to
// paid and the last two to unpaid.
func TestApprovedLeaveByDay_SplitsPerSettlement(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	cycleStart, cycleEnd := CycleRange(leave.CycleMonthly, date(2025, time.June, 1))
	seeded := leave.LeaveBalance{
		OrgID: testOrgID, UserID: testUserID, CategoryKey: "sick",
		CycleStart: cycleStart, CycleEnd: cycleEnd, Allocated: 6, Used: 3,
	}
	seeded.Recalc()
	_, err := f.balances.Create(ctx, seeded)
	require.NoError(t, err)

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-06-09", EndDate: "2025-06-13", LeaveType: "sick", CategoryKey: strPtr("sick"),
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	days, err := f.svc.ApprovedLeaveByDay(ctx, testOrgID, testUserID, date(2025, time.June, 1), date(2025, time.June, 30))
	require.NoError(t, err)

	require.Len(t, days, 5)
	assert.Equal(t, leave.LeaveDayPaid, days["2025-06-09"])
	assert.Equal(t, leave.LeaveDayPaid, days["2025-06-10"])
	assert.Equal(t, leave.LeaveDayPaid, days["2025-06-11"])
	assert.Equal(t, leave.LeaveDayUnpaid, days["2025-06-12"])
	assert.Equal(t, leave.LeaveDayUnpaid, days["2025-06-13"])
}

func TestApprovedLeaveByDay_ClipsToRange(t *testing.T) {
	f := newLeaveFixture()
	f.seedTemplate(t, 1)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, testOrgID, testUserID, leave.CreateLeaveRequestRequest{
		StartDate: "2025-05-30", EndDate: "2025-06-02", LeaveType: "unpaid",
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, testOrgID, created.ID, "manager-1", nil)
	require.NoError(t, err)

	days, err := f.svc.ApprovedLeaveByDay(ctx, testOrgID, testUserID, date(2025, time.June, 1), date(2025, time.June, 30))
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Contains(t, days, "2025-06-01")
	assert.Contains(t, days, "2025-06-02")
}
