package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/calendar"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
	"github.com/staffhub-app/staffhub-backend-go/internal/repository/postgresql"
	"golang.org/x/sync/errgroup"
)

// computeCycleConcurrency caps the parallel per-user runs of a cycle
// computation.
const computeCycleConcurrency = 8

type PayrollServiceImpl struct {
	db *database.DB
	payroll.PayrollRepository
	payroll.SalaryTemplateRepository
	attendanceService   attendance.AttendanceService
	leaveService        leave.LeaveService
	holidayRepository   calendar.HolidayRepository
	weeklyOffRepository calendar.WeeklyOffRepository
}

func NewPayrollService(
	db *database.DB,
	payrollRepository payroll.PayrollRepository,
	salaryTemplateRepository payroll.SalaryTemplateRepository,
	attendanceService attendance.AttendanceService,
	leaveService leave.LeaveService,
	holidayRepository calendar.HolidayRepository,
	weeklyOffRepository calendar.WeeklyOffRepository,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		db:                       db,
		PayrollRepository:        payrollRepository,
		SalaryTemplateRepository: salaryTemplateRepository,
		attendanceService:        attendanceService,
		leaveService:             leaveService,
		holidayRepository:        holidayRepository,
		weeklyOffRepository:      weeklyOffRepository,
	}
}

// ComputeSalaryForUser implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeSalaryForUser(ctx context.Context, orgID, userID string, monthKey string) (payroll.PayrollLineResponse, error) {
	if _, ok := validator.IsValidMonthKey(monthKey); !ok {
		return payroll.PayrollLineResponse{}, payroll.ErrInvalidMonthKey
	}

	earnings, incentives, deductions, err := s.resolveStaffComponents(ctx, orgID, userID, monthKey)
	if err != nil {
		return payroll.PayrollLineResponse{}, err
	}

	resolved, err := ResolveComponents(earnings, incentives, deductions)
	if err != nil {
		return payroll.PayrollLineResponse{}, err
	}

	summary, err := s.buildMonthSummary(ctx, orgID, userID, monthKey)
	if err != nil {
		return payroll.PayrollLineResponse{}, err
	}

	factor := decimal.NewFromFloat(summary.Ratio)
	prorated := resolved.Prorate(factor)
	totalEarnings, totalIncentives, totalDeductions, gross, net := prorated.Totals()

	line := payroll.PayrollLine{
		OrgID:           orgID,
		UserID:          userID,
		Earnings:        prorated.Earnings,
		Incentives:      prorated.Incentives,
		Deductions:      prorated.Deductions,
		TotalEarnings:   totalEarnings,
		TotalIncentives: totalIncentives,
		TotalDeductions: totalDeductions,
		Gross:           gross,
		Net:             net,
		Summary:         summary,
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cycle, err := s.PayrollRepository.GetCycleByMonthForUpdate(txCtx, monthKey, orgID)
		if err != nil {
			return err
		}
		if cycle == nil {
			created, err := s.PayrollRepository.CreateCycle(txCtx, payroll.PayrollCycle{
				OrgID:    orgID,
				MonthKey: monthKey,
				Status:   payroll.CycleStatusDraft,
			})
			if err != nil {
				return err
			}
			cycle = &created
		}
		if cycle.Status != payroll.CycleStatusDraft {
			return payroll.ErrCycleFrozen
		}

		line.CycleID = cycle.ID
		_, err = s.PayrollRepository.UpsertLine(txCtx, line)
		return err
	})
	if err != nil {
		return payroll.PayrollLineResponse{}, err
	}

	return payroll.PayrollLineResponse{
		UserID:          userID,
		MonthKey:        monthKey,
		Earnings:        line.Earnings,
		Incentives:      line.Incentives,
		Deductions:      line.Deductions,
		TotalEarnings:   line.TotalEarnings,
		TotalIncentives: line.TotalIncentives,
		TotalDeductions: line.TotalDeductions,
		Gross:           line.Gross,
		Net:             line.Net,
		Summary:         line.Summary,
	}, nil
}

// resolveStaffComponents picks the user's component source: the
// month-specific override bucket first, then the base snapshot, then
// the snapshot's bound template.
func (s *PayrollServiceImpl) resolveStaffComponents(ctx context.Context, orgID, userID, monthKey string) (earnings, incentives, deductions []payroll.SalaryComponent, err error) {
	override, err := s.SalaryTemplateRepository.GetMonthOverride(ctx, userID, monthKey, orgID)
	if err != nil {
		return nil, nil, nil, err
	}
	if override != nil {
		return override.Earnings, override.Incentives, override.Deductions, nil
	}

	snapshot, err := s.SalaryTemplateRepository.GetStaffSalary(ctx, userID, orgID)
	if err != nil {
		return nil, nil, nil, err
	}
	if snapshot == nil {
		return nil, nil, nil, payroll.ErrStaffSalaryNotFound
	}

	if len(snapshot.Earnings)+len(snapshot.Incentives)+len(snapshot.Deductions) == 0 && snapshot.TemplateID != nil {
		template, err := s.SalaryTemplateRepository.GetByID(ctx, *snapshot.TemplateID, orgID)
		if err != nil {
			return nil, nil, nil, err
		}
		return template.Earnings, template.Incentives, template.Deductions, nil
	}

	return snapshot.Earnings, snapshot.Incentives, snapshot.Deductions, nil
}

// buildMonthSummary classifies every day of the month. Paid holidays
// and weekly offs take precedence over punch data; approved leave days
// carry the paid/unpaid split the settlement produced.
func (s *PayrollServiceImpl) buildMonthSummary(ctx context.Context, orgID, userID, monthKey string) (payroll.AttendanceSummary, error) {
	monthStart, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return payroll.AttendanceSummary{}, payroll.ErrInvalidMonthKey
	}
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	holidays, err := s.holidayRepository.ListRange(ctx, orgID, monthStart, monthEnd)
	if err != nil {
		return payroll.AttendanceSummary{}, err
	}
	paidHolidays := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		if h.IsPaid {
			paidHolidays[h.Date.Format("2006-01-02")] = true
		}
	}

	weeklyOff, err := s.weeklyOffRepository.GetActive(ctx, orgID)
	if err != nil {
		return payroll.AttendanceSummary{}, err
	}

	leaveDays, err := s.leaveService.ApprovedLeaveByDay(ctx, orgID, userID, monthStart, monthEnd)
	if err != nil {
		return payroll.AttendanceSummary{}, err
	}

	summary := payroll.AttendanceSummary{DaysInMonth: daysInMonth}
	for day := monthStart; !day.After(monthEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")

		switch {
		case paidHolidays[key]:
			summary.Holiday++
		case weeklyOff != nil && weeklyOff.IsOffDay(day):
			summary.WeeklyOff++
		case leaveDays[key] == leave.LeaveDayPaid:
			summary.PaidLeave++
		case leaveDays[key] == leave.LeaveDayUnpaid:
			summary.UnpaidLeave++
		default:
			status, err := s.attendanceService.ComputeStatus(ctx, orgID, userID, day)
			if err != nil {
				return payroll.AttendanceSummary{}, err
			}
			switch attendance.DayStatus(status.Status) {
			case attendance.StatusPresent, attendance.StatusOvertime:
				summary.Present++
			case attendance.StatusHalfDay:
				summary.HalfDay++
			case attendance.StatusLeave:
				summary.PaidLeave++
			case attendance.StatusAbsent:
				summary.Absent++
			}
		}
	}

	summary.Ratio = Ratio(summary)
	return summary, nil
}

// ComputeCycle implements payroll.PayrollService. Per-user runs are
// independent and execute concurrently; each run serializes on the
// cycle row when persisting its line.
func (s *PayrollServiceImpl) ComputeCycle(ctx context.Context, orgID string, monthKey string) ([]payroll.PayrollLineResponse, error) {
	if _, ok := validator.IsValidMonthKey(monthKey); !ok {
		return nil, payroll.ErrInvalidMonthKey
	}

	cycle, err := s.PayrollRepository.GetCycleByMonth(ctx, monthKey, orgID)
	if err != nil {
		return nil, err
	}
	if cycle != nil && cycle.Status != payroll.CycleStatusDraft {
		return nil, payroll.ErrCycleFrozen
	}

	userIDs, err := s.PayrollRepository.ListCycleUserIDs(ctx, orgID)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		lines []payroll.PayrollLineResponse
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(computeCycleConcurrency)

	for _, userID := range userIDs {
		g.Go(func() error {
			line, err := s.ComputeSalaryForUser(gCtx, orgID, userID, monthKey)
			if err != nil {
				return fmt.Errorf("user %s: %w", userID, err)
			}
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lines, nil
}

// PreviewTemplateCalculation implements payroll.PayrollService. Shares
// the component-resolution path with the full engine; only the
// attendance factor is supplied by the caller.
func (s *PayrollServiceImpl) PreviewTemplateCalculation(ctx context.Context, orgID string, req payroll.PreviewRequest) (payroll.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewResponse{}, err
	}

	template, err := s.SalaryTemplateRepository.GetByID(ctx, req.TemplateID, orgID)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	resolved, err := ResolveComponents(template.Earnings, template.Incentives, template.Deductions)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	factor := PreviewFactor(req.Attendance)
	prorated := resolved.Prorate(decimal.NewFromFloat(factor))
	totalEarnings, totalIncentives, totalDeductions, gross, net := prorated.Totals()

	return payroll.PreviewResponse{
		Earnings:        prorated.Earnings,
		Incentives:      prorated.Incentives,
		Deductions:      prorated.Deductions,
		TotalEarnings:   totalEarnings,
		TotalIncentives: totalIncentives,
		TotalDeductions: totalDeductions,
		Gross:           gross,
		Net:             net,
		Factor:          factor,
		Attendance:      req.Attendance,
	}, nil
}

// LockCycle implements payroll.PayrollService.
func (s *PayrollServiceImpl) LockCycle(ctx context.Context, orgID string, monthKey string) error {
	return s.transitionCycle(ctx, orgID, monthKey, payroll.CycleStatusDraft, payroll.CycleStatusLocked)
}

// MarkCyclePaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkCyclePaid(ctx context.Context, orgID string, monthKey string) error {
	return s.transitionCycle(ctx, orgID, monthKey, payroll.CycleStatusLocked, payroll.CycleStatusPaid)
}

func (s *PayrollServiceImpl) transitionCycle(ctx context.Context, orgID, monthKey string, from, to payroll.CycleStatus) error {
	if _, ok := validator.IsValidMonthKey(monthKey); !ok {
		return payroll.ErrInvalidMonthKey
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cycle, err := s.PayrollRepository.GetCycleByMonthForUpdate(txCtx, monthKey, orgID)
		if err != nil {
			return err
		}
		if cycle == nil {
			return payroll.ErrCycleNotFound
		}
		if cycle.Status != from {
			return payroll.ErrInvalidCycleTransition
		}
		return s.PayrollRepository.UpdateCycleStatus(txCtx, cycle.ID, orgID, to)
	})
}

// CreateTemplate implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateTemplate(ctx context.Context, orgID string, req payroll.CreateSalaryTemplateRequest) (payroll.SalaryTemplate, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryTemplate{}, err
	}

	template := payroll.SalaryTemplate{
		OrgID:      orgID,
		Name:       req.Name,
		Earnings:   toComponents(req.Earnings),
		Incentives: toComponents(req.Incentives),
		Deductions: toComponents(req.Deductions),
		IsActive:   true,
	}

	// Reject templates whose percent components can never resolve.
	if _, err := ResolveComponents(template.Earnings, template.Incentives, template.Deductions); err != nil {
		return payroll.SalaryTemplate{}, err
	}

	created, err := s.SalaryTemplateRepository.Create(ctx, template)
	if err != nil {
		return payroll.SalaryTemplate{}, fmt.Errorf("failed to create salary template: %w", err)
	}

	return created, nil
}

// ListTemplates implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListTemplates(ctx context.Context, orgID string) ([]payroll.SalaryTemplate, error) {
	return s.SalaryTemplateRepository.List(ctx, orgID)
}

// AssignStaffSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) AssignStaffSalary(ctx context.Context, orgID string, req payroll.AssignStaffSalaryRequest) (payroll.StaffSalary, error) {
	if err := req.Validate(); err != nil {
		return payroll.StaffSalary{}, err
	}

	if req.TemplateID != nil {
		if _, err := s.SalaryTemplateRepository.GetByID(ctx, *req.TemplateID, orgID); err != nil {
			return payroll.StaffSalary{}, err
		}
	}

	salary := payroll.StaffSalary{
		OrgID:      orgID,
		UserID:     req.UserID,
		TemplateID: req.TemplateID,
		MonthKey:   req.MonthKey,
		Earnings:   toComponents(req.Earnings),
		Incentives: toComponents(req.Incentives),
		Deductions: toComponents(req.Deductions),
	}

	// Explicit components must resolve; a bad snapshot would otherwise
	// only surface at computation time.
	if len(salary.Earnings)+len(salary.Incentives)+len(salary.Deductions) > 0 {
		if _, err := ResolveComponents(salary.Earnings, salary.Incentives, salary.Deductions); err != nil {
			return payroll.StaffSalary{}, err
		}
	}

	stored, err := s.SalaryTemplateRepository.UpsertStaffSalary(ctx, salary)
	if err != nil {
		return payroll.StaffSalary{}, fmt.Errorf("failed to store staff salary: %w", err)
	}

	return stored, nil
}

func toComponents(reqs []payroll.SalaryComponentRequest) []payroll.SalaryComponent {
	components := make([]payroll.SalaryComponent, 0, len(reqs))
	for _, r := range reqs {
		components = append(components, payroll.SalaryComponent{
			Key:     r.Key,
			Label:   r.Label,
			Type:    payroll.ComponentType(r.Type),
			Value:   r.Value,
			BasedOn: r.BasedOn,
		})
	}
	return components
}
