package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/calendar"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
	"github.com/staffhub-app/staffhub-backend-go/internal/repository/postgresql"
)

// LeaveChecker is the slice of the leave ledger the attendance engine
// needs: whether an approved request covers a date.
type LeaveChecker interface {
	IsOnApprovedLeave(ctx context.Context, orgID, userID string, date time.Time) (bool, error)
}

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	resolver           shift.PolicyResolver
	leaveService       LeaveChecker
	holidayRepository  calendar.HolidayRepository
	settingsRepository org.SettingsRepository
	now                func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepository attendance.AttendanceRepository,
	resolver shift.PolicyResolver,
	leaveService LeaveChecker,
	holidayRepository calendar.HolidayRepository,
	settingsRepository org.SettingsRepository,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepository,
		resolver:             resolver,
		leaveService:         leaveService,
		holidayRepository:    holidayRepository,
		settingsRepository:   settingsRepository,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}

func toAttendanceResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                att.ID,
		UserID:            att.UserID,
		Date:              att.Date.Format("2006-01-02"),
		PunchedInAt:       timePtrToString(att.PunchedInAt),
		PunchedOutAt:      timePtrToString(att.PunchedOutAt),
		IsOnBreak:         att.IsOnBreak,
		BreakTotalSeconds: att.BreakTotalSeconds,
		TotalWorkHours:    float64(att.TotalWorkSeconds) / 3600,
		EffectiveHours:    float64(att.EffectiveSeconds) / 3600,
		OvertimeMinutes:   att.OvertimeMinutes,
		Status:            string(att.Status),
		OverrideReason:    att.OverrideReason,
	}
}

// PunchIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchIn(ctx context.Context, orgID, userID string, req attendance.PunchInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	date := dateOnly(now)

	onLeave, err := s.leaveService.IsOnApprovedLeave(ctx, orgID, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check approved leave: %w", err)
	}
	if onLeave {
		return attendance.AttendanceResponse{}, attendance.ErrOnApprovedLeave
	}

	template, err := s.resolver.ResolveAttendanceTemplate(ctx, orgID, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if template != nil && template.HolidaysRule == shift.HolidaysRuleDisallow {
		holiday, err := s.holidayRepository.GetByDate(ctx, orgID, date)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to check holiday: %w", err)
		}
		if holiday != nil && holiday.IsPaid {
			return attendance.AttendanceResponse{}, attendance.ErrHolidayPunchBlocked
		}
	}

	shiftTemplate, err := s.resolver.ResolveShift(ctx, orgID, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if shiftTemplate != nil && shiftTemplate.ShiftType != shift.ShiftTypeOpen && shiftTemplate.EarliestPunchInTime != nil {
		earliest := *shiftTemplate.EarliestPunchInTime
		nowMinutes := now.Hour()*60 + now.Minute()
		earliestMinutes := earliest.Hour()*60 + earliest.Minute()
		if nowMinutes < earliestMinutes {
			return attendance.AttendanceResponse{}, attendance.ErrTooEarlyToPunchIn
		}
	}

	var created attendance.Attendance
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDateForUpdate(txCtx, userID, date, orgID)
		if err != nil {
			return err
		}
		if existing != nil && existing.PunchedInAt != nil {
			return attendance.ErrAlreadyPunchedIn
		}

		record := attendance.Attendance{
			OrgID:           orgID,
			UserID:          userID,
			Date:            date,
			PunchedInAt:     &now,
			PunchInProofURL: &req.ProofPhotoURL,
			Status:          attendance.StatusNA,
		}

		if existing != nil {
			record.ID = existing.ID
			record.OverrideStatus = existing.OverrideStatus
			record.OverrideReason = existing.OverrideReason
			record.OverrideBy = existing.OverrideBy
			if err := s.AttendanceRepository.Update(txCtx, record); err != nil {
				return err
			}
			created = record
			return nil
		}

		created, err = s.AttendanceRepository.Create(txCtx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(created), nil
}

// PunchOut implements attendance.AttendanceService. Closes the day's
// record: an open break is folded into the break total, then effective
// seconds, status and overtime are computed and frozen on the row.
func (s *AttendanceServiceImpl) PunchOut(ctx context.Context, orgID, userID string, req attendance.PunchOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	date := dateOnly(now)

	template, err := s.resolver.ResolveAttendanceTemplate(ctx, orgID, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	shiftTemplate, err := s.resolver.ResolveShift(ctx, orgID, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	required, err := s.resolver.RequiredWorkSeconds(ctx, orgID, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	defaults, err := s.policyDefaults(ctx, orgID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var updated attendance.Attendance
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		record, err := s.AttendanceRepository.GetByUserAndDateForUpdate(txCtx, userID, date, orgID)
		if err != nil {
			return err
		}
		if record == nil || record.PunchedInAt == nil {
			return attendance.ErrNotPunchedIn
		}
		if record.PunchedOutAt != nil && (template == nil || !template.AllowMultiplePunches) {
			return attendance.ErrAlreadyPunchedOut
		}

		if shiftTemplate != nil {
			elapsedMinutes := int(now.Sub(*record.PunchedInAt).Minutes())
			if shiftTemplate.MinPunchOutAfterMinutes != nil && elapsedMinutes < *shiftTemplate.MinPunchOutAfterMinutes {
				return attendance.ErrPunchOutTooEarly
			}
			if shiftTemplate.MaxPunchOutAfterMinutes != nil && elapsedMinutes > *shiftTemplate.MaxPunchOutAfterMinutes {
				return attendance.ErrPunchOutWindowOver
			}
		}

		if record.IsOnBreak && record.BreakStartedAt != nil {
			record.BreakTotalSeconds += int(now.Sub(*record.BreakStartedAt).Seconds())
			record.IsOnBreak = false
			record.BreakStartedAt = nil
		}

		record.PunchedOutAt = &now
		record.PunchOutProofURL = &req.ProofPhotoURL
		record.TotalWorkSeconds = record.PunchSpanSeconds(now)

		rule := shift.EffectiveHoursDefault
		if template != nil {
			rule = template.EffectiveHoursRule
		}
		record.EffectiveSeconds = EffectiveWorkingSeconds(
			record.TotalWorkSeconds, record.BreakTotalSeconds, required, defaults.MaxBreakMinutes, rule)
		record.OvertimeMinutes = OvertimeMinutes(record.EffectiveSeconds, required)
		record.Status = ClassifyDay(DayFacts{
			HasPunch:         true,
			EffectiveSeconds: record.EffectiveSeconds,
			RequiredSeconds:  required,
			IsPast:           true,
		})
		if record.OverrideStatus != nil {
			record.Status = *record.OverrideStatus
		}

		if err := s.AttendanceRepository.Update(txCtx, *record); err != nil {
			return err
		}
		updated = *record
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(updated), nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, orgID, userID string) (attendance.AttendanceResponse, error) {
	return s.mutateBreak(ctx, orgID, userID, true)
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, orgID, userID string) (attendance.AttendanceResponse, error) {
	return s.mutateBreak(ctx, orgID, userID, false)
}

func (s *AttendanceServiceImpl) mutateBreak(ctx context.Context, orgID, userID string, start bool) (attendance.AttendanceResponse, error) {
	now := s.now()
	date := dateOnly(now)

	var updated attendance.Attendance
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		record, err := s.AttendanceRepository.GetByUserAndDateForUpdate(txCtx, userID, date, orgID)
		if err != nil {
			return err
		}
		if record == nil || record.PunchedInAt == nil {
			return attendance.ErrNotPunchedIn
		}
		if record.PunchedOutAt != nil {
			return attendance.ErrAlreadyPunchedOut
		}

		if start {
			if record.IsOnBreak {
				return attendance.ErrAlreadyOnBreak
			}
			record.IsOnBreak = true
			record.BreakStartedAt = &now
		} else {
			if !record.IsOnBreak || record.BreakStartedAt == nil {
				return attendance.ErrNoActiveBreak
			}
			record.BreakTotalSeconds += int(now.Sub(*record.BreakStartedAt).Seconds())
			record.IsOnBreak = false
			record.BreakStartedAt = nil
		}

		if err := s.AttendanceRepository.Update(txCtx, *record); err != nil {
			return err
		}
		updated = *record
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(updated), nil
}

// ComputeStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ComputeStatus(ctx context.Context, orgID, userID string, date time.Time) (attendance.DayStatusResponse, error) {
	defaults, err := s.policyDefaults(ctx, orgID)
	if err != nil {
		return attendance.DayStatusResponse{}, err
	}
	return s.computeDay(ctx, orgID, userID, dateOnly(date), defaults)
}

func (s *AttendanceServiceImpl) computeDay(ctx context.Context, orgID, userID string, date time.Time, defaults org.PolicyDefaults) (attendance.DayStatusResponse, error) {
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, date, orgID)
	if err != nil {
		return attendance.DayStatusResponse{}, err
	}

	required, err := s.resolver.RequiredWorkSeconds(ctx, orgID, userID, date)
	if err != nil {
		return attendance.DayStatusResponse{}, err
	}

	resp := attendance.DayStatusResponse{
		UserID:        userID,
		Date:          date.Format("2006-01-02"),
		RequiredHours: float64(required) / 3600,
	}

	// An explicit admin decision wins over everything computed.
	if record != nil && record.OverrideStatus != nil {
		resp.Status = string(*record.OverrideStatus)
		resp.IsAdminOverride = true
		resp.OverrideReason = record.OverrideReason
		resp.TotalWorkHours = float64(record.TotalWorkSeconds) / 3600
		resp.EffectiveHours = float64(record.EffectiveSeconds) / 3600
		resp.BreakHours = float64(record.BreakTotalSeconds) / 3600
		resp.OvertimeMinutes = record.OvertimeMinutes
		return resp, nil
	}

	facts := DayFacts{
		RequiredSeconds: required,
		IsPast:          date.Before(dateOnly(s.now())),
	}

	if record != nil && record.PunchedInAt != nil {
		facts.HasPunch = true

		total := record.TotalWorkSeconds
		effective := record.EffectiveSeconds
		if record.PunchedOutAt == nil {
			// Day still open: credit the running span.
			total = record.PunchSpanSeconds(s.now())
			template, err := s.resolver.ResolveAttendanceTemplate(ctx, orgID, userID, date)
			if err != nil {
				return attendance.DayStatusResponse{}, err
			}
			rule := shift.EffectiveHoursDefault
			if template != nil {
				rule = template.EffectiveHoursRule
			}
			effective = EffectiveWorkingSeconds(total, record.BreakTotalSeconds, required, defaults.MaxBreakMinutes, rule)
		}

		facts.EffectiveSeconds = effective
		resp.TotalWorkHours = float64(total) / 3600
		resp.EffectiveHours = float64(effective) / 3600
		resp.BreakHours = float64(record.BreakTotalSeconds) / 3600
		resp.OvertimeMinutes = OvertimeMinutes(effective, required)
	} else {
		onLeave, err := s.leaveService.IsOnApprovedLeave(ctx, orgID, userID, date)
		if err != nil {
			return attendance.DayStatusResponse{}, err
		}
		facts.OnApprovedLeave = onLeave

		if !onLeave {
			holiday, err := s.holidayRepository.GetByDate(ctx, orgID, date)
			if err != nil {
				return attendance.DayStatusResponse{}, err
			}
			facts.IsPaidHoliday = holiday != nil && holiday.IsPaid
		}
	}

	resp.Status = string(ClassifyDay(facts))
	return resp, nil
}

// MonthlyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlyHistory(ctx context.Context, orgID, userID string, monthKey string) (attendance.MonthlyHistoryResponse, error) {
	monthStart, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return attendance.MonthlyHistoryResponse{}, fmt.Errorf("invalid month key %q: %w", monthKey, err)
	}

	defaults, err := s.policyDefaults(ctx, orgID)
	if err != nil {
		return attendance.MonthlyHistoryResponse{}, err
	}

	resp := attendance.MonthlyHistoryResponse{
		UserID:   userID,
		MonthKey: monthKey,
	}

	var tally attendance.MonthlyTally
	monthEnd := monthStart.AddDate(0, 1, 0)
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		dayResp, err := s.computeDay(ctx, orgID, userID, day, defaults)
		if err != nil {
			return attendance.MonthlyHistoryResponse{}, err
		}
		resp.Days = append(resp.Days, dayResp)
		tally.Add(attendance.DayStatus(dayResp.Status))
	}

	resp.Summary = attendance.MonthlySummary{
		Present:  tally.Present,
		Absent:   tally.Absent,
		HalfDay:  tally.HalfDay,
		Leave:    tally.Leave,
		Overtime: tally.Overtime,
	}

	return resp, nil
}

// OverrideDay implements attendance.AttendanceService. The decision is
// stored as a tagged field next to the computed status, never encoded
// into duration values.
func (s *AttendanceServiceImpl) OverrideDay(ctx context.Context, orgID, adminID string, req attendance.OverrideDayRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidOverride
	}
	status := attendance.DayStatus(req.Status)

	var result attendance.Attendance
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		record, err := s.AttendanceRepository.GetByUserAndDateForUpdate(txCtx, req.UserID, dateOnly(date), orgID)
		if err != nil {
			return err
		}

		if record == nil {
			created, err := s.AttendanceRepository.Create(txCtx, attendance.Attendance{
				OrgID:          orgID,
				UserID:         req.UserID,
				Date:           dateOnly(date),
				Status:         status,
				OverrideStatus: &status,
				OverrideReason: &req.Reason,
				OverrideBy:     &adminID,
			})
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		record.Status = status
		record.OverrideStatus = &status
		record.OverrideReason = &req.Reason
		record.OverrideBy = &adminID
		if err := s.AttendanceRepository.Update(txCtx, *record); err != nil {
			return err
		}
		result = *record
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance day overridden",
		"org_id", orgID, "user_id", req.UserID, "date", req.Date, "status", req.Status, "admin_id", adminID)

	return toAttendanceResponse(result), nil
}

// FinalizeAbsences implements attendance.AttendanceService. Stale open
// records before the cutoff get their running break closed and their
// status stamped from whatever time was credited; a day with no
// credited time resolves to ABSENT unless leave or a paid holiday
// covers it. Returns the number of records closed.
func (s *AttendanceServiceImpl) FinalizeAbsences(ctx context.Context, orgID string, cutoff time.Time) (int, error) {
	open, err := s.AttendanceRepository.ListOpenBefore(ctx, orgID, dateOnly(cutoff))
	if err != nil {
		return 0, err
	}

	defaults, err := s.policyDefaults(ctx, orgID)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, record := range open {
		err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
			locked, err := s.AttendanceRepository.GetByUserAndDateForUpdate(txCtx, record.UserID, record.Date, orgID)
			if err != nil {
				return err
			}
			if locked == nil || locked.PunchedOutAt != nil {
				return nil
			}

			// The day ended without a punch-out; no further time is
			// credited past the end of that day.
			endOfDay := locked.Date.AddDate(0, 0, 1)
			if locked.IsOnBreak && locked.BreakStartedAt != nil {
				locked.BreakTotalSeconds += int(endOfDay.Sub(*locked.BreakStartedAt).Seconds())
				locked.IsOnBreak = false
				locked.BreakStartedAt = nil
			}

			required, err := s.resolver.RequiredWorkSeconds(txCtx, orgID, locked.UserID, locked.Date)
			if err != nil {
				return err
			}
			template, err := s.resolver.ResolveAttendanceTemplate(txCtx, orgID, locked.UserID, locked.Date)
			if err != nil {
				return err
			}
			rule := shift.EffectiveHoursDefault
			if template != nil {
				rule = template.EffectiveHoursRule
			}

			// A policy that requires punch-out credits nothing for an
			// unclosed day; otherwise the span runs to end of day.
			if template == nil || template.RequirePunchOut {
				locked.TotalWorkSeconds = 0
			} else {
				locked.TotalWorkSeconds = locked.PunchSpanSeconds(endOfDay)
			}
			locked.PunchedOutAt = &endOfDay
			locked.EffectiveSeconds = EffectiveWorkingSeconds(
				locked.TotalWorkSeconds, locked.BreakTotalSeconds, required, defaults.MaxBreakMinutes, rule)
			locked.OvertimeMinutes = OvertimeMinutes(locked.EffectiveSeconds, required)
			locked.Status = ClassifyDay(DayFacts{
				HasPunch:         true,
				EffectiveSeconds: locked.EffectiveSeconds,
				RequiredSeconds:  required,
				IsPast:           true,
			})
			if locked.OverrideStatus != nil {
				locked.Status = *locked.OverrideStatus
			}

			if err := s.AttendanceRepository.Update(txCtx, *locked); err != nil {
				return err
			}
			closed++
			return nil
		})
		if err != nil {
			slog.Error("failed to finalize open attendance record",
				"org_id", orgID, "user_id", record.UserID, "date", record.Date.Format("2006-01-02"), "error", err)
		}
	}

	return closed, nil
}

func (s *AttendanceServiceImpl) policyDefaults(ctx context.Context, orgID string) (org.PolicyDefaults, error) {
	defaults, err := s.settingsRepository.GetPolicyDefaults(ctx, orgID)
	if err != nil {
		slog.Warn("failed to load org policy defaults, using built-in default", "org_id", orgID, "error", err)
		return org.DefaultPolicy(), nil
	}
	return defaults, nil
}
