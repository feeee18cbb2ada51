package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
	"github.com/staffhub-app/staffhub-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	db *database.DB
	leave.LeaveTemplateRepository
	leave.LeaveBalanceRepository
	leave.LeaveRequestRepository
	now func() time.Time
}

func NewLeaveService(
	db *database.DB,
	leaveTemplateRepository leave.LeaveTemplateRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		db:                      db,
		LeaveTemplateRepository: leaveTemplateRepository,
		LeaveBalanceRepository:  leaveBalanceRepository,
		LeaveRequestRepository:  leaveRequestRepository,
		now:                     func() time.Time { return time.Now().UTC() },
	}
}

func toRequestResponse(req leave.LeaveRequest) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:                    req.ID,
		UserID:                req.UserID,
		StartDate:             req.StartDate.Format("2006-01-02"),
		EndDate:               req.EndDate.Format("2006-01-02"),
		LeaveType:             req.LeaveType,
		CategoryKey:           req.CategoryKey,
		Days:                  req.Days,
		Status:                string(req.Status),
		ApprovalLevelRequired: req.ApprovalLevelRequired,
		ApprovalLevelDone:     req.ApprovalLevelDone,
		PaidDays:              req.PaidDays,
		UnpaidDays:            req.UnpaidDays,
		Reason:                req.Reason,
		ReviewNote:            req.ReviewNote,
	}
}

// Categories implements leave.LeaveService. Balances come from the
// persisted rows for the cycle containing the date; when no row exists
// yet, `used` is derived from approved requests starting inside the
// cycle. The synthetic unlimited "unpaid" category always closes the
// list.
func (s *LeaveServiceImpl) Categories(ctx context.Context, orgID, userID string, date time.Time) ([]leave.CategoryBalanceResponse, error) {
	template, err := s.LeaveTemplateRepository.GetActiveForDate(ctx, userID, date, orgID)
	if err != nil {
		return nil, err
	}

	var balances []leave.CategoryBalanceResponse
	if template != nil {
		cycleStart, cycleEnd := CycleRange(template.Cycle, date)
		for _, category := range template.Categories {
			row, err := s.LeaveBalanceRepository.GetForCycle(ctx, userID, category.Key, cycleStart, orgID)
			if err != nil {
				return nil, err
			}

			used := 0
			remaining := category.LeaveCount
			if row != nil {
				used = row.Used
				remaining = row.Remaining
			} else {
				used, err = s.LeaveRequestRepository.SumApprovedDays(ctx, userID, category.Key, cycleStart, cycleEnd, orgID)
				if err != nil {
					return nil, err
				}
				remaining = category.LeaveCount - used
				if remaining < 0 {
					remaining = 0
				}
			}

			balances = append(balances, leave.CategoryBalanceResponse{
				Key:       category.Key,
				Name:      category.Name,
				Total:     category.LeaveCount,
				Used:      used,
				Remaining: remaining,
			})
		}
	}

	balances = append(balances, leave.CategoryBalanceResponse{
		Key:       leave.CategoryKeyUnpaid,
		Name:      "Unpaid Leave",
		Unlimited: true,
	})

	return balances, nil
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, orgID, userID string, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	template, err := s.LeaveTemplateRepository.GetActiveForDate(ctx, userID, start, orgID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approvalLevel := 1
	if template != nil {
		approvalLevel = template.ApprovalLevel
		if req.CategoryKey != nil && *req.CategoryKey != leave.CategoryKeyUnpaid {
			if template.CategoryByKey(*req.CategoryKey) == nil {
				return leave.LeaveRequestResponse{}, leave.ErrCategoryNotInTemplate
			}
		}
	} else if req.CategoryKey != nil && *req.CategoryKey != leave.CategoryKeyUnpaid {
		return leave.LeaveRequestResponse{}, leave.ErrCategoryNotInTemplate
	}

	request := leave.LeaveRequest{
		OrgID:                 orgID,
		UserID:                userID,
		StartDate:             start,
		EndDate:               end,
		LeaveType:             req.LeaveType,
		CategoryKey:           req.CategoryKey,
		Days:                  InclusiveDays(start, end),
		Status:                leave.RequestStatusPending,
		ApprovalLevelRequired: approvalLevel,
		Reason:                req.Reason,
	}

	created, err := s.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toRequestResponse(created), nil
}

// Approve implements leave.LeaveService. Each call advances one
// approval level; the final level settles the paid/unpaid split and
// debits the balance row under a lock. Insufficient balance is not an
// error, the shortfall becomes unpaid days.
func (s *LeaveServiceImpl) Approve(ctx context.Context, orgID, requestID, reviewerID string, note *string) (leave.LeaveRequestResponse, error) {
	var result leave.LeaveRequest
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.GetByIDForUpdate(txCtx, requestID, orgID)
		if err != nil {
			return err
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrRequestAlreadyProcessed
		}

		now := s.now()
		request.ApprovalLevelDone++
		request.ReviewedBy = &reviewerID
		request.ReviewedAt = &now
		request.ReviewNote = note

		if request.ApprovalLevelDone < request.ApprovalLevelRequired {
			if err := s.LeaveRequestRepository.Update(txCtx, request); err != nil {
				return err
			}
			result = request
			return nil
		}

		paid, unpaid, err := s.settle(txCtx, orgID, &request)
		if err != nil {
			return err
		}

		request.Status = leave.RequestStatusApproved
		request.PaidDays = paid
		request.UnpaidDays = unpaid
		if err := s.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return err
		}
		result = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toRequestResponse(result), nil
}

// settle splits the request days into paid and unpaid against the
// category balance for the cycle containing the start date. Runs inside
// the approval transaction; the balance row is locked.
func (s *LeaveServiceImpl) settle(ctx context.Context, orgID string, request *leave.LeaveRequest) (int, int, error) {
	if request.CategoryKey == nil || *request.CategoryKey == leave.CategoryKeyUnpaid {
		return 0, request.Days, nil
	}
	categoryKey := *request.CategoryKey

	template, err := s.LeaveTemplateRepository.GetActiveForDate(ctx, request.UserID, request.StartDate, orgID)
	if err != nil {
		return 0, 0, err
	}
	if template == nil {
		return 0, request.Days, nil
	}
	category := template.CategoryByKey(categoryKey)
	if category == nil {
		return 0, request.Days, nil
	}

	cycleStart, cycleEnd := CycleRange(template.Cycle, request.StartDate)

	balance, err := s.LeaveBalanceRepository.GetForCycleForUpdate(ctx, request.UserID, categoryKey, cycleStart, orgID)
	if err != nil {
		return 0, 0, err
	}
	if balance == nil {
		used, err := s.LeaveRequestRepository.SumApprovedDays(ctx, request.UserID, categoryKey, cycleStart, cycleEnd, orgID)
		if err != nil {
			return 0, 0, err
		}
		seeded := leave.LeaveBalance{
			OrgID:       orgID,
			UserID:      request.UserID,
			CategoryKey: categoryKey,
			CycleStart:  cycleStart,
			CycleEnd:    cycleEnd,
			Allocated:   category.LeaveCount,
			Used:        used,
		}
		seeded.Recalc()
		created, err := s.LeaveBalanceRepository.Create(ctx, seeded)
		if err != nil {
			return 0, 0, err
		}
		balance = &created
	}

	paid := request.Days
	if paid > balance.Remaining {
		paid = balance.Remaining
	}
	if paid < 0 {
		paid = 0
	}
	unpaid := request.Days - paid

	balance.Used += paid
	balance.Recalc()
	if err := s.LeaveBalanceRepository.Update(ctx, *balance); err != nil {
		return 0, 0, err
	}

	return paid, unpaid, nil
}

// Reject implements leave.LeaveService. Terminal; balances are never
// touched.
func (s *LeaveServiceImpl) Reject(ctx context.Context, orgID, requestID, reviewerID string, note *string) (leave.LeaveRequestResponse, error) {
	var result leave.LeaveRequest
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.GetByIDForUpdate(txCtx, requestID, orgID)
		if err != nil {
			return err
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrRequestAlreadyProcessed
		}

		now := s.now()
		request.Status = leave.RequestStatusRejected
		request.ReviewedBy = &reviewerID
		request.ReviewedAt = &now
		request.ReviewNote = note

		if err := s.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return err
		}
		result = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toRequestResponse(result), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, orgID, requestID, requesterID string) error {
	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.GetByIDForUpdate(txCtx, requestID, orgID)
		if err != nil {
			return err
		}
		if request.UserID != requesterID {
			return leave.ErrNotRequestOwner
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrCancelNotPending
		}
		return s.LeaveRequestRepository.Delete(txCtx, requestID, orgID)
	})
}

// IsOnApprovedLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) IsOnApprovedLeave(ctx context.Context, orgID, userID string, date time.Time) (bool, error) {
	request, err := s.LeaveRequestRepository.FindApprovedCovering(ctx, userID, date, orgID)
	if err != nil {
		return false, err
	}
	return request != nil, nil
}

// ApprovedLeaveByDay implements leave.LeaveService. For each approved
// request the first PaidDays dates count as paid and the rest as
// unpaid, so payroll sees the same split the settlement produced.
func (s *LeaveServiceImpl) ApprovedLeaveByDay(ctx context.Context, orgID, userID string, from, to time.Time) (map[string]leave.LeaveDayKind, error) {
	requests, err := s.LeaveRequestRepository.ListApprovedOverlapping(ctx, userID, from, to, orgID)
	if err != nil {
		return nil, err
	}

	days := make(map[string]leave.LeaveDayKind)
	for _, request := range requests {
		index := 0
		for day := request.StartDate; !day.After(request.EndDate); day = day.AddDate(0, 0, 1) {
			kind := leave.LeaveDayUnpaid
			if index < request.PaidDays {
				kind = leave.LeaveDayPaid
			}
			index++

			if day.Before(from) || day.After(to) {
				continue
			}
			days[day.Format("2006-01-02")] = kind
		}
	}

	return days, nil
}

// CreateTemplate implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateTemplate(ctx context.Context, orgID string, req leave.CreateLeaveTemplateRequest) (leave.LeaveTemplate, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTemplate{}, err
	}

	template := leave.LeaveTemplate{
		OrgID:         orgID,
		Name:          req.Name,
		Cycle:         leave.Cycle(req.Cycle),
		CountSandwich: req.CountSandwich,
		ApprovalLevel: req.ApprovalLevel,
		IsActive:      true,
	}
	for _, c := range req.Categories {
		template.Categories = append(template.Categories, leave.TemplateCategory{
			Key:             c.Key,
			Name:            c.Name,
			LeaveCount:      c.LeaveCount,
			UnusedRule:      leave.UnusedRule(c.UnusedRule),
			CarryLimitDays:  c.CarryLimitDays,
			EncashLimitDays: c.EncashLimitDays,
		})
	}

	created, err := s.LeaveTemplateRepository.Create(ctx, template)
	if err != nil {
		return leave.LeaveTemplate{}, fmt.Errorf("failed to create leave template: %w", err)
	}

	return created, nil
}

// ListTemplates implements leave.LeaveService.
func (s *LeaveServiceImpl) ListTemplates(ctx context.Context, orgID string) ([]leave.LeaveTemplate, error) {
	return s.LeaveTemplateRepository.List(ctx, orgID)
}

// AssignTemplate implements leave.LeaveService.
func (s *LeaveServiceImpl) AssignTemplate(ctx context.Context, orgID string, req leave.AssignLeaveTemplateRequest) (leave.StaffLeaveAssignment, error) {
	if err := req.Validate(); err != nil {
		return leave.StaffLeaveAssignment{}, err
	}

	if _, err := s.LeaveTemplateRepository.GetByID(ctx, req.LeaveTemplateID, orgID); err != nil {
		return leave.StaffLeaveAssignment{}, err
	}

	from, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	assignment := leave.StaffLeaveAssignment{
		OrgID:           orgID,
		UserID:          req.UserID,
		LeaveTemplateID: req.LeaveTemplateID,
		EffectiveFrom:   from,
	}
	if req.EffectiveTo != nil {
		to, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		assignment.EffectiveTo = &to
	}

	created, err := s.LeaveTemplateRepository.Assign(ctx, assignment)
	if err != nil {
		return leave.StaffLeaveAssignment{}, fmt.Errorf("failed to assign leave template: %w", err)
	}

	return created, nil
}

// ListRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListRequests(ctx context.Context, orgID, userID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListForUser(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toRequestResponse(request))
	}

	return responses, nil
}
