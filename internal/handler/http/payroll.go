package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/payroll"
	"github.com/staffhub-app/staffhub-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	ComputeUser(w http.ResponseWriter, r *http.Request)
	ComputeCycle(w http.ResponseWriter, r *http.Request)
	MySalary(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	LockCycle(w http.ResponseWriter, r *http.Request)
	MarkCyclePaid(w http.ResponseWriter, r *http.Request)
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	ListTemplates(w http.ResponseWriter, r *http.Request)
	AssignStaffSalary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ComputeUser implements PayrollHandler. Admin only.
func (h *payrollHandlerImpl) ComputeUser(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	userID := chi.URLParam(r, "userID")
	monthKey := chi.URLParam(r, "monthKey")

	result, err := h.payrollService.ComputeSalaryForUser(r.Context(), orgID, userID, monthKey)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary computed", result)
}

// ComputeCycle implements PayrollHandler. Admin only.
func (h *payrollHandlerImpl) ComputeCycle(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	monthKey := chi.URLParam(r, "monthKey")

	result, err := h.payrollService.ComputeCycle(r.Context(), orgID, monthKey)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle computed", result)
}

// MySalary implements PayrollHandler: the requester's own line for the
// month, computed on the fly.
func (h *payrollHandlerImpl) MySalary(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	monthKey := chi.URLParam(r, "monthKey")

	result, err := h.payrollService.ComputeSalaryForUser(r.Context(), orgID, userID, monthKey)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Preview implements PayrollHandler.
func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req payroll.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.PreviewTemplateCalculation(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// LockCycle implements PayrollHandler. Admin only.
func (h *payrollHandlerImpl) LockCycle(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	monthKey := chi.URLParam(r, "monthKey")

	if err := h.payrollService.LockCycle(r.Context(), orgID, monthKey); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle locked", nil)
}

// MarkCyclePaid implements PayrollHandler. Admin only.
func (h *payrollHandlerImpl) MarkCyclePaid(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	monthKey := chi.URLParam(r, "monthKey")

	if err := h.payrollService.MarkCyclePaid(r.Context(), orgID, monthKey); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle marked paid", nil)
}

// CreateTemplate implements PayrollHandler. Admin only.
func (h *payrollHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req payroll.CreateSalaryTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.CreateTemplate(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary template created", result)
}

// ListTemplates implements PayrollHandler.
func (h *payrollHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.payrollService.ListTemplates(r.Context(), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignStaffSalary implements PayrollHandler. Admin only.
func (h *payrollHandlerImpl) AssignStaffSalary(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req payroll.AssignStaffSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.AssignStaffSalary(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Staff salary assigned", result)
}
