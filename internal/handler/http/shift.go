package http

import (
	"encoding/json"
	"net/http"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/shift"
	"github.com/staffhub-app/staffhub-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	CreateShiftTemplate(w http.ResponseWriter, r *http.Request)
	ListShiftTemplates(w http.ResponseWriter, r *http.Request)
	AssignShift(w http.ResponseWriter, r *http.Request)
	CreateAttendanceTemplate(w http.ResponseWriter, r *http.Request)
	ListAttendanceTemplates(w http.ResponseWriter, r *http.Request)
	AssignAttendanceTemplate(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	templateService shift.TemplateService
}

func NewShiftHandler(templateService shift.TemplateService) ShiftHandler {
	return &shiftHandlerImpl{
		templateService: templateService,
	}
}

// CreateShiftTemplate implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req shift.CreateShiftTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.templateService.CreateShiftTemplate(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift template created", result)
}

// ListShiftTemplates implements ShiftHandler.
func (h *shiftHandlerImpl) ListShiftTemplates(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.templateService.ListShiftTemplates(r.Context(), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignShift implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) AssignShift(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req shift.AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.templateService.AssignShift(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned", result)
}

// CreateAttendanceTemplate implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) CreateAttendanceTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req shift.CreateAttendanceTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.templateService.CreateAttendanceTemplate(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance template created", result)
}

// ListAttendanceTemplates implements ShiftHandler.
func (h *shiftHandlerImpl) ListAttendanceTemplates(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.templateService.ListAttendanceTemplates(r.Context(), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignAttendanceTemplate implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) AssignAttendanceTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req shift.AssignAttendanceTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.templateService.AssignAttendanceTemplate(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance template assigned", result)
}
