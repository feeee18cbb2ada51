package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/handler/http/response"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	MonthlyHistory(w http.ResponseWriter, r *http.Request)
	Override(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// PunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.PunchInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.PunchIn(r.Context(), orgID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch in successful", result)
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.PunchOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.PunchOut(r.Context(), orgID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.attendanceService.StartBreak(r.Context(), orgID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.attendanceService.EndBreak(r.Context(), orgID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Status implements AttendanceHandler. Defaults to today when no date
// query parameter is supplied.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		date = parsed
	}

	result, err := h.attendanceService.ComputeStatus(r.Context(), orgID, userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MonthlyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MonthlyHistory(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	monthKey := chi.URLParam(r, "monthKey")

	result, err := h.attendanceService.MonthlyHistory(r.Context(), orgID, userID, monthKey)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Override implements AttendanceHandler. Admin only; the acting admin
// is recorded on the day.
func (h *attendanceHandlerImpl) Override(w http.ResponseWriter, r *http.Request) {
	orgID, adminID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.OverrideDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.OverrideDay(r.Context(), orgID, adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance overridden successfully", result)
}
