package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/leave"
	"github.com/staffhub-app/staffhub-backend-go/internal/handler/http/response"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

type LeaveHandler interface {
	Categories(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	ListTemplates(w http.ResponseWriter, r *http.Request)
	AssignTemplate(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Categories implements LeaveHandler. Defaults to today's cycle.
func (h *leaveHandlerImpl) Categories(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		date = parsed
	}

	result, err := h.leaveService.Categories(r.Context(), orgID, userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.CreateRequest(r.Context(), orgID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// ListRequests implements LeaveHandler.
func (h *leaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.leaveService.ListRequests(r.Context(), orgID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Review implements LeaveHandler. One call advances one approval
// level, or rejects terminally.
func (h *leaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	orgID, reviewerID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requestID := chi.URLParam(r, "id")

	var req leave.ReviewLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var result leave.LeaveRequestResponse
	if req.Action == "approve" {
		result, err = h.leaveService.Approve(r.Context(), orgID, requestID, reviewerID, req.Note)
	} else {
		result, err = h.leaveService.Reject(r.Context(), orgID, requestID, reviewerID, req.Note)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request reviewed", result)
}

// Cancel implements LeaveHandler.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requestID := chi.URLParam(r, "id")

	if err := h.leaveService.Cancel(r.Context(), orgID, requestID, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", nil)
}

// CreateTemplate implements LeaveHandler.
func (h *leaveHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.CreateLeaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.CreateTemplate(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave template created", result)
}

// ListTemplates implements LeaveHandler.
func (h *leaveHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.leaveService.ListTemplates(r.Context(), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignTemplate implements LeaveHandler.
func (h *leaveHandlerImpl) AssignTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.AssignLeaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.AssignTemplate(r.Context(), orgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave template assigned", result)
}
