package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/calendar"
	"github.com/staffhub-app/staffhub-backend-go/internal/domain/org"
	"github.com/staffhub-app/staffhub-backend-go/internal/handler/http/response"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/validator"
)

// OrgHandler is the thin admin surface over org policy settings and the
// working calendar (holidays, weekly offs).
type OrgHandler interface {
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpsertSetting(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	UpsertWeeklyOff(w http.ResponseWriter, r *http.Request)
	GetWeeklyOff(w http.ResponseWriter, r *http.Request)
}

type orgHandlerImpl struct {
	settingsRepository  org.SettingsRepository
	holidayRepository   calendar.HolidayRepository
	weeklyOffRepository calendar.WeeklyOffRepository
}

func NewOrgHandler(
	settingsRepository org.SettingsRepository,
	holidayRepository calendar.HolidayRepository,
	weeklyOffRepository calendar.WeeklyOffRepository,
) OrgHandler {
	return &orgHandlerImpl{
		settingsRepository:  settingsRepository,
		holidayRepository:   holidayRepository,
		weeklyOffRepository: weeklyOffRepository,
	}
}

// GetPolicy implements OrgHandler.
func (h *orgHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	defaults, err := h.settingsRepository.GetPolicyDefaults(r.Context(), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, org.PolicyDefaultsResponse{
		RequiredWorkHours: defaults.RequiredWorkHours,
		MaxBreakMinutes:   defaults.MaxBreakMinutes,
	})
}

// UpsertSetting implements OrgHandler. Admin only.
func (h *orgHandlerImpl) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req org.UpsertSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.settingsRepository.Upsert(r.Context(), org.AppSetting{
		OrgID: orgID,
		Key:   req.Key,
		Value: req.Value,
	}); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Setting saved", nil)
}

// CreateHoliday implements OrgHandler. Admin only.
func (h *orgHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req calendar.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	date, _ := validator.IsValidDate(req.Date)
	result, err := h.holidayRepository.Create(r.Context(), calendar.Holiday{
		OrgID:  orgID,
		Date:   date,
		Name:   req.Name,
		IsPaid: req.IsPaid,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", result)
}

// ListHolidays implements OrgHandler. Defaults to the current year.
func (h *orgHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "from must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "to must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		to = parsed
	}

	result, err := h.holidayRepository.ListRange(r.Context(), orgID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpsertWeeklyOff implements OrgHandler. Admin only.
func (h *orgHandlerImpl) UpsertWeeklyOff(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req calendar.UpsertWeeklyOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.weeklyOffRepository.Upsert(r.Context(), req.ToTemplate(orgID))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Weekly off pattern saved", result)
}

// GetWeeklyOff implements OrgHandler.
func (h *orgHandlerImpl) GetWeeklyOff(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := requestScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.weeklyOffRepository.GetActive(r.Context(), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
