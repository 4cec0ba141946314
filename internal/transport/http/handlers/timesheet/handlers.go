package timesheethandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/timesheet"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Service   *timesheet.Service
	Directory *directory.Store
}

func NewHandler(service *timesheet.Service, dir *directory.Store) *Handler {
	return &Handler{Service: service, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheets", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTimesheetRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTimesheetRead)).Get("/{timesheetID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite)).Put("/{timesheetID}", h.handleEdit)
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite)).Put("/{timesheetID}/submit", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermTimesheetApprove)).Put("/{timesheetID}/approve", h.handleDecide)
	})
}

type timesheetRequest struct {
	ProjectID        string     `json:"projectId"`
	TaskID           string     `json:"taskId"`
	WeekStartDate    string     `json:"weekStartDate"`
	DailyHours       [7]float64 `json:"dailyHours"`
	TotalHoursWorked float64    `json:"totalHoursWorked"`
	Description      string     `json:"description"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload timesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("projectId", payload.ProjectID, "project id is required")
	v.Required("taskId", payload.TaskID, "task id is required")
	weekStart, _ := v.Date("weekStartDate", payload.WeekStartDate)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), timesheet.CreateInput{
		EmployeeID:       user.EmployeeID,
		ProjectID:        payload.ProjectID,
		TaskID:           payload.TaskID,
		WeekStartDate:    weekStart,
		Hours:            timesheet.DailyHours(payload.DailyHours),
		TotalHoursWorked: payload.TotalHoursWorked,
		Description:      payload.Description,
	})
	if err != nil {
		h.failTimesheet(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	scope, err := h.visibleEmployees(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheets_list_failed", "failed to list timesheets", requestID)
		return
	}

	p := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.Store.List(r.Context(), timesheet.ListFilter{
		EmployeeIDs: scope,
		Status:      r.URL.Query().Get("status"),
		ProjectID:   r.URL.Query().Get("projectId"),
		Limit:       p.PerPage,
		Offset:      (p.Page - 1) * p.PerPage,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheets_list_failed", "failed to list timesheets", requestID)
		return
	}
	api.Success(w, api.Paginated{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage}, requestID)
}

// visibleEmployees limits list scope by role: employees see themselves,
// managers see themselves plus direct reports, admin and hr see everyone
// unless they filter by employeeId.
func (h *Handler) visibleEmployees(r *http.Request, user auth.UserContext) ([]string, error) {
	requested := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	switch user.Role {
	case auth.RoleAdmin, auth.RoleHR:
		if requested != "" {
			return []string{requested}, nil
		}
		return nil, nil
	case auth.RoleManager:
		subs, err := h.Directory.SubordinateIDs(r.Context(), user.EmployeeID)
		if err != nil {
			return nil, err
		}
		scope := append(subs, user.EmployeeID)
		if requested != "" {
			for _, id := range scope {
				if id == requested {
					return []string{requested}, nil
				}
			}
		}
		return scope, nil
	default:
		return []string{user.EmployeeID}, nil
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	ts, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "timesheetID"))
	if err != nil {
		h.failTimesheet(w, err, requestID)
		return
	}
	api.Success(w, ts, requestID)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload timesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	updated, err := h.Service.Edit(r.Context(), chi.URLParam(r, "timesheetID"), user, timesheet.EditInput{
		Hours:            timesheet.DailyHours(payload.DailyHours),
		TotalHoursWorked: payload.TotalHoursWorked,
		Description:      payload.Description,
	})
	if err != nil {
		h.failTimesheet(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	submitted, err := h.Service.Submit(r.Context(), chi.URLParam(r, "timesheetID"), user)
	if err != nil {
		h.failTimesheet(w, err, requestID)
		return
	}
	api.Success(w, submitted, requestID)
}

type decideRequest struct {
	Action           string `json:"action"`
	ApproverComments string `json:"approverComments"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload decideRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	action := strings.ToLower(strings.TrimSpace(payload.Action))
	if action != "approve" && action != "reject" {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "action", Reason: "must be approve or reject"},
		})
		return
	}

	decided, err := h.Service.Decide(r.Context(), chi.URLParam(r, "timesheetID"), user, action == "approve", payload.ApproverComments)
	if err != nil {
		h.failTimesheet(w, err, requestID)
		return
	}
	api.Success(w, decided, requestID)
}

func (h *Handler) failTimesheet(w http.ResponseWriter, err error, requestID string) {
	var validation *timesheet.ValidationError
	switch {
	case errors.As(err, &validation):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: validation.Field, Reason: validation.Reason},
		})
	case errors.Is(err, timesheet.ErrDuplicate):
		api.Fail(w, http.StatusBadRequest, "duplicate", "timesheet already exists for this week, project and task", requestID)
	case errors.Is(err, timesheet.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "you may not act on this timesheet", requestID)
	case errors.Is(err, timesheet.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "timesheet state does not permit this operation", requestID)
	case errors.Is(err, timesheet.ErrZeroHours):
		api.Fail(w, http.StatusBadRequest, "zero_hours", "cannot submit a timesheet with zero hours", requestID)
	case errors.Is(err, timesheet.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "timesheet not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "timesheet_failed", "timesheet operation failed", requestID)
	}
}
