package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/leave"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Store     *leave.Store
	Directory *directory.Store
}

func NewHandler(store *leave.Store, dir *directory.Store) *Handler {
	return &Handler{Store: store, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-requests", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/{requestID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Put("/{requestID}/approve", h.handleDecide)
	})
}

type createRequest struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, requestID) {
		return
	}

	days, err := leave.CalculateDays(start, end)
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "endDate", Reason: err.Error()},
		})
		return
	}

	leaveType := strings.TrimSpace(payload.LeaveType)
	if leaveType == "" {
		leaveType = "casual"
	}
	id, err := h.Store.Create(r.Context(), leave.Request{
		EmployeeID: user.EmployeeID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  days,
		Reason:     payload.Reason,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave request", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var scope []string
	switch user.Role {
	case auth.RoleAdmin, auth.RoleHR:
		if requested := r.URL.Query().Get("employeeId"); requested != "" {
			scope = []string{requested}
		}
	case auth.RoleManager:
		subs, err := h.Directory.SubordinateIDs(r.Context(), user.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestID)
			return
		}
		scope = append(subs, user.EmployeeID)
	default:
		scope = []string{user.EmployeeID}
	}

	p := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Store.List(r.Context(), scope, r.URL.Query().Get("status"), p.PerPage, (p.Page-1)*p.PerPage)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, api.Paginated{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	request, err := h.Store.Get(r.Context(), chi.URLParam(r, "requestID"))
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_get_failed", "failed to load leave request", requestID)
		return
	}
	api.Success(w, request, requestID)
}

type decideRequest struct {
	Action string `json:"action"`
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

	status := leave.StatusApproved
	if action == "reject" {
		status = leave.StatusRejected
	}
	err := h.Store.Decide(r.Context(), chi.URLParam(r, "requestID"), status, user.EmployeeID)
	switch {
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "leave request already decided", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_decide_failed", "failed to decide leave request", requestID)
		return
	}
	api.Success(w, map[string]string{"status": status}, requestID)
}
