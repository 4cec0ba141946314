package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/domain/payslip"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Service   *payroll.Service
	Payslips  *payslip.Service
	Directory *directory.Store
}

func NewHandler(service *payroll.Service, payslips *payslip.Service, dir *directory.Store) *Handler {
	return &Handler{Service: service, Payslips: payslips, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollGenerate)).Post("/generate", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{payrollID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{payrollID}/download", h.handleDownload)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Put("/{payrollID}/mark-paid", h.handleMarkPaid)
	})
}

type generateRequest struct {
	EmployeeID  string   `json:"employeeId"`
	EmployeeIDs []string `json:"employeeIds"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	targets := payload.EmployeeIDs
	if len(targets) == 0 && payload.EmployeeID != "" {
		targets = []string{payload.EmployeeID}
	}

	v := shared.NewValidator()
	if len(targets) == 0 {
		v.Add("employeeIds", "at least one employee id is required")
	}
	v.IntRange("month", payload.Month, 1, 12, "must be between 1 and 12")
	v.IntRange("year", payload.Year, 2000, 2100, "must be a plausible year")
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Generate(r.Context(), targets, payload.Month, payload.Year, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_generate_failed", "payroll generation failed", requestID)
		return
	}
	api.Created(w, result, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	filter := payroll.ListFilter{
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		fmt.Sscanf(raw, "%d", &filter.Month)
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		fmt.Sscanf(raw, "%d", &filter.Year)
	}

	switch user.Role {
	case auth.RoleAdmin, auth.RoleHR:
		if requested := r.URL.Query().Get("employeeId"); requested != "" {
			filter.EmployeeIDs = []string{requested}
		}
	case auth.RoleManager:
		subs, err := h.Directory.SubordinateIDs(r.Context(), user.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payrolls", requestID)
			return
		}
		filter.EmployeeIDs = append(subs, user.EmployeeID)
	default:
		filter.EmployeeIDs = []string{user.EmployeeID}
	}

	p := shared.ParsePagination(r, 50, 200)
	filter.Page = p.Page
	filter.PerPage = p.PerPage

	items, total, err := h.Service.Store.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payrolls", requestID)
		return
	}
	api.Success(w, api.Paginated{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	record, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll", requestID)
		return
	}
	if !h.canView(r, user, record.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you may not view this payroll", requestID)
		return
	}
	api.Success(w, record, requestID)
}

// handleDownload materializes the payslip for a payroll on first request and
// streams it as a PDF.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	payrollID := chi.URLParam(r, "payrollID")
	record, err := h.Service.Store.Get(r.Context(), payrollID)
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll", requestID)
		return
	}
	if !h.canView(r, user, record.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you may not download this payslip", requestID)
		return
	}

	slip, err := h.Payslips.Materialize(r.Context(), payrollID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to materialize payslip", requestID)
		return
	}
	employee, err := h.Directory.GetEmployee(r.Context(), record.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load employee", requestID)
		return
	}
	// Render with the template the slip was materialized against, not
	// whatever the current default is.
	var template payslip.Template
	if slip.TemplateID != "" {
		if t, err := h.Payslips.Store.GetTemplate(r.Context(), slip.TemplateID); err == nil {
			template = t
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", slip.PayslipNumber+".pdf"))
	// Headers are already on the wire; a render failure can only be logged
	// and the stream closed short.
	if err := payslip.RenderPDF(w, slip, record, employee, template); err != nil {
		slog.Error("payslip pdf render failed",
			"payrollId", payrollID, "payslipId", slip.ID, "err", err)
	}
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	record, err := h.Service.MarkPaid(r.Context(), chi.URLParam(r, "payrollID"))
	switch {
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll not found", requestID)
		return
	case errors.Is(err, payroll.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "payroll is not in a payable state", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payroll_update_failed", "failed to update payroll", requestID)
		return
	}
	api.Success(w, record, requestID)
}

func (h *Handler) canView(r *http.Request, user auth.UserContext, ownerEmployeeID string) bool {
	switch user.Role {
	case auth.RoleAdmin, auth.RoleHR:
		return true
	case auth.RoleManager:
		if user.EmployeeID == ownerEmployeeID {
			return true
		}
		subs, err := h.Directory.SubordinateIDs(r.Context(), user.EmployeeID)
		if err != nil {
			return false
		}
		for _, id := range subs {
			if id == ownerEmployeeID {
				return true
			}
		}
		return false
	default:
		return user.EmployeeID == ownerEmployeeID
	}
}
