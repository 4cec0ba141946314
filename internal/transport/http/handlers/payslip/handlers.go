package paysliphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/payslip"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *payslip.Service
}

func NewHandler(service *payslip.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payslips", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayslipRead)).Get("/by-payroll/{payrollID}", h.handleGetByPayroll)
		r.With(middleware.RequirePermission(auth.PermPayslipRead)).Get("/{payslipID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPayslipWrite)).Put("/{payslipID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermPayslipFinalize)).Post("/{payslipID}/finalize", h.handleFinalize)
		r.With(middleware.RequirePermission(auth.PermPayslipFinalize)).Post("/{payslipID}/unlock", h.handleUnlock)
		r.With(middleware.RequirePermission(auth.PermPayslipWrite)).Delete("/{payslipID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermPayslipRead)).Get("/templates/default", h.handleDefaultTemplate)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	slip, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.failPayslip(w, err, requestID)
		return
	}
	if user.Role == auth.RoleEmployee && slip.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "you may not view this payslip", requestID)
		return
	}
	api.Success(w, slip, requestID)
}

func (h *Handler) handleGetByPayroll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	slip, err := h.Service.Store.GetByPayroll(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		h.failPayslip(w, err, requestID)
		return
	}
	if user.Role == auth.RoleEmployee && slip.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "you may not view this payslip", requestID)
		return
	}
	api.Success(w, slip, requestID)
}

type updateRequest struct {
	Earnings   map[string]float64 `json:"earnings"`
	Deductions map[string]float64 `json:"deductions"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	slip, err := h.Service.Store.Update(r.Context(), chi.URLParam(r, "payslipID"), payslip.UpdateInput{
		Earnings:   payload.Earnings,
		Deductions: payload.Deductions,
	})
	if err != nil {
		h.failPayslip(w, err, requestID)
		return
	}
	api.Success(w, slip, requestID)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	slip, err := h.Service.Store.Finalize(r.Context(), chi.URLParam(r, "payslipID"), user.UserID)
	if err != nil {
		h.failPayslip(w, err, requestID)
		return
	}
	api.Success(w, slip, requestID)
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	slip, err := h.Service.Store.Unlock(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.failPayslip(w, err, requestID)
		return
	}
	api.Success(w, slip, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Service.Store.Delete(r.Context(), chi.URLParam(r, "payslipID")); err != nil {
		h.failPayslip(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}

func (h *Handler) handleDefaultTemplate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	template, err := h.Service.Store.DefaultTemplate(r.Context())
	if errors.Is(err, payslip.ErrNoTemplate) {
		api.Fail(w, http.StatusNotFound, "not_found", "no default payslip template configured", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_get_failed", "failed to load template", requestID)
		return
	}
	api.Success(w, template, requestID)
}

func (h *Handler) failPayslip(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payslip.ErrLocked):
		api.Fail(w, http.StatusConflict, "locked", "payslip is locked and immutable", requestID)
	case errors.Is(err, payslip.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "payslip is not locked", requestID)
	case errors.Is(err, payslip.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "payslip operation failed", requestID)
	}
}
