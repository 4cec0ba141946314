package salaryhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/salary"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Service *salary.Service
}

func NewHandler(service *salary.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salary-structures", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSalaryWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermSalaryRead)).Get("/employee/{employeeID}", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermSalaryRead)).Get("/employee/{employeeID}/active", h.handleActive)
		r.With(middleware.RequirePermission(auth.PermSalaryWrite)).Post("/{structureID}/deactivate", h.handleDeactivate)
	})
}

type createRequest struct {
	EmployeeID      string  `json:"employeeId"`
	BasicSalary     float64 `json:"basicSalary"`
	HRA             float64 `json:"hra"`
	Allowances      float64 `json:"allowances"`
	PFContribution  float64 `json:"pfContribution"`
	TDS             float64 `json:"tds"`
	ProfessionalTax float64 `json:"professionalTax"`
	OtherDeductions float64 `json:"otherDeductions"`
	Currency        string  `json:"currency"`
	EffectiveFrom   string  `json:"effectiveFrom"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if payload.BasicSalary < 0 {
		v.Add("basicSalary", "must not be negative")
	}
	for field, value := range map[string]float64{
		"hra":             payload.HRA,
		"allowances":      payload.Allowances,
		"pfContribution":  payload.PFContribution,
		"tds":             payload.TDS,
		"professionalTax": payload.ProfessionalTax,
		"otherDeductions": payload.OtherDeductions,
	} {
		if value < 0 {
			v.Add(field, "must not be negative")
		}
	}
	effectiveFrom, _ := v.Date("effectiveFrom", payload.EffectiveFrom)
	if v.Reject(w, requestID) {
		return
	}

	structure, err := h.Service.Create(r.Context(), salary.CreateInput{
		EmployeeID:      payload.EmployeeID,
		BasicSalary:     payload.BasicSalary,
		HRA:             payload.HRA,
		Allowances:      payload.Allowances,
		PFContribution:  payload.PFContribution,
		TDS:             payload.TDS,
		ProfessionalTax: payload.ProfessionalTax,
		OtherDeductions: payload.OtherDeductions,
		Currency:        payload.Currency,
		EffectiveFrom:   effectiveFrom,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_create_failed", "failed to create salary structure", requestID)
		return
	}
	api.Created(w, structure, requestID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	history, err := h.Service.Store.History(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_history_failed", "failed to list salary structures", requestID)
		return
	}
	api.Success(w, history, requestID)
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	structure, err := h.Service.Store.ActiveByEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, salary.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "no active salary structure", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_get_failed", "failed to load salary structure", requestID)
		return
	}
	api.Success(w, structure, requestID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	err := h.Service.Store.Deactivate(r.Context(), chi.URLParam(r, "structureID"))
	if errors.Is(err, salary.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "salary structure not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_deactivate_failed", "failed to deactivate salary structure", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, requestID)
}
