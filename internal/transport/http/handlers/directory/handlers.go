package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(store *directory.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/employees", h.handleListEmployees)
	r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/employees/{employeeID}", h.handleGetEmployee)
	r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/employees", h.handleCreateEmployee)
	r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/departments", h.handleListDepartments)
	r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/positions", h.handleListPositions)
	r.With(middleware.RequirePermission(auth.PermTimesheetRead)).Get("/projects", h.handleListProjects)
	r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/projects", h.handleCreateProject)
	r.With(middleware.RequirePermission(auth.PermTimesheetRead)).Get("/projects/{projectID}/tasks", h.handleListTasks)
	r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/projects/{projectID}/tasks", h.handleCreateTask)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := shared.ParsePagination(r, 50, 200)
	activeOnly := r.URL.Query().Get("includeInactive") != "true"

	employees, total, err := h.Store.ListEmployees(r.Context(), activeOnly, p.PerPage, (p.Page-1)*p.PerPage)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, api.Paginated{Items: employees, Total: total, Page: p.Page, PerPage: p.PerPage}, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload directory.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeCode", payload.EmployeeCode, "employee code is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Store.CreateEmployee(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "departments_list_failed", "failed to list departments", requestID)
		return
	}
	api.Success(w, departments, requestID)
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	positions, err := h.Store.ListPositions(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "positions_list_failed", "failed to list positions", requestID)
		return
	}
	api.Success(w, positions, requestID)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "projects_list_failed", "failed to list projects", requestID)
		return
	}
	api.Success(w, projects, requestID)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload nameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "project name is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Store.CreateProject(r.Context(), payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_create_failed", "failed to create project", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload nameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "task name is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Store.CreateTask(r.Context(), chi.URLParam(r, "projectID"), payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_create_failed", "failed to create task", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	tasks, err := h.Store.ListTasks(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tasks_list_failed", "failed to list tasks", requestID)
		return
	}
	api.Success(w, tasks, requestID)
}
