package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrpay/internal/platform/querier"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id, employee_code, first_name, last_name, email,
    COALESCE(department_id::text, ''), COALESCE(position_id::text, ''),
    COALESCE(manager_id::text, ''), is_active, created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Email,
		&e.DepartmentID, &e.PositionID, &e.ManagerID, &e.IsActive, &e.CreatedAt,
	)
	return e, err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool, limit, offset int) ([]Employee, int, error) {
	where := ""
	if activeOnly {
		where = " WHERE is_active"
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees`+where+`
    ORDER BY last_name, first_name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_code, first_name, last_name, email, department_id, position_id, manager_id, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, e.EmployeeCode, e.FirstName, e.LastName, strings.ToLower(e.Email),
		nullIfEmpty(e.DepartmentID), nullIfEmpty(e.PositionID), nullIfEmpty(e.ManagerID), e.IsActive).Scan(&id)
	return id, err
}

// SubordinateIDs returns the direct reports of a manager, used to scope
// timesheet and payroll listings.
func (s *Store) SubordinateIDs(ctx context.Context, managerID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM employees WHERE manager_id = $1", managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ManagerID(ctx context.Context, employeeID string) (string, error) {
	var managerID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(manager_id::text, '') FROM employees WHERE id = $1
  `, employeeID).Scan(&managerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return managerID, err
}

func (s *Store) EmployeeEmail(ctx context.Context, employeeID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, "SELECT email FROM employees WHERE id = $1", employeeID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return email, err
}

func (s *Store) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM projects WHERE id = $1 AND is_active", projectID).Scan(&count)
	return count > 0, err
}

func (s *Store) TaskExists(ctx context.Context, taskID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM tasks WHERE id = $1 AND is_active", taskID).Scan(&count)
	return count > 0, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) ListPositions(ctx context.Context) ([]Position, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, title FROM positions ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, is_active FROM projects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListTasks(ctx context.Context, projectID string) ([]Task, error) {
	query := "SELECT id, project_id, name, is_active FROM tasks"
	args := []any{}
	if projectID != "" {
		query += " WHERE project_id = $1"
		args = append(args, projectID)
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.IsActive); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx,
		"INSERT INTO projects (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

func (s *Store) CreateTask(ctx context.Context, projectID, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx,
		"INSERT INTO tasks (project_id, name) VALUES ($1, $2) RETURNING id",
		projectID, name).Scan(&id)
	return id, err
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
