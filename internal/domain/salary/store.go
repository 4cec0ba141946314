package salary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/platform/querier"
)

var ErrNotFound = errors.New("salary structure not found")

const structureColumns = `id, employee_id, basic_salary, hra, allowances,
	pf_contribution, tds, professional_tax, other_deductions, currency,
	effective_from, is_active, created_at`

type Store struct {
	DB querier.Querier
}

func scanStructure(row pgx.Row) (Structure, error) {
	var s Structure
	err := row.Scan(&s.ID, &s.EmployeeID, &s.BasicSalary, &s.HRA, &s.Allowances,
		&s.PFContribution, &s.TDS, &s.ProfessionalTax, &s.OtherDeductions,
		&s.Currency, &s.EffectiveFrom, &s.IsActive, &s.CreatedAt)
	return s, err
}

func (s *Store) Get(ctx context.Context, id string) (Structure, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+structureColumns+` FROM salary_structures WHERE id = $1`, id)
	st, err := scanStructure(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Structure{}, ErrNotFound
	}
	if err != nil {
		return Structure{}, fmt.Errorf("get salary structure: %w", err)
	}
	return st, nil
}

// ActiveByEmployee returns the currently active structure for one employee.
func (s *Store) ActiveByEmployee(ctx context.Context, employeeID string) (Structure, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+structureColumns+` FROM salary_structures
		 WHERE employee_id = $1 AND is_active`, employeeID)
	st, err := scanStructure(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Structure{}, ErrNotFound
	}
	if err != nil {
		return Structure{}, fmt.Errorf("active salary structure: %w", err)
	}
	return st, nil
}

// ActiveByEmployees fetches active structures for a batch of employees in one
// query. Employees with no active structure are absent from the result.
func (s *Store) ActiveByEmployees(ctx context.Context, employeeIDs []string) (map[string]Structure, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+structureColumns+` FROM salary_structures
		 WHERE employee_id = ANY($1) AND is_active`, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("active salary structures: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Structure, len(employeeIDs))
	for rows.Next() {
		st, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salary structure: %w", err)
		}
		out[st.EmployeeID] = st
	}
	return out, rows.Err()
}

// History lists all structures for an employee, newest first.
func (s *Store) History(ctx context.Context, employeeID string) ([]Structure, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+structureColumns+` FROM salary_structures
		 WHERE employee_id = $1
		 ORDER BY effective_from DESC, created_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("salary history: %w", err)
	}
	defer rows.Close()

	var out []Structure
	for rows.Next() {
		st, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salary structure: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type CreateInput struct {
	EmployeeID      string
	BasicSalary     float64
	HRA             float64
	Allowances      float64
	PFContribution  float64
	TDS             float64
	ProfessionalTax float64
	OtherDeductions float64
	Currency        string
	EffectiveFrom   time.Time
}

// Service wraps structure writes that must deactivate the prior active row
// atomically with the insert.
type Service struct {
	Pool  *pgxpool.Pool
	Store *Store
}

// Create inserts a new active structure for the employee, deactivating any
// existing active one in the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (Structure, error) {
	if in.Currency == "" {
		in.Currency = "INR"
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return Structure{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE salary_structures SET is_active = FALSE
		 WHERE employee_id = $1 AND is_active`, in.EmployeeID); err != nil {
		return Structure{}, fmt.Errorf("deactivate salary structures: %w", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO salary_structures
			(employee_id, basic_salary, hra, allowances, pf_contribution, tds,
			 professional_tax, other_deductions, currency, effective_from, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		 RETURNING `+structureColumns,
		in.EmployeeID, in.BasicSalary, in.HRA, in.Allowances, in.PFContribution,
		in.TDS, in.ProfessionalTax, in.OtherDeductions, in.Currency, in.EffectiveFrom)
	st, err := scanStructure(row)
	if err != nil {
		return Structure{}, fmt.Errorf("insert salary structure: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Structure{}, fmt.Errorf("commit: %w", err)
	}
	return st, nil
}

// Deactivate retires a structure without replacing it.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx,
		`UPDATE salary_structures SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate salary structure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
