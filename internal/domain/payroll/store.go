package payroll

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrpay/internal/platform/querier"
)

const payrollColumns = `id, employee_id, month, year, pay_period_start,
	pay_period_end, working_days, actual_working_days, leave_days, gross_salary,
	total_deductions, net_salary, status, COALESCE(processed_by::text, ''),
	paid_at, notes, created_at`

type Store struct {
	DB querier.Querier
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	err := row.Scan(&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.PayPeriodStart,
		&p.PayPeriodEnd, &p.WorkingDays, &p.ActualWorkingDays, &p.LeaveDays,
		&p.GrossSalary, &p.TotalDeductions, &p.NetSalary, &p.Status,
		&p.ProcessedBy, &p.PaidAt, &p.Notes, &p.CreatedAt)
	return p, err
}

func (s *Store) Get(ctx context.Context, id string) (Payroll, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+payrollColumns+` FROM payrolls WHERE id = $1`, id)
	p, err := scanPayroll(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, fmt.Errorf("get payroll: %w", err)
	}
	return p, nil
}

// FindByPeriod looks up the one payroll row for (employee, month, year).
func (s *Store) FindByPeriod(ctx context.Context, employeeID string, month, year int) (Payroll, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+payrollColumns+` FROM payrolls
		 WHERE employee_id = $1 AND month = $2 AND year = $3`,
		employeeID, month, year)
	p, err := scanPayroll(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, fmt.Errorf("find payroll: %w", err)
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p Payroll) (Payroll, error) {
	row := s.DB.QueryRow(ctx,
		`INSERT INTO payrolls
			(employee_id, month, year, pay_period_start, pay_period_end,
			 working_days, actual_working_days, leave_days, gross_salary,
			 total_deductions, net_salary, status, processed_by, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+payrollColumns,
		p.EmployeeID, p.Month, p.Year, p.PayPeriodStart, p.PayPeriodEnd,
		p.WorkingDays, p.ActualWorkingDays, p.LeaveDays, p.GrossSalary,
		p.TotalDeductions, p.NetSalary, p.Status, nullIfEmpty(p.ProcessedBy), p.Notes)
	out, err := scanPayroll(row)
	if err != nil {
		return Payroll{}, fmt.Errorf("insert payroll: %w", err)
	}
	return out, nil
}

// UpdateStatus transitions a payroll's status. Moving to Paid stamps paid_at.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (Payroll, error) {
	row := s.DB.QueryRow(ctx,
		`UPDATE payrolls
		 SET status = $2,
		     paid_at = CASE WHEN $2 = '`+StatusPaid+`' THEN now() ELSE paid_at END
		 WHERE id = $1
		 RETURNING `+payrollColumns, id, status)
	p, err := scanPayroll(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, fmt.Errorf("update payroll status: %w", err)
	}
	return p, nil
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Payroll, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if len(f.EmployeeIDs) > 0 {
		args = append(args, f.EmployeeIDs)
		where = append(where, "employee_id = ANY($"+strconv.Itoa(len(args))+")")
	}
	if f.Month > 0 {
		args = append(args, f.Month)
		where = append(where, "month = $"+strconv.Itoa(len(args)))
	}
	if f.Year > 0 {
		args = append(args, f.Year)
		where = append(where, "year = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx,
		`SELECT count(*) FROM payrolls WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payrolls: %w", err)
	}

	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)
	rows, err := s.DB.Query(ctx,
		`SELECT `+payrollColumns+` FROM payrolls WHERE `+cond+`
		 ORDER BY year DESC, month DESC, created_at DESC
		 LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payrolls: %w", err)
	}
	defer rows.Close()

	var out []Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payroll: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// ApprovedHoursByEmployee sums approved timesheet hours per employee for
// weeks starting within the period, in a single query.
func (s *Store) ApprovedHoursByEmployee(ctx context.Context, employeeIDs []string, periodStart, periodEnd time.Time) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT employee_id, SUM(total_hours_worked)
		 FROM timesheets
		 WHERE employee_id = ANY($1)
		   AND status = 'Approved'
		   AND week_start_date BETWEEN $2 AND $3
		 GROUP BY employee_id`,
		employeeIDs, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("approved hours: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(employeeIDs))
	for rows.Next() {
		var id string
		var hours float64
		if err := rows.Scan(&id, &hours); err != nil {
			return nil, fmt.Errorf("scan approved hours: %w", err)
		}
		out[id] = hours
	}
	return out, rows.Err()
}
