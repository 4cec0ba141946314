package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/leave"
	"hrpay/internal/domain/salary"
)

type Service struct {
	Pool   *pgxpool.Pool
	Store  *Store
	Logger *slog.Logger
}

// Generate runs a bulk payroll computation for the given employees and
// period. The whole batch commits or rolls back as one transaction.
// Generation is find-or-create per (employee, month, year): an existing row
// is returned untouched, never recomputed. Employees without an active salary
// structure are skipped without error.
func (s *Service) Generate(ctx context.Context, employeeIDs []string, month, year int, actorID string) (GenerateResult, error) {
	if len(employeeIDs) == 0 {
		return GenerateResult{}, nil
	}
	periodStart, periodEnd := PeriodBounds(month, year)
	workingDays := WorkingDaysInMonth(month, year)

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	structures := &salary.Store{DB: tx}
	leaves := &leave.Store{DB: tx}
	payrolls := &Store{DB: tx}

	activeByEmp, err := structures.ActiveByEmployees(ctx, employeeIDs)
	if err != nil {
		return GenerateResult{}, err
	}
	hoursByEmp, err := payrolls.ApprovedHoursByEmployee(ctx, employeeIDs, periodStart, periodEnd)
	if err != nil {
		return GenerateResult{}, err
	}
	leaveByEmp, err := leaves.ApprovedDaysByEmployee(ctx, employeeIDs, periodStart, periodEnd)
	if err != nil {
		return GenerateResult{}, err
	}

	var result GenerateResult
	for _, empID := range employeeIDs {
		structure, ok := activeByEmp[empID]
		if !ok {
			result.Skipped = append(result.Skipped, empID)
			s.Logger.Info("payroll skipped, no active salary structure",
				slog.String("employeeId", empID),
				slog.Int("month", month), slog.Int("year", year))
			continue
		}

		existing, err := payrolls.FindByPeriod(ctx, empID, month, year)
		if err == nil {
			result.Payrolls = append(result.Payrolls, existing)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return GenerateResult{}, err
		}

		att := Attendance{
			WorkedHours:       hoursByEmp[empID],
			ActualWorkedDays:  int(math.Floor(hoursByEmp[empID] / 8)),
			ApprovedLeaveDays: leaveByEmp[empID],
		}
		amounts, coerced := ComputePay(structure, workingDays, att.PayableDays())
		if coerced {
			s.Logger.Warn("payroll amount coerced from NaN",
				slog.String("employeeId", empID),
				slog.Int("month", month), slog.Int("year", year))
		}

		created, err := payrolls.Create(ctx, Payroll{
			EmployeeID:        empID,
			Month:             month,
			Year:              year,
			PayPeriodStart:    periodStart,
			PayPeriodEnd:      periodEnd,
			WorkingDays:       workingDays,
			ActualWorkingDays: att.ActualWorkedDays,
			LeaveDays:         att.ApprovedLeaveDays,
			GrossSalary:       amounts.Gross,
			TotalDeductions:   amounts.Deductions,
			NetSalary:         amounts.Net,
			Status:            StatusDraft,
			ProcessedBy:       actorID,
		})
		if err != nil {
			return GenerateResult{}, err
		}
		result.Payrolls = append(result.Payrolls, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return GenerateResult{}, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// MarkPaid transitions a draft payroll to Paid.
func (s *Service) MarkPaid(ctx context.Context, id string) (Payroll, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	if p.Status != StatusDraft {
		return Payroll{}, ErrInvalidState
	}
	return s.Store.UpdateStatus(ctx, id, StatusPaid)
}
