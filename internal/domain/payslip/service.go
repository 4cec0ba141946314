package payslip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/domain/salary"
)

type Service struct {
	Store     *Store
	Payrolls  *payroll.Store
	Salaries  *salary.Store
	Directory *directory.Store
	Logger    *slog.Logger
}

// Materialize produces the payslip for a payroll record, creating it on
// first call and returning the existing one thereafter.
func (s *Service) Materialize(ctx context.Context, payrollID string) (Payslip, error) {
	existing, err := s.Store.GetByPayroll(ctx, payrollID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Payslip{}, err
	}

	pr, err := s.Payrolls.Get(ctx, payrollID)
	if err != nil {
		return Payslip{}, err
	}

	deductions := map[string]float64{}
	if structure, err := s.Salaries.ActiveByEmployee(ctx, pr.EmployeeID); err == nil {
		if structure.PFContribution > 0 {
			deductions["PF Contribution"] = structure.PFContribution
		}
		if structure.ProfessionalTax > 0 {
			deductions["Professional Tax"] = structure.ProfessionalTax
		}
		if structure.TDS > 0 {
			deductions["TDS"] = structure.TDS
		}
	} else if !errors.Is(err, salary.ErrNotFound) {
		return Payslip{}, err
	}

	var templateID string
	template, err := s.Store.DefaultTemplate(ctx)
	switch {
	case err == nil:
		templateID = template.ID
	case errors.Is(err, ErrNoTemplate):
		s.Logger.Warn("no default payslip template, rendering unbranded",
			slog.String("payrollId", payrollID))
	default:
		return Payslip{}, err
	}

	return s.Store.Create(ctx, Payslip{
		PayrollID:       pr.ID,
		EmployeeID:      pr.EmployeeID,
		TemplateID:      templateID,
		Month:           pr.Month,
		Year:            pr.Year,
		PayslipNumber:   newPayslipNumber(pr.Month, pr.Year),
		Earnings:        map[string]float64{"Basic Salary": pr.GrossSalary},
		Deductions:      deductions,
		GrossSalary:     pr.GrossSalary,
		TotalDeductions: pr.TotalDeductions,
		NetPay:          pr.NetSalary,
		NetPayInWords:   NumberToWords(pr.NetSalary),
		Status:          StatusDraft,
	})
}

func newPayslipNumber(month, year int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PS-%04d%02d-%s", year, month, suffix)
}
