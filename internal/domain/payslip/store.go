package payslip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrpay/internal/platform/querier"
)

const payslipColumns = `id, payroll_id, employee_id,
	COALESCE(template_id::text, ''), month, year, payslip_number,
	earnings_json, deductions_json, gross_salary, total_deductions, net_pay,
	net_pay_in_words, status, is_locked, version, finalized_at,
	COALESCE(finalized_by::text, ''), paid_at, created_at, updated_at`

type Store struct {
	DB querier.Querier
}

func scanPayslip(row pgx.Row) (Payslip, error) {
	var p Payslip
	var earnings, deductions []byte
	err := row.Scan(&p.ID, &p.PayrollID, &p.EmployeeID, &p.TemplateID,
		&p.Month, &p.Year, &p.PayslipNumber, &earnings, &deductions,
		&p.GrossSalary, &p.TotalDeductions, &p.NetPay, &p.NetPayInWords,
		&p.Status, &p.IsLocked, &p.Version, &p.FinalizedAt, &p.FinalizedBy,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Payslip{}, err
	}
	if err := json.Unmarshal(earnings, &p.Earnings); err != nil {
		return Payslip{}, fmt.Errorf("decode earnings: %w", err)
	}
	if err := json.Unmarshal(deductions, &p.Deductions); err != nil {
		return Payslip{}, fmt.Errorf("decode deductions: %w", err)
	}
	return p, nil
}

func (s *Store) Get(ctx context.Context, id string) (Payslip, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+payslipColumns+` FROM payslips WHERE id = $1`, id)
	p, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrNotFound
	}
	if err != nil {
		return Payslip{}, fmt.Errorf("get payslip: %w", err)
	}
	return p, nil
}

func (s *Store) GetByPayroll(ctx context.Context, payrollID string) (Payslip, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT `+payslipColumns+` FROM payslips WHERE payroll_id = $1`, payrollID)
	p, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrNotFound
	}
	if err != nil {
		return Payslip{}, fmt.Errorf("get payslip by payroll: %w", err)
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p Payslip) (Payslip, error) {
	earnings, err := json.Marshal(p.Earnings)
	if err != nil {
		return Payslip{}, fmt.Errorf("encode earnings: %w", err)
	}
	deductions, err := json.Marshal(p.Deductions)
	if err != nil {
		return Payslip{}, fmt.Errorf("encode deductions: %w", err)
	}

	row := s.DB.QueryRow(ctx,
		`INSERT INTO payslips
			(payroll_id, employee_id, template_id, month, year, payslip_number,
			 earnings_json, deductions_json, gross_salary, total_deductions,
			 net_pay, net_pay_in_words, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+payslipColumns,
		p.PayrollID, p.EmployeeID, nullIfEmpty(p.TemplateID), p.Month, p.Year,
		p.PayslipNumber, earnings, deductions, p.GrossSalary,
		p.TotalDeductions, p.NetPay, p.NetPayInWords, p.Status)
	out, err := scanPayslip(row)
	if err != nil {
		return Payslip{}, fmt.Errorf("insert payslip: %w", err)
	}
	return out, nil
}

// Update rewrites the itemized snapshot. Locked payslips are not updatable;
// the guard lives in the WHERE clause so a concurrent finalize cannot slip a
// write through.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (Payslip, error) {
	earnings, err := json.Marshal(in.Earnings)
	if err != nil {
		return Payslip{}, fmt.Errorf("encode earnings: %w", err)
	}
	deductions, err := json.Marshal(in.Deductions)
	if err != nil {
		return Payslip{}, fmt.Errorf("encode deductions: %w", err)
	}

	row := s.DB.QueryRow(ctx,
		`UPDATE payslips
		 SET earnings_json = $2, deductions_json = $3,
		     version = version + 1, updated_at = now()
		 WHERE id = $1 AND NOT is_locked
		 RETURNING `+payslipColumns, id, earnings, deductions)
	p, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, s.lockedOrMissing(ctx, id)
	}
	if err != nil {
		return Payslip{}, fmt.Errorf("update payslip: %w", err)
	}
	return p, nil
}

// Finalize locks a payslip, making it immutable.
func (s *Store) Finalize(ctx context.Context, id, actorUserID string) (Payslip, error) {
	row := s.DB.QueryRow(ctx,
		`UPDATE payslips
		 SET status = $2, is_locked = TRUE, finalized_at = now(),
		     finalized_by = $3, updated_at = now()
		 WHERE id = $1 AND NOT is_locked
		 RETURNING `+payslipColumns, id, StatusFinalized, actorUserID)
	p, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, s.lockedOrMissing(ctx, id)
	}
	if err != nil {
		return Payslip{}, fmt.Errorf("finalize payslip: %w", err)
	}
	return p, nil
}

// Unlock reopens a finalized payslip for correction.
func (s *Store) Unlock(ctx context.Context, id string) (Payslip, error) {
	row := s.DB.QueryRow(ctx,
		`UPDATE payslips
		 SET status = $2, is_locked = FALSE, finalized_at = NULL,
		     finalized_by = NULL, updated_at = now()
		 WHERE id = $1 AND is_locked
		 RETURNING `+payslipColumns, id, StatusDraft)
	p, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, gerr := s.Get(ctx, id); gerr != nil {
			return Payslip{}, gerr
		}
		return Payslip{}, ErrInvalidState
	}
	if err != nil {
		return Payslip{}, fmt.Errorf("unlock payslip: %w", err)
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx,
		`DELETE FROM payslips WHERE id = $1 AND NOT is_locked`, id)
	if err != nil {
		return fmt.Errorf("delete payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.lockedOrMissing(ctx, id)
	}
	return nil
}

// lockedOrMissing disambiguates a zero-row write: the row either does not
// exist or is locked.
func (s *Store) lockedOrMissing(ctx context.Context, id string) error {
	var locked bool
	err := s.DB.QueryRow(ctx,
		`SELECT is_locked FROM payslips WHERE id = $1`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check payslip lock: %w", err)
	}
	if locked {
		return ErrLocked
	}
	return ErrNotFound
}

const templateColumns = `id, name, company_name, header_text, footer_text,
        show_leave_balance, is_default, is_active, created_at`

func scanTemplate(row pgx.Row) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Name, &t.CompanyName, &t.HeaderText,
		&t.FooterText, &t.ShowLeaveBalance, &t.IsDefault, &t.IsActive,
		&t.CreatedAt)
	return t, err
}

// DefaultTemplate returns the active default template.
func (s *Store) DefaultTemplate(ctx context.Context) (Template, error) {
	t, err := scanTemplate(s.DB.QueryRow(ctx,
		`SELECT `+templateColumns+`
		 FROM payslip_templates
		 WHERE is_default AND is_active
		 ORDER BY created_at
		 LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrNoTemplate
	}
	if err != nil {
		return Template{}, fmt.Errorf("default template: %w", err)
	}
	return t, nil
}

// GetTemplate loads a template by id.
func (s *Store) GetTemplate(ctx context.Context, id string) (Template, error) {
	t, err := scanTemplate(s.DB.QueryRow(ctx,
		`SELECT `+templateColumns+`
		 FROM payslip_templates
		 WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrNoTemplate
	}
	if err != nil {
		return Template{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
