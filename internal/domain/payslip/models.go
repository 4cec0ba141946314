package payslip

import "time"

const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
	StatusPaid      = "paid"
)

// Payslip is an immutable-once-locked snapshot of a payroll computation,
// itemized for presentation. Figures are copied at materialization time so a
// later salary change cannot rewrite an issued slip.
type Payslip struct {
	ID              string             `json:"id"`
	PayrollID       string             `json:"payrollId"`
	EmployeeID      string             `json:"employeeId"`
	TemplateID      string             `json:"templateId,omitempty"`
	Month           int                `json:"month"`
	Year            int                `json:"year"`
	PayslipNumber   string             `json:"payslipNumber"`
	Earnings        map[string]float64 `json:"earnings"`
	Deductions      map[string]float64 `json:"deductions"`
	GrossSalary     float64            `json:"grossSalary"`
	TotalDeductions float64            `json:"totalDeductions"`
	NetPay          float64            `json:"netPay"`
	NetPayInWords   string             `json:"netPayInWords"`
	Status          string             `json:"status"`
	IsLocked        bool               `json:"isLocked"`
	Version         int                `json:"version"`
	FinalizedAt     *time.Time         `json:"finalizedAt,omitempty"`
	FinalizedBy     string             `json:"finalizedBy,omitempty"`
	PaidAt          *time.Time         `json:"paidAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Template controls payslip presentation. One row is flagged default.
type Template struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CompanyName      string    `json:"companyName"`
	HeaderText       string    `json:"headerText"`
	FooterText       string    `json:"footerText"`
	ShowLeaveBalance bool      `json:"showLeaveBalance"`
	IsDefault        bool      `json:"isDefault"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}

type UpdateInput struct {
	Earnings   map[string]float64
	Deductions map[string]float64
	Notes      string
}
