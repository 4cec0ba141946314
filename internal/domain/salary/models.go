package salary

import "time"

// Structure is a versioned snapshot of an employee's pay components. History
// is retained: compensation changes insert a new row and deactivate priors.
type Structure struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	BasicSalary     float64   `json:"basicSalary"`
	HRA             float64   `json:"hra"`
	Allowances      float64   `json:"allowances"`
	PFContribution  float64   `json:"pfContribution"`
	TDS             float64   `json:"tds"`
	ProfessionalTax float64   `json:"professionalTax"`
	OtherDeductions float64   `json:"otherDeductions"`
	Currency        string    `json:"currency"`
	EffectiveFrom   time.Time `json:"effectiveFrom"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}
