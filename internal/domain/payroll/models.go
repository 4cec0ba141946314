package payroll

import "time"

const (
	StatusDraft = "Draft"
	StatusPaid  = "Paid"
)

type Payroll struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	Month             int        `json:"month"`
	Year              int        `json:"year"`
	PayPeriodStart    time.Time  `json:"payPeriodStart"`
	PayPeriodEnd      time.Time  `json:"payPeriodEnd"`
	WorkingDays       int        `json:"workingDays"`
	ActualWorkingDays int        `json:"actualWorkingDays"`
	LeaveDays         float64    `json:"leaveDays"`
	GrossSalary       float64    `json:"grossSalary"`
	TotalDeductions   float64    `json:"totalDeductions"`
	NetSalary         float64    `json:"netSalary"`
	Status            string     `json:"status"`
	ProcessedBy       string     `json:"processedBy,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Attendance is one employee's aggregated presence for a pay period.
type Attendance struct {
	WorkedHours       float64
	ActualWorkedDays  int
	ApprovedLeaveDays float64
}

// PayableDays is the pro-rata numerator: days worked plus approved leave.
func (a Attendance) PayableDays() float64 {
	return float64(a.ActualWorkedDays) + a.ApprovedLeaveDays
}

// GenerateResult reports one bulk generation run.
type GenerateResult struct {
	Payrolls []Payroll `json:"payrolls"`
	Skipped  []string  `json:"skipped,omitempty"`
}

type ListFilter struct {
	EmployeeIDs []string
	Month       int
	Year        int
	Status      string
	Page        int
	PerPage     int
}
