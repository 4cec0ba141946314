package timesheet

import "time"

const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

// DailyHours holds one entry per weekday, Monday first.
type DailyHours [7]float64

func (d DailyHours) Sum() float64 {
	total := 0.0
	for _, hours := range d {
		total += hours
	}
	return total
}

type Timesheet struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employeeId"`
	ProjectID        string     `json:"projectId"`
	TaskID           string     `json:"taskId"`
	WeekStartDate    time.Time  `json:"weekStartDate"`
	WeekEndDate      time.Time  `json:"weekEndDate"`
	WeekNumber       int        `json:"weekNumber"`
	Year             int        `json:"year"`
	Hours            DailyHours `json:"dailyHours"`
	TotalHoursWorked float64    `json:"totalHoursWorked"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	SubmittedAt      *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	RejectedAt       *time.Time `json:"rejectedAt,omitempty"`
	ApproverComments string     `json:"approverComments,omitempty"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CreateInput carries the fields an employee supplies when opening a draft.
type CreateInput struct {
	EmployeeID       string
	ProjectID        string
	TaskID           string
	WeekStartDate    time.Time
	Hours            DailyHours
	TotalHoursWorked float64
	Description      string
}

// EditInput carries the editable fields of a Draft or Rejected timesheet.
type EditInput struct {
	Hours            DailyHours
	TotalHoursWorked float64
	Description      string
}

type ListFilter struct {
	EmployeeIDs []string
	Status      string
	ProjectID   string
	Year        int
	WeekNumber  int
	Limit       int
	Offset      int
}
