package directory

import "time"

type Employee struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employeeCode"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"departmentId,omitempty"`
	PositionID   string    `json:"positionId,omitempty"`
	ManagerID    string    `json:"managerId,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Position struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type Task struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
}
