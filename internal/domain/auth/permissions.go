package auth

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead    = "employees.read"
	PermEmployeesWrite   = "employees.write"
	PermSalaryRead       = "salary.read"
	PermSalaryWrite      = "salary.write"
	PermTimesheetRead    = "timesheet.read"
	PermTimesheetWrite   = "timesheet.write"
	PermTimesheetApprove = "timesheet.approve"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermPayrollRead      = "payroll.read"
	PermPayrollGenerate  = "payroll.generate"
	PermPayrollWrite     = "payroll.write"
	PermPayslipRead      = "payslip.read"
	PermPayslipWrite     = "payslip.write"
	PermPayslipFinalize  = "payslip.finalize"
)

// RolePermissions is the fixed permission set per role. Authorization checks
// go through HasPermission rather than ad hoc role comparisons in handlers.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermPayrollRead,
		PermPayslipRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermTimesheetApprove,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayslipRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermSalaryRead,
		PermSalaryWrite,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermTimesheetApprove,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayrollGenerate,
		PermPayrollWrite,
		PermPayslipRead,
		PermPayslipWrite,
		PermPayslipFinalize,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermSalaryRead,
		PermSalaryWrite,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermTimesheetApprove,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayrollGenerate,
		PermPayrollWrite,
		PermPayslipRead,
		PermPayslipWrite,
		PermPayslipFinalize,
	},
}

func HasPermission(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

// CanDecideApprovals reports whether the role may approve or reject on behalf
// of employees it does not manage directly.
func CanDecideApprovals(role string) bool {
	return role == RoleAdmin || role == RoleHR
}
