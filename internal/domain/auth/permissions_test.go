package auth

import "testing"

func TestEmployeeCannotApproveTimesheets(t *testing.T) {
	if HasPermission(RoleEmployee, PermTimesheetApprove) {
		t.Fatal("employee role must not carry timesheet.approve")
	}
	if HasPermission(RoleEmployee, PermPayrollGenerate) {
		t.Fatal("employee role must not carry payroll.generate")
	}
}

func TestManagerCanApproveButNotGenerate(t *testing.T) {
	if !HasPermission(RoleManager, PermTimesheetApprove) {
		t.Fatal("manager role must carry timesheet.approve")
	}
	if HasPermission(RoleManager, PermPayrollGenerate) {
		t.Fatal("manager role must not carry payroll.generate")
	}
}

func TestAdminAndHRCarryFullPayrollSet(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleHR} {
		for _, perm := range []string{PermPayrollGenerate, PermPayslipFinalize, PermSalaryWrite} {
			if !HasPermission(role, perm) {
				t.Fatalf("role %s missing %s", role, perm)
			}
		}
	}
}

func TestUnknownRoleHasNoPermissions(t *testing.T) {
	if HasPermission("superuser", PermPayrollRead) {
		t.Fatal("unknown roles must resolve to an empty permission set")
	}
}
