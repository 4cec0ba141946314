package payroll

import (
	"math"
	"testing"

	"hrpay/internal/domain/salary"
)

func TestWorkingDaysInMonth(t *testing.T) {
	tests := []struct {
		month, year, want int
	}{
		{1, 2025, 23},  // January 2025
		{2, 2025, 20},  // February 2025
		{8, 2025, 21},  // August 2025
		{2, 2024, 21},  // leap February
		{12, 2025, 23}, // December 2025
	}
	for _, tt := range tests {
		if got := WorkingDaysInMonth(tt.month, tt.year); got != tt.want {
			t.Errorf("WorkingDaysInMonth(%d, %d) = %d, want %d", tt.month, tt.year, got, tt.want)
		}
	}
}

func TestPeriodBounds(t *testing.T) {
	start, end := PeriodBounds(2, 2024)
	if start.Day() != 1 || start.Month() != 2 {
		t.Errorf("start = %v", start)
	}
	if end.Day() != 29 || end.Month() != 2 {
		t.Errorf("end = %v, want Feb 29", end)
	}
}

func TestComputePay(t *testing.T) {
	s := salary.Structure{
		BasicSalary:     50000,
		PFContribution:  6000,
		ProfessionalTax: 200,
		TDS:             5000,
	}
	got, coerced := ComputePay(s, 22, 22)
	if coerced {
		t.Fatal("unexpected NaN coercion")
	}
	if got.Gross != 50000.00 {
		t.Errorf("gross = %v, want 50000.00", got.Gross)
	}
	if got.Deductions != 11200.00 {
		t.Errorf("deductions = %v, want 11200.00", got.Deductions)
	}
	if got.Net != 38800.00 {
		t.Errorf("net = %v, want 38800.00", got.Net)
	}
}

func TestComputePayProRated(t *testing.T) {
	s := salary.Structure{BasicSalary: 66000}
	got, _ := ComputePay(s, 22, 11)
	if got.Gross != 33000.00 {
		t.Errorf("gross = %v, want 33000.00", got.Gross)
	}
	if got.Net != 33000.00 {
		t.Errorf("net = %v, want 33000.00", got.Net)
	}
}

func TestComputePayRounding(t *testing.T) {
	s := salary.Structure{BasicSalary: 10000}
	got, _ := ComputePay(s, 21, 20)
	// 10000/21*20 = 9523.8095...
	if got.Gross != 9523.81 {
		t.Errorf("gross = %v, want 9523.81", got.Gross)
	}
}

func TestComputePayCoercesNaN(t *testing.T) {
	s := salary.Structure{BasicSalary: math.NaN(), PFContribution: 100}
	got, coerced := ComputePay(s, 22, 22)
	if !coerced {
		t.Fatal("expected coercion to be reported")
	}
	if got.Gross != 0 {
		t.Errorf("gross = %v, want 0", got.Gross)
	}
	if got.Net != 0 {
		t.Errorf("net = %v, want 0", got.Net)
	}
	if got.Deductions != 100 {
		t.Errorf("deductions = %v, want 100", got.Deductions)
	}
}

func TestAttendancePayableDays(t *testing.T) {
	a := Attendance{WorkedHours: 160, ActualWorkedDays: 20, ApprovedLeaveDays: 2}
	if got := a.PayableDays(); got != 22 {
		t.Errorf("payable days = %v, want 22", got)
	}
}
