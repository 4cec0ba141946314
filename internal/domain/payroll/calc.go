package payroll

import (
	"math"
	"time"

	"hrpay/internal/domain/salary"
)

// WorkingDaysInMonth counts Monday through Friday days in the calendar month.
// No holiday calendar is applied.
func WorkingDaysInMonth(month, year int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	days := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// PeriodBounds returns the first and last day of the pay period month.
func PeriodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// Amounts holds the three computed pay figures, rounded to two decimals.
type Amounts struct {
	Gross      float64
	Deductions float64
	Net        float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// safeAmount rounds to two decimals and coerces NaN or infinite values to
// zero. Callers should treat a true second return as a data-quality signal
// worth logging.
func safeAmount(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true
	}
	return round2(v), false
}

// ComputePay derives gross, deductions and net from the active salary
// structure and the period's payable days. The second return reports whether
// any figure was coerced from NaN/Inf.
func ComputePay(s salary.Structure, workingDays int, payableDays float64) (Amounts, bool) {
	gross := s.BasicSalary / float64(workingDays) * payableDays
	deductions := s.PFContribution + s.ProfessionalTax + s.TDS
	net := gross - deductions

	var a Amounts
	var g, d, n bool
	a.Gross, g = safeAmount(gross)
	a.Deductions, d = safeAmount(deductions)
	a.Net, n = safeAmount(net)
	return a, g || d || n
}
