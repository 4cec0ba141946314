package payslip

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/payroll"
)

// RenderPDF writes the payslip document to w. Section layout follows the
// template: company header, employee info, earnings, deductions, net pay in
// figures and words, optional leave summary, footer.
func RenderPDF(w io.Writer, slip Payslip, pr payroll.Payroll, emp directory.Employee, t Template) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, t.CompanyName, "", 1, "C", false, 0, "")
	if t.HeaderText != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, t.HeaderText, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	title := fmt.Sprintf("Payslip for %s %d", time.Month(slip.Month), slip.Year)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Payslip No: %s", slip.PayslipNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s %s", emp.FirstName, emp.LastName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Pay Period: %s to %s",
		pr.PayPeriodStart.Format("2006-01-02"), pr.PayPeriodEnd.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Working Days: %d    Days Worked: %d",
		pr.WorkingDays, pr.ActualWorkingDays))
	pdf.Ln(10)

	renderItemTable(pdf, "Earnings", slip.Earnings, slip.GrossSalary)
	pdf.Ln(4)
	renderItemTable(pdf, "Deductions", slip.Deductions, slip.TotalDeductions)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net Pay: %.2f", slip.NetPay))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, slip.NetPayInWords)
	pdf.Ln(8)

	if t.ShowLeaveBalance {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Approved Leave This Period: %.1f day(s)", pr.LeaveDays))
		pdf.Ln(8)
	}

	if t.FooterText != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, t.FooterText, "", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

func renderItemTable(pdf *gofpdf.Fpdf, title string, items map[string]float64, total float64) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, title)
	pdf.Ln(7)

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	pdf.SetFont("Helvetica", "", 10)
	for _, name := range names {
		pdf.CellFormat(120, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", items[name]), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")
}
