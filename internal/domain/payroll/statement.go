package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"hrportal/internal/domain/core"
)

// WriteStatement renders a payroll statement for emp. Records are printed in
// the order given.
func WriteStatement(w io.Writer, emp core.Employee, records []Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payroll statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (#%d)", emp.Name, emp.ID))
	pdf.Ln(7)
	if emp.Department != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", emp.Department))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	headers := []string{"Month", "Base salary", "Bonus", "Deductions", "Net pay"}
	widths := []float64{30, 40, 35, 40, 40}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	if len(records) == 0 {
		pdf.CellFormat(sum(widths), 8, "No payroll records", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, r := range records {
		cells := []string{
			r.Month,
			r.BaseSalary.StringFixed(2),
			r.Bonus.StringFixed(2),
			r.Deductions.StringFixed(2),
			r.NetPay.StringFixed(2),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 8, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
