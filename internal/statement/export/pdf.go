package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/keystone-pm/keystone/internal/statement"
)

func newDocument(propertyName, title, date string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AliasNbPages("")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 7, propertyName)
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("%s - %s", title, date))
		pdf.Ln(9)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return pdf
}

// CollectionPDF renders a collection statement as a paginated printable
// document: letterhead, one table per structural group with a subtotal
// row, and a running grand-total footer block.
func CollectionPDF(stmt statement.CollectionStatement) ([]byte, error) {
	pdf := newDocument(stmt.PropertyName, "Collection Statement", stmt.GeneratedAt.Format("2006-01-02"))

	widths := []float64{16, 38, 20, 22, 22, 22, 22, 24}
	headers := []string{"Unit", "Tenant", "Charge", "Rent", "Svc Charge", "VAT", "Payable", "Balance"}

	for _, grp := range stmt.Groups {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, grp.Label)
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 8)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range grp.Rows {
			pdf.CellFormat(widths[0], 6, row.UnitLabel, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, row.TenantName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, row.ServiceChargeType, "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[3], 6, money(row.RentDisplay), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 6, money(row.ServiceCharge), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[5], 6, money(row.VATAmount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[6], 6, money(row.AmountPayable), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[7], 6, money(row.Balance), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}

		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(widths[0]+widths[1]+widths[2], 6, "TOTAL", "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, money(grp.Total.Rent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, money(grp.Total.ServiceCharge), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, money(grp.Total.VAT), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, money(grp.Total.Payable), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[7], 6, money(grp.Total.Balance), "1", 0, "R", false, 0, "")
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Grand Total")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 9)
	totals := []struct {
		label string
		value float64
	}{
		{"Deposit", stmt.GrandTotal.Deposit},
		{"Rent", stmt.GrandTotal.Rent},
		{"Service Charge", stmt.GrandTotal.ServiceCharge},
		{"VAT", stmt.GrandTotal.VAT},
		{"Amount Payable", stmt.GrandTotal.Payable},
		{"Amount Paid", stmt.GrandTotal.Paid},
		{"Balance", stmt.GrandTotal.Balance},
	}
	for _, entry := range totals {
		pdf.CellFormat(60, 6, entry.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, money(entry.value), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArrearsPDF renders an arrears report with an items table and a summary
// footer block.
func ArrearsPDF(report statement.ArrearsReport) ([]byte, error) {
	pdf := newDocument(report.PropertyName, "Arrears Report", report.GeneratedAt.Format("2006-01-02"))

	widths := []float64{18, 30, 40, 22, 24, 24, 24}
	headers := []string{"Kind", "Reference", "Tenant", "Due", "Expected", "Paid", "Balance"}

	pdf.SetFont("Arial", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, item := range report.Items {
		pdf.CellFormat(widths[0], 6, string(item.Kind), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, item.Reference, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, item.TenantName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, item.DueAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, money(item.Expected), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, money(item.Paid), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, money(item.Balance), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d item(s) in arrears", report.Summary.ItemCount))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Total expected: %s", money(report.Summary.TotalExpected)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total paid: %s", money(report.Summary.TotalPaid)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total arrears: %s", money(report.Summary.TotalArrears)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
