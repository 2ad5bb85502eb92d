package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/keystone-pm/keystone/internal/statement"
)

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// CollectionXLSX renders a collection statement as a multi-section sheet:
// header block, one table per structural group with a totals row, a
// grand-total summary table, and a financial-overview text block. Totals
// rows are written as SUM formulas over the group's rows; they evaluate to
// the same values the aggregator computed.
func CollectionXLSX(stmt statement.CollectionStatement) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Collection"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", stmt.PropertyName)
	_ = f.SetCellValue(sheet, "A2", "Collection Statement")
	_ = f.SetCellValue(sheet, "A3", "Generated")
	_ = f.SetCellValue(sheet, "B3", stmt.GeneratedAt.Format("2006-01-02"))

	headers := []string{"Unit", "Tenant", "Charge Type", "Deposit", "Rent", "Service Charge", "VAT", "Payable", "Paid", "Balance"}
	row := 5
	for _, grp := range stmt.Groups {
		cell := fmt.Sprintf("A%d", row)
		_ = f.SetCellValue(sheet, cell, grp.Label)
		row++
		for col, h := range headers {
			name, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, name, h)
		}
		row++
		firstDataRow := row
		for _, lr := range grp.Rows {
			values := []interface{}{
				lr.UnitLabel, lr.TenantName, lr.ServiceChargeType,
				lr.Deposit, lr.RentDisplay, lr.ServiceCharge, lr.VATAmount,
				lr.AmountPayable, lr.AmountPaid, lr.Balance,
			}
			for col, v := range values {
				name, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(sheet, name, v)
			}
			row++
		}
		lastDataRow := row - 1
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTAL")
		// Numeric columns D..J get SUM formulas over the group's rows.
		for col := 4; col <= 10; col++ {
			name, _ := excelize.CoordinatesToCellName(col, row)
			colName, _ := excelize.ColumnNumberToName(col)
			if lastDataRow >= firstDataRow {
				formula := fmt.Sprintf("SUM(%s%d:%s%d)", colName, firstDataRow, colName, lastDataRow)
				_ = f.SetCellFormula(sheet, name, formula)
			} else {
				_ = f.SetCellValue(sheet, name, 0)
			}
		}
		row += 2
	}

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "GRAND TOTAL")
	row++
	summaryRows := []struct {
		label string
		value float64
	}{
		{"Deposit", stmt.GrandTotal.Deposit},
		{"Rent", stmt.GrandTotal.Rent},
		{"Service Charge", stmt.GrandTotal.ServiceCharge},
		{"VAT", stmt.GrandTotal.VAT},
		{"Payable", stmt.GrandTotal.Payable},
		{"Paid", stmt.GrandTotal.Paid},
		{"Balance", stmt.GrandTotal.Balance},
	}
	for _, entry := range summaryRows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.value)
		row++
	}

	row++
	overview := fmt.Sprintf(
		"Of the %s payable for %s, %s has been collected leaving an outstanding balance of %s.",
		money(stmt.GrandTotal.Payable), stmt.PropertyName,
		money(stmt.GrandTotal.Paid), money(stmt.GrandTotal.Balance),
	)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Financial Overview")
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), overview)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArrearsXLSX renders an arrears report: header block, items table and a
// summary block.
func ArrearsXLSX(report statement.ArrearsReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Arrears"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", report.PropertyName)
	_ = f.SetCellValue(sheet, "A2", "Arrears Report")
	_ = f.SetCellValue(sheet, "A3", "Generated")
	_ = f.SetCellValue(sheet, "B3", report.GeneratedAt.Format("2006-01-02"))

	headers := []string{"Kind", "Reference", "Tenant", "Due", "Expected", "Paid", "Balance", "Status"}
	for col, h := range headers {
		name, _ := excelize.CoordinatesToCellName(col+1, 5)
		_ = f.SetCellValue(sheet, name, h)
	}
	row := 6
	for _, item := range report.Items {
		values := []interface{}{
			string(item.Kind), item.Reference, item.TenantName,
			item.DueAt.Format("2006-01-02"),
			item.Expected, item.Paid, item.Balance, string(item.Status),
		}
		for col, v := range values {
			name, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, name, v)
		}
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Items")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.Summary.ItemCount)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Total Expected")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row+1), report.Summary.TotalExpected)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), "Total Paid")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), report.Summary.TotalPaid)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row+3), "Total Arrears")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row+3), report.Summary.TotalArrears)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
