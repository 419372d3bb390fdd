package reports

import (
	"fmt"
	"time"

	"business-finance-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	invoiceSheet = "Invoices"
	expenseSheet = "Expenses"
)

// BuildWorkbook renders the user's invoices and expenses into a two-sheet
// xlsx workbook.
func BuildWorkbook(invoices []models.Invoice, expenses []models.Expense) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(expenseSheet); err != nil {
		return nil, err
	}

	invoiceHeaders := []string{"Client", "Total", "Status", "DueDate", "PaidAt", "CreatedAt"}
	for i, h := range invoiceHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(invoiceSheet, cell, h)
	}
	for i, inv := range invoices {
		row := i + 2
		f.SetCellValue(invoiceSheet, fmt.Sprintf("A%d", row), inv.Client.Name)
		f.SetCellValue(invoiceSheet, fmt.Sprintf("B%d", row), inv.Total)
		f.SetCellValue(invoiceSheet, fmt.Sprintf("C%d", row), inv.Status)
		f.SetCellValue(invoiceSheet, fmt.Sprintf("D%d", row), formatDate(inv.DueDate))
		if inv.PaidAt != nil {
			f.SetCellValue(invoiceSheet, fmt.Sprintf("E%d", row), formatDate(*inv.PaidAt))
		}
		f.SetCellValue(invoiceSheet, fmt.Sprintf("F%d", row), formatDate(inv.CreatedAt))
	}

	expenseHeaders := []string{"Amount", "Category", "Date", "CreatedAt"}
	for i, h := range expenseHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(expenseSheet, cell, h)
	}
	for i, exp := range expenses {
		row := i + 2
		f.SetCellValue(expenseSheet, fmt.Sprintf("A%d", row), exp.Amount)
		f.SetCellValue(expenseSheet, fmt.Sprintf("B%d", row), exp.Category)
		f.SetCellValue(expenseSheet, fmt.Sprintf("C%d", row), formatDate(exp.Date))
		f.SetCellValue(expenseSheet, fmt.Sprintf("D%d", row), formatDate(exp.CreatedAt))
	}

	return f, nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
