// Package export renders order history as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/tealeg/xlsx"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	ordersSheet = "Orders"
	linesSheet  = "Lines"
	timeLayout  = "2006-01-02 15:04:05"
)

var (
	orderHeaders = []string{"Order ID", "Created At", "Payment Terms", "Items", "Subtotal", "Discount", "Total", "Note"}
	lineHeaders  = []string{"Order ID", "Product ID", "Name", "Unit", "Unit Price", "Quantity", "Line Total"}
)

// WriteOrders writes one row per order on the Orders sheet and one row per
// order line on the Lines sheet.
func WriteOrders(w io.Writer, orders []models.SubmittedOrder) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet(ordersSheet)
	if err != nil {
		return fmt.Errorf("add %s sheet: %w", ordersSheet, err)
	}

	lines, err := file.AddSheet(linesSheet)
	if err != nil {
		return fmt.Errorf("add %s sheet: %w", linesSheet, err)
	}

	addHeader(summary, orderHeaders)
	addHeader(lines, lineHeaders)

	for i := range orders {
		o := &orders[i]

		row := summary.AddRow()
		row.AddCell().SetString(o.ID.String())
		row.AddCell().SetString(o.CreatedAt.UTC().Format(timeLayout))
		row.AddCell().SetString(o.PaymentTerms.Display())
		row.AddCell().SetInt(o.ItemCount())
		row.AddCell().SetFloat(o.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(o.Discount.InexactFloat64())
		row.AddCell().SetFloat(o.Total.InexactFloat64())
		row.AddCell().SetString(o.Note)

		for _, l := range o.Lines {
			lr := lines.AddRow()
			lr.AddCell().SetString(o.ID.String())
			lr.AddCell().SetString(l.ProductID)
			lr.AddCell().SetString(l.Name)
			lr.AddCell().SetString(l.Unit)
			lr.AddCell().SetFloat(l.UnitPrice.InexactFloat64())
			lr.AddCell().SetInt(l.Quantity)
			lr.AddCell().SetFloat(l.LineTotal().InexactFloat64())
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
}
