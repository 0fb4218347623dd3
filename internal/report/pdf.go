// Package report renders the sales/purchase report as a PDF document.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/MuazAshraf/pharmacy-pos/domain"
)

var salesHeader = []string{"Medicine", "Quantity", "Amount", "Date"}
var purchaseHeader = []string{"Medicine", "Quantity", "Cost", "Date"}

// RenderPDF lays out the report as a title, a sales summary with its
// table, then a purchase summary with its table, and returns the PDF
// bytes.
func RenderPDF(rep *domain.Report, startDate, endDate string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(pageWidth-20, 10, "Sales and Purchase Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(pageWidth-20, 8, fmt.Sprintf("Period: %s to %s", startDate, endDate), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Sales Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Sales: PKR %.2f", rep.Sales.Summary.TotalSales), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Items Sold: %d", rep.Sales.Summary.TotalItems), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Unique Medicines: %d", rep.Sales.Summary.UniqueMedicines), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	salesRows := make([][]string, 0, len(rep.Sales.Data))
	for _, row := range rep.Sales.Data {
		salesRows = append(salesRows, []string{
			fmt.Sprintf("%s (%s)", row.BrandName, row.SaltName),
			fmt.Sprintf("%d %s", row.TotalQuantity, row.Unit),
			fmt.Sprintf("PKR %.2f", row.TotalSales),
			row.SaleDate,
		})
	}
	drawTable(pdf, salesHeader, salesRows)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Purchase Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Cost: PKR %.2f", rep.Purchases.Summary.TotalCost), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Items Purchased: %d", rep.Purchases.Summary.TotalItems), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Unique Medicines: %d", rep.Purchases.Summary.UniqueMedicines), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	purchaseRows := make([][]string, 0, len(rep.Purchases.Data))
	for _, row := range rep.Purchases.Data {
		purchaseRows = append(purchaseRows, []string{
			fmt.Sprintf("%s (%s)", row.BrandName, row.SaltName),
			fmt.Sprintf("%d %s", row.PurchaseQuantity, row.Unit),
			fmt.Sprintf("PKR %.2f", row.TotalCost),
			row.PurchaseDate,
		})
	}
	drawTable(pdf, purchaseHeader, purchaseRows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTable(pdf *gofpdf.Fpdf, header []string, rows [][]string) {
	widths := []float64{75, 35, 40, 30}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, title := range header {
		pdf.CellFormat(widths[i], 8, title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	pdf.SetFillColor(240, 240, 240)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
	if len(rows) == 0 {
		pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "No records in range", "1", 1, "C", false, 0, "")
	}
}
