package report

import (
	"bytes"
	"testing"

	"github.com/MuazAshraf/pharmacy-pos/domain"
)

func TestRenderPDF(t *testing.T) {
	rep := &domain.Report{
		Sales: domain.SalesSection{
			Data: []domain.SalesRow{
				{SaltName: "Paracetamol", BrandName: "Panadol", ShelfNo: "A1", TotalQuantity: 3, TotalSales: 12, Unit: "tablets", SaleDate: "2025-03-10"},
			},
		},
		Purchases: domain.PurchaseSection{
			Data: []domain.PurchaseRow{
				{SaltName: "Paracetamol", BrandName: "Panadol", ShelfNo: "A1", PurchaseQuantity: 100, PurchasePrice: 5, Unit: "tablets", PurchaseDate: "2025-03-01", TotalCost: 500},
			},
		},
	}
	rep.Summarize()

	out, err := RenderPDF(rep, "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF magic bytes")
	}
	if len(out) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderPDFEmptyReport(t *testing.T) {
	rep := &domain.Report{}
	rep.Summarize()

	out, err := RenderPDF(rep, "2025-01-01", "2025-01-02")
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF magic bytes")
	}
}
