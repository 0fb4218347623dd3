package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MuazAshraf/pharmacy-pos/domain"
	"github.com/MuazAshraf/pharmacy-pos/internal/store"
)

func paracetamol() domain.MedicineInput {
	return domain.MedicineInput{
		SaltName:        "Paracetamol",
		BrandName:       "Panadol",
		ActualPrice:     5,
		DiscountedPrice: 4,
		Quantity:        100,
		Unit:            "tablets",
		ExpiryDate:      "2026-01-01",
		ShelfNo:         "A1",
	}
}

func TestCreateMedicineRecordsInitialPurchase(t *testing.T) {
	s := New()
	ctx := context.Background()

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	if medicine.ID == 0 {
		t.Fatalf("expected generated id")
	}

	events := s.PurchaseEvents(medicine.ID)
	if len(events) != 1 {
		t.Fatalf("expected 1 purchase event, got %d", len(events))
	}
	if events[0].Quantity != 100 || events[0].Price != 5 {
		t.Fatalf("expected event qty=100 price=5, got qty=%d price=%v", events[0].Quantity, events[0].Price)
	}
}

func TestUpdateMedicineRestockAppendsDeltaEvent(t *testing.T) {
	s := New()
	ctx := context.Background()

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	restocked := *medicine
	restocked.Quantity = 130
	if err := s.UpdateMedicine(ctx, restocked); err != nil {
		t.Fatalf("update medicine: %v", err)
	}

	events := s.PurchaseEvents(medicine.ID)
	if len(events) != 2 {
		t.Fatalf("expected 2 purchase events after restock, got %d", len(events))
	}
	if events[1].Quantity != 30 {
		t.Fatalf("expected restock delta 30, got %d", events[1].Quantity)
	}
	if events[1].Price != restocked.ActualPrice {
		t.Fatalf("expected restock priced at actual price %v, got %v", restocked.ActualPrice, events[1].Price)
	}
}

func TestUpdateMedicineDecreaseIsSilent(t *testing.T) {
	s := New()
	ctx := context.Background()

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	// Equal quantity: no ledger entry.
	if err := s.UpdateMedicine(ctx, *medicine); err != nil {
		t.Fatalf("update medicine: %v", err)
	}
	// Lower quantity: manual correction, also no ledger entry.
	reduced := *medicine
	reduced.Quantity = 80
	if err := s.UpdateMedicine(ctx, reduced); err != nil {
		t.Fatalf("update medicine: %v", err)
	}

	if events := s.PurchaseEvents(medicine.ID); len(events) != 1 {
		t.Fatalf("expected only the initial purchase event, got %d", len(events))
	}
	got, _ := s.Medicine(medicine.ID)
	if got.Quantity != 80 {
		t.Fatalf("expected quantity 80 after correction, got %d", got.Quantity)
	}
}

func TestUpdateMedicineUnknownID(t *testing.T) {
	s := New()
	err := s.UpdateMedicine(context.Background(), domain.Medicine{ID: 42, Quantity: 1})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBillDecrementsStockAndSnapshotsPrice(t *testing.T) {
	s := New()
	ctx := context.Background()

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	billID, err := s.CreateBill(ctx, domain.BillRequest{
		Total: 4,
		Items: []domain.BillItemInput{{MedicineID: medicine.ID, BillQuantity: 1, Price: 4}},
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	got, _ := s.Medicine(medicine.ID)
	if got.Quantity != 99 {
		t.Fatalf("expected quantity 99 after billing, got %d", got.Quantity)
	}
	items := s.BillItems(billID)
	if len(items) != 1 {
		t.Fatalf("expected 1 bill item, got %d", len(items))
	}
	if items[0].Price != 4 {
		t.Fatalf("expected snapshotted price 4.00, got %v", items[0].Price)
	}

	// Catalog price changes must not touch the committed bill.
	repriced, _ := s.Medicine(medicine.ID)
	repriced.DiscountedPrice = 99
	if err := s.UpdateMedicine(ctx, repriced); err != nil {
		t.Fatalf("update medicine: %v", err)
	}
	if s.BillItems(billID)[0].Price != 4 {
		t.Fatalf("bill item price changed after catalog update")
	}
}

func TestCreateBillOverStockAbortsAtomically(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	scarce := paracetamol()
	scarce.BrandName = "Brufen"
	scarce.Quantity = 2
	second, err := s.CreateMedicine(ctx, scarce)
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	_, err = s.CreateBill(ctx, domain.BillRequest{
		Total: 100,
		Items: []domain.BillItemInput{
			{MedicineID: first.ID, BillQuantity: 10, Price: 4},
			{MedicineID: second.ID, BillQuantity: 3, Price: 4},
		},
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if s.BillCount() != 0 {
		t.Fatalf("expected no bills after aborted transaction, got %d", s.BillCount())
	}
	gotFirst, _ := s.Medicine(first.ID)
	gotSecond, _ := s.Medicine(second.ID)
	if gotFirst.Quantity != 100 || gotSecond.Quantity != 2 {
		t.Fatalf("expected untouched quantities 100/2, got %d/%d", gotFirst.Quantity, gotSecond.Quantity)
	}
}

func TestCreateBillUnknownMedicineIsInsufficientStock(t *testing.T) {
	s := New()
	_, err := s.CreateBill(context.Background(), domain.BillRequest{
		Total: 4,
		Items: []domain.BillItemInput{{MedicineID: 999, BillQuantity: 1, Price: 4}},
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock for unknown medicine, got %v", err)
	}
}

func TestCreateBillIsNotIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	req := domain.BillRequest{
		Total: 8,
		Items: []domain.BillItemInput{{MedicineID: medicine.ID, BillQuantity: 2, Price: 4}},
	}
	firstID, err := s.CreateBill(ctx, req)
	if err != nil {
		t.Fatalf("first bill: %v", err)
	}
	secondID, err := s.CreateBill(ctx, req)
	if err != nil {
		t.Fatalf("second bill: %v", err)
	}
	if firstID == secondID {
		t.Fatalf("expected distinct bill ids, got %d twice", firstID)
	}
	got, _ := s.Medicine(medicine.ID)
	if got.Quantity != 96 {
		t.Fatalf("expected stock decremented twice to 96, got %d", got.Quantity)
	}
}

func TestCreateBillAcceptsMismatchedTotal(t *testing.T) {
	s := New()
	ctx := context.Background()

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	// The total is caller-enforced; the store does not recompute it.
	_, err = s.CreateBill(ctx, domain.BillRequest{
		Total: 12345,
		Items: []domain.BillItemInput{{MedicineID: medicine.ID, BillQuantity: 1, Price: 4}},
	})
	if err != nil {
		t.Fatalf("expected mismatched total to be accepted, got %v", err)
	}
}

func TestReportWindowsAndSums(t *testing.T) {
	s := New()
	ctx := context.Background()

	clock := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return clock }

	medicine, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	bill := func(qty int64, price float64) {
		t.Helper()
		_, err := s.CreateBill(ctx, domain.BillRequest{
			Total: float64(qty) * price,
			Items: []domain.BillItemInput{{MedicineID: medicine.ID, BillQuantity: qty, Price: price}},
		})
		if err != nil {
			t.Fatalf("create bill: %v", err)
		}
	}

	bill(2, 4) // in range, 2025-03-10
	clock = time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	bill(1, 4) // in range, 2025-03-11
	clock = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	bill(5, 4) // outside range

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 23, 59, 59, 0, time.UTC)
	rep, err := s.Report(ctx, start, end)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if len(rep.Sales.Data) != 2 {
		t.Fatalf("expected 2 sales groups, got %d", len(rep.Sales.Data))
	}
	if rep.Sales.Data[0].SaleDate != "2025-03-11" {
		t.Fatalf("expected newest sale date first, got %s", rep.Sales.Data[0].SaleDate)
	}
	if rep.Sales.Summary.TotalSales != 12 {
		t.Fatalf("expected totalSales 12.00, got %v", rep.Sales.Summary.TotalSales)
	}
	if rep.Sales.Summary.TotalItems != 3 {
		t.Fatalf("expected totalItems 3, got %d", rep.Sales.Summary.TotalItems)
	}
	if rep.Sales.Summary.UniqueMedicines != 2 {
		t.Fatalf("expected 2 groups in summary, got %d", rep.Sales.Summary.UniqueMedicines)
	}

	// The initial stock purchase (100 units at 5) was recorded on 2025-03-10.
	if len(rep.Purchases.Data) != 1 {
		t.Fatalf("expected 1 purchase row, got %d", len(rep.Purchases.Data))
	}
	if rep.Purchases.Summary.TotalCost != 500 {
		t.Fatalf("expected purchase total cost 500, got %v", rep.Purchases.Summary.TotalCost)
	}
}

func TestSalesGroupsSortByDateThenSales(t *testing.T) {
	s := New()
	ctx := context.Background()

	clock := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return clock }

	cheap, err := s.CreateMedicine(ctx, paracetamol())
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	pricey := paracetamol()
	pricey.BrandName = "Augmentin"
	pricey.SaltName = "Amoxicillin"
	pricey.DiscountedPrice = 50
	expensive, err := s.CreateMedicine(ctx, pricey)
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	_, err = s.CreateBill(ctx, domain.BillRequest{
		Total: 54,
		Items: []domain.BillItemInput{
			{MedicineID: cheap.ID, BillQuantity: 1, Price: 4},
			{MedicineID: expensive.ID, BillQuantity: 1, Price: 50},
		},
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	rep, err := s.Report(ctx,
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 23, 59, 59, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(rep.Sales.Data) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(rep.Sales.Data))
	}
	if rep.Sales.Data[0].BrandName != "Augmentin" {
		t.Fatalf("expected higher totalSales group first on same date, got %s", rep.Sales.Data[0].BrandName)
	}
}

func TestCreateUserRejectsDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := s.CreateUser(ctx, "alice", "otherhash")
	if !errors.Is(err, store.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}
