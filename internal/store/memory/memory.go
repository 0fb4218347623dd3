package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MuazAshraf/pharmacy-pos/domain"
	"github.com/MuazAshraf/pharmacy-pos/internal/store"
)

// Store is a mutex-guarded in-memory implementation of store.Store. It
// backs the test suite and the DSN-less dev mode, and mirrors the
// Postgres store's semantics: bills commit all-or-nothing and stock
// never goes negative.
type Store struct {
	mu        sync.RWMutex
	medicines map[int64]domain.Medicine
	purchases []domain.PurchaseEvent
	bills     map[int64]billRecord
	users     map[string]domain.User

	nextMedicineID int64
	nextPurchaseID int64
	nextBillID     int64
	nextUserID     int64

	// Now supplies timestamps; tests override it to pin bill and
	// purchase dates.
	Now func() time.Time
}

type billRecord struct {
	bill  domain.Bill
	at    time.Time
	items []domain.BillItem
}

func New() *Store {
	return &Store{
		medicines: make(map[int64]domain.Medicine),
		purchases: make([]domain.PurchaseEvent, 0, 64),
		bills:     make(map[int64]billRecord),
		users:     make(map[string]domain.User),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewSeeded returns a store preloaded with a demo user (admin/admin123)
// and a small catalog, for dev mode and handler tests.
func NewSeeded() *Store {
	s := New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	s.users["admin"] = domain.User{ID: 1, Username: "admin", Password: string(hash)}
	s.nextUserID = 1

	seed := []domain.MedicineInput{
		{SaltName: "Paracetamol", BrandName: "Panadol", ActualPrice: 5, DiscountedPrice: 4, Quantity: 100, Unit: "tablets", ExpiryDate: "2026-01-01", ShelfNo: "A1"},
		{SaltName: "Ibuprofen", BrandName: "Brufen", ActualPrice: 8, DiscountedPrice: 7, Quantity: 60, Unit: "tablets", ExpiryDate: "2026-06-30", ShelfNo: "A2"},
		{SaltName: "Cetirizine", BrandName: "Zyrtec", ActualPrice: 12, DiscountedPrice: 10.5, Quantity: 40, Unit: "tablets", ExpiryDate: "2025-12-15", ShelfNo: "B1"},
	}
	for _, input := range seed {
		if _, err := s.CreateMedicine(context.Background(), input); err != nil {
			panic(fmt.Sprintf("seed medicine: %v", err))
		}
	}
	return s
}

func (s *Store) ListMedicines(_ context.Context) ([]domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	medicines := make([]domain.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		medicines = append(medicines, m)
	}
	sort.Slice(medicines, func(i, j int) bool { return medicines[i].ID < medicines[j].ID })
	return medicines, nil
}

func (s *Store) CreateMedicine(_ context.Context, input domain.MedicineInput) (*domain.Medicine, error) {
	if input.BrandName == "" || input.Quantity < 0 {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMedicineID++
	medicine := domain.Medicine{
		ID:              s.nextMedicineID,
		SaltName:        input.SaltName,
		BrandName:       input.BrandName,
		ActualPrice:     input.ActualPrice,
		DiscountedPrice: input.DiscountedPrice,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		ExpiryDate:      dateOnly(input.ExpiryDate),
		ShelfNo:         input.ShelfNo,
	}
	s.medicines[medicine.ID] = medicine
	s.appendPurchase(medicine.ID, input.Quantity, input.ActualPrice)

	created := medicine
	return &created, nil
}

func (s *Store) UpdateMedicine(_ context.Context, medicine domain.Medicine) error {
	if medicine.ID <= 0 || medicine.Quantity < 0 {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.medicines[medicine.ID]
	if !ok {
		return store.ErrNotFound
	}
	if delta := medicine.Quantity - current.Quantity; delta > 0 {
		s.appendPurchase(medicine.ID, delta, medicine.ActualPrice)
	}
	medicine.ExpiryDate = dateOnly(medicine.ExpiryDate)
	s.medicines[medicine.ID] = medicine
	return nil
}

func (s *Store) CreateBill(_ context.Context, bill domain.BillRequest) (int64, error) {
	if len(bill.Items) == 0 {
		return 0, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate every line before touching state so a failure leaves no
	// partial effects, matching the Postgres rollback.
	needed := make(map[int64]int64, len(bill.Items))
	for _, item := range bill.Items {
		if item.BillQuantity < 1 {
			return 0, store.ErrInvalidInput
		}
		needed[item.MedicineID] += item.BillQuantity
	}
	for medicineID, qty := range needed {
		medicine, ok := s.medicines[medicineID]
		if !ok || medicine.Quantity < qty {
			return 0, fmt.Errorf("medicine %d: %w", medicineID, store.ErrInsufficientStock)
		}
	}

	s.nextBillID++
	now := s.Now()
	record := billRecord{
		bill:  domain.Bill{ID: s.nextBillID, Total: bill.Total, CreatedAt: now.Format(time.RFC3339)},
		at:    now,
		items: make([]domain.BillItem, 0, len(bill.Items)),
	}
	for _, item := range bill.Items {
		medicine := s.medicines[item.MedicineID]
		medicine.Quantity -= item.BillQuantity
		s.medicines[item.MedicineID] = medicine
		record.items = append(record.items, domain.BillItem{
			ID:         int64(len(record.items) + 1),
			BillID:     record.bill.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.BillQuantity,
			Price:      item.Price,
		})
	}
	s.bills[record.bill.ID] = record
	return record.bill.ID, nil
}

func (s *Store) Report(_ context.Context, start, end time.Time) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type groupKey struct {
		medicineID int64
		date       string
	}
	groups := make(map[groupKey]*domain.SalesRow)
	for _, record := range s.bills {
		if record.at.Before(start) || record.at.After(end) {
			continue
		}
		date := record.at.Format("2006-01-02")
		for _, item := range record.items {
			medicine := s.medicines[item.MedicineID]
			key := groupKey{medicineID: item.MedicineID, date: date}
			row, ok := groups[key]
			if !ok {
				row = &domain.SalesRow{
					SaltName:  medicine.SaltName,
					BrandName: medicine.BrandName,
					ShelfNo:   medicine.ShelfNo,
					Unit:      medicine.Unit,
					SaleDate:  date,
				}
				groups[key] = row
			}
			row.TotalQuantity += item.Quantity
			row.TotalSales += float64(item.Quantity) * item.Price
		}
	}

	report := &domain.Report{
		Sales:     domain.SalesSection{Data: make([]domain.SalesRow, 0, len(groups))},
		Purchases: domain.PurchaseSection{Data: make([]domain.PurchaseRow, 0, len(s.purchases))},
	}
	for _, row := range groups {
		report.Sales.Data = append(report.Sales.Data, *row)
	}
	sort.Slice(report.Sales.Data, func(i, j int) bool {
		a, b := report.Sales.Data[i], report.Sales.Data[j]
		if a.SaleDate != b.SaleDate {
			return a.SaleDate > b.SaleDate
		}
		return a.TotalSales > b.TotalSales
	})

	for i := len(s.purchases) - 1; i >= 0; i-- {
		event := s.purchases[i]
		if event.PurchaseDate.Before(start) || event.PurchaseDate.After(end) {
			continue
		}
		medicine := s.medicines[event.MedicineID]
		report.Purchases.Data = append(report.Purchases.Data, domain.PurchaseRow{
			SaltName:         medicine.SaltName,
			BrandName:        medicine.BrandName,
			ShelfNo:          medicine.ShelfNo,
			PurchaseQuantity: event.Quantity,
			PurchasePrice:    event.Price,
			Unit:             medicine.Unit,
			PurchaseDate:     event.PurchaseDate.Format("2006-01-02"),
			TotalCost:        float64(event.Quantity) * event.Price,
		})
	}

	report.Summarize()
	return report, nil
}

func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return 0, store.ErrDuplicateUser
	}
	s.nextUserID++
	s.users[username] = domain.User{ID: s.nextUserID, Username: username, Password: passwordHash}
	return s.nextUserID, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := user
	return &found, nil
}

// Medicine returns a medicine by id; test helper.
func (s *Store) Medicine(id int64) (domain.Medicine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medicines[id]
	return m, ok
}

// PurchaseEvents returns the ledger entries for one medicine in append
// order; test helper.
func (s *Store) PurchaseEvents(medicineID int64) []domain.PurchaseEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]domain.PurchaseEvent, 0, 4)
	for _, event := range s.purchases {
		if event.MedicineID == medicineID {
			events = append(events, event)
		}
	}
	return events
}

// BillCount returns the number of committed bills; test helper.
func (s *Store) BillCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bills)
}

// BillItems returns the committed items of a bill; test helper.
func (s *Store) BillItems(billID int64) []domain.BillItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.bills[billID]
	if !ok {
		return nil
	}
	items := make([]domain.BillItem, len(record.items))
	copy(items, record.items)
	return items
}

func (s *Store) appendPurchase(medicineID, quantity int64, price float64) {
	s.nextPurchaseID++
	s.purchases = append(s.purchases, domain.PurchaseEvent{
		ID:           s.nextPurchaseID,
		MedicineID:   medicineID,
		Quantity:     quantity,
		Price:        price,
		PurchaseDate: s.Now(),
	})
}

func dateOnly(val string) string {
	if i := strings.IndexByte(val, 'T'); i >= 0 {
		return val[:i]
	}
	return val
}
