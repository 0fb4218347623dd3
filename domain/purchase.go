package domain

import "time"

// PurchaseEvent is an append-only ledger entry recording a stock
// increase and its unit cost. One is written whenever a medicine is
// created and whenever an update raises its quantity. Entries are never
// mutated or deleted.
type PurchaseEvent struct {
	ID           int64     `db:"id" json:"id"`
	MedicineID   int64     `db:"medicine_id" json:"medicineId"`
	Quantity     int64     `db:"quantity" json:"quantity"`
	Price        float64   `db:"price" json:"price"`
	PurchaseDate time.Time `db:"purchase_date" json:"purchaseDate"`
}
