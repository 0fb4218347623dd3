package domain

// Bill is an immutable sales transaction. It is created atomically with
// its items and never mutated afterwards.
type Bill struct {
	ID        int64   `db:"id" json:"id"`
	Total     float64 `db:"total" json:"total"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
}

// BillItem is one line of a bill. Price snapshots the medicine's
// discounted price at sale time so historical bills survive later
// catalog price changes.
type BillItem struct {
	ID         int64   `db:"id" json:"id"`
	BillID     int64   `db:"bill_id" json:"billId"`
	MedicineID int64   `db:"medicine_id" json:"medicineId"`
	Quantity   int64   `db:"quantity" json:"quantity"`
	Price      float64 `db:"price" json:"price"`
}

// BillItemInput is one cart line as submitted by the POS screen. The
// field names match the cart payload, where each line carries the
// medicine id and the discounted price the cashier saw.
type BillItemInput struct {
	MedicineID   int64   `json:"id"`
	BillQuantity int64   `json:"billQuantity"`
	Price        float64 `json:"discountedPrice"`
}

// BillRequest is the POST /bills body. Total is caller-computed and is
// not re-validated against the line items.
type BillRequest struct {
	Total     float64         `json:"total"`
	CreatedAt string          `json:"createdAt"`
	Items     []BillItemInput `json:"items"`
}
