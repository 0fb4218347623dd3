package domain

// Medicine is a catalog entry. Quantity is the live stock count, owned by
// the inventory store: restocks increase it, billing decreases it, and it
// never goes below zero in a committed transaction.
type Medicine struct {
	ID              int64   `db:"id" json:"id"`
	SaltName        string  `db:"salt_name" json:"saltName"`
	BrandName       string  `db:"brand_name" json:"brandName"`
	ActualPrice     float64 `db:"actual_price" json:"actualPrice"`
	DiscountedPrice float64 `db:"discounted_price" json:"discountedPrice"`
	Quantity        int64   `db:"quantity" json:"quantity"`
	Unit            string  `db:"unit" json:"unit"`
	ExpiryDate      string  `db:"expiry_date" json:"expiryDate"`
	ShelfNo         string  `db:"shelf_no" json:"shelfNo"`
}

// MedicineInput is a Medicine without a generated id, as submitted on create.
type MedicineInput struct {
	SaltName        string  `json:"saltName"`
	BrandName       string  `json:"brandName"`
	ActualPrice     float64 `json:"actualPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Quantity        int64   `json:"quantity"`
	Unit            string  `json:"unit"`
	ExpiryDate      string  `json:"expiryDate"`
	ShelfNo         string  `json:"shelfNo"`
}
