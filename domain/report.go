package domain

// SalesRow is one (medicine, sale date) group of billed items.
type SalesRow struct {
	SaltName      string  `db:"salt_name" json:"saltName"`
	BrandName     string  `db:"brand_name" json:"brandName"`
	ShelfNo       string  `db:"shelf_no" json:"shelfNo"`
	TotalQuantity int64   `db:"total_quantity" json:"totalQuantity"`
	TotalSales    float64 `db:"total_sales" json:"totalSales"`
	Unit          string  `db:"unit" json:"unit"`
	SaleDate      string  `db:"sale_date" json:"saleDate"`
}

// PurchaseRow is a single purchase ledger entry joined to its medicine.
// Unlike sales rows, purchases are reported ungrouped.
type PurchaseRow struct {
	SaltName         string  `db:"salt_name" json:"saltName"`
	BrandName        string  `db:"brand_name" json:"brandName"`
	ShelfNo          string  `db:"shelf_no" json:"shelfNo"`
	PurchaseQuantity int64   `db:"purchase_quantity" json:"purchaseQuantity"`
	PurchasePrice    float64 `db:"purchase_price" json:"purchasePrice"`
	Unit             string  `db:"unit" json:"unit"`
	PurchaseDate     string  `db:"purchase_date" json:"purchaseDate"`
	TotalCost        float64 `db:"total_cost" json:"totalCost"`
}

type SalesSummary struct {
	TotalSales      float64 `json:"totalSales"`
	TotalItems      int64   `json:"totalItems"`
	UniqueMedicines int     `json:"uniqueMedicines"`
}

type PurchaseSummary struct {
	TotalCost       float64 `json:"totalCost"`
	TotalItems      int64   `json:"totalItems"`
	UniqueMedicines int     `json:"uniqueMedicines"`
}

type SalesSection struct {
	Data    []SalesRow   `json:"data"`
	Summary SalesSummary `json:"summary"`
}

type PurchaseSection struct {
	Data    []PurchaseRow   `json:"data"`
	Summary PurchaseSummary `json:"summary"`
}

// Report is the full date-ranged sales and purchase summary.
type Report struct {
	Sales     SalesSection    `json:"sales"`
	Purchases PurchaseSection `json:"purchases"`
}

// Summarize recomputes both summaries from the row data.
func (r *Report) Summarize() {
	r.Sales.Summary = SalesSummary{UniqueMedicines: len(r.Sales.Data)}
	for _, row := range r.Sales.Data {
		r.Sales.Summary.TotalSales += row.TotalSales
		r.Sales.Summary.TotalItems += row.TotalQuantity
	}
	r.Purchases.Summary = PurchaseSummary{UniqueMedicines: len(r.Purchases.Data)}
	for _, row := range r.Purchases.Data {
		r.Purchases.Summary.TotalCost += row.TotalCost
		r.Purchases.Summary.TotalItems += row.PurchaseQuantity
	}
}
