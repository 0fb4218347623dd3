package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/MuazAshraf/pharmacy-pos/domain"
	"github.com/MuazAshraf/pharmacy-pos/internal/store"
)

// Store is the Postgres-backed persistence layer. Every mutating
// operation runs in a single transaction with commit-or-rollback
// semantics; reads run auto-commit on the pool.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	medicines := make([]domain.Medicine, 0, 64)
	err := s.db.SelectContext(ctx, &medicines, `
		SELECT id, salt_name, brand_name, actual_price, discounted_price,
			quantity, COALESCE(TO_CHAR(expiry_date, 'YYYY-MM-DD'), '') AS expiry_date, unit, shelf_no
		FROM medicines
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

func (s *Store) CreateMedicine(ctx context.Context, input domain.MedicineInput) (*domain.Medicine, error) {
	if input.BrandName == "" || input.Quantity < 0 {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO medicines (salt_name, brand_name, actual_price, discounted_price, quantity, unit, expiry_date, shelf_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, input.SaltName, input.BrandName, input.ActualPrice, input.DiscountedPrice,
		input.Quantity, input.Unit, nullIfEmpty(dateOnly(input.ExpiryDate)), input.ShelfNo).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	// Initial stock enters the purchase ledger at the actual (cost) price.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (medicine_id, quantity, price, purchase_date)
		VALUES ($1, $2, $3, NOW())
	`, id, input.Quantity, input.ActualPrice)
	if err != nil {
		return nil, fmt.Errorf("record initial purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	return &domain.Medicine{
		ID:              id,
		SaltName:        input.SaltName,
		BrandName:       input.BrandName,
		ActualPrice:     input.ActualPrice,
		DiscountedPrice: input.DiscountedPrice,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		ExpiryDate:      dateOnly(input.ExpiryDate),
		ShelfNo:         input.ShelfNo,
	}, nil
}

func (s *Store) UpdateMedicine(ctx context.Context, medicine domain.Medicine) error {
	if medicine.ID <= 0 || medicine.Quantity < 0 {
		return store.ErrInvalidInput
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currentQuantity int64
	err = tx.GetContext(ctx, &currentQuantity, `SELECT quantity FROM medicines WHERE id = $1`, medicine.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("update medicine: %w", err)
	}

	// Only increases are restocks and hit the purchase ledger. A decrease
	// through this path is a silent manual correction.
	if delta := medicine.Quantity - currentQuantity; delta > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO purchases (medicine_id, quantity, price, purchase_date)
			VALUES ($1, $2, $3, NOW())
		`, medicine.ID, delta, medicine.ActualPrice)
		if err != nil {
			return fmt.Errorf("record restock: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE medicines
		SET salt_name = $1, brand_name = $2, actual_price = $3, discounted_price = $4,
			quantity = $5, unit = $6, expiry_date = $7, shelf_no = $8, updated_at = NOW()
		WHERE id = $9
	`, medicine.SaltName, medicine.BrandName, medicine.ActualPrice, medicine.DiscountedPrice,
		medicine.Quantity, medicine.Unit, nullIfEmpty(dateOnly(medicine.ExpiryDate)), medicine.ShelfNo, medicine.ID)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

// CreateBill atomically persists a bill with its items and decrements
// stock. The decrement is a conditional update checked by affected-row
// count, so two bills racing on the same medicine cannot both take the
// last units regardless of the engine's isolation level. On any failure
// the whole transaction rolls back: no bill, no items, no stock change.
func (s *Store) CreateBill(ctx context.Context, bill domain.BillRequest) (int64, error) {
	if len(bill.Items) == 0 {
		return 0, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create bill: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var billID int64
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO bills (total, created_at) VALUES ($1, NOW()) RETURNING id
	`, bill.Total).Scan(&billID)
	if err != nil {
		return 0, fmt.Errorf("create bill: %w", err)
	}

	for _, item := range bill.Items {
		if item.BillQuantity < 1 {
			return 0, store.ErrInvalidInput
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE medicines
			SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2 AND quantity >= $1
		`, item.BillQuantity, item.MedicineID)
		if err != nil {
			return 0, fmt.Errorf("decrement stock for medicine %d: %w", item.MedicineID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("decrement stock for medicine %d: %w", item.MedicineID, err)
		}
		if affected == 0 {
			// Either the medicine is unknown or it has fewer units than
			// requested; both abort the bill.
			return 0, fmt.Errorf("medicine %d: %w", item.MedicineID, store.ErrInsufficientStock)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bill_items (bill_id, medicine_id, quantity, price)
			VALUES ($1, $2, $3, $4)
		`, billID, item.MedicineID, item.BillQuantity, item.Price)
		if err != nil {
			return 0, fmt.Errorf("add bill item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create bill: %w", err)
	}
	return billID, nil
}

func (s *Store) Report(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	report := &domain.Report{
		Sales:     domain.SalesSection{Data: make([]domain.SalesRow, 0, 32)},
		Purchases: domain.PurchaseSection{Data: make([]domain.PurchaseRow, 0, 32)},
	}

	err := s.db.SelectContext(ctx, &report.Sales.Data, `
		SELECT
			m.salt_name,
			m.brand_name,
			m.shelf_no,
			SUM(bi.quantity)::bigint AS total_quantity,
			SUM(bi.quantity * bi.price) AS total_sales,
			m.unit,
			TO_CHAR(DATE(b.created_at), 'YYYY-MM-DD') AS sale_date
		FROM bill_items bi
		JOIN medicines m ON bi.medicine_id = m.id
		JOIN bills b ON bi.bill_id = b.id
		WHERE b.created_at BETWEEN $1 AND $2
		GROUP BY m.id, m.salt_name, m.brand_name, m.shelf_no, m.unit, DATE(b.created_at)
		ORDER BY sale_date DESC, total_sales DESC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}

	err = s.db.SelectContext(ctx, &report.Purchases.Data, `
		SELECT
			m.salt_name,
			m.brand_name,
			m.shelf_no,
			p.quantity AS purchase_quantity,
			p.price AS purchase_price,
			m.unit,
			TO_CHAR(DATE(p.purchase_date), 'YYYY-MM-DD') AS purchase_date,
			(p.quantity * p.price) AS total_cost
		FROM purchases p
		JOIN medicines m ON p.medicine_id = m.id
		WHERE p.purchase_date BETWEEN $1 AND $2
		ORDER BY p.purchase_date DESC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("purchase report: %w", err)
	}

	report.Summarize()
	return report, nil
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id
	`, username, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicateUser
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, password FROM users WHERE username = $1
	`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// dateOnly strips a time component from an ISO date string, so both
// "2026-01-01" and "2026-01-01T00:00:00Z" store as the same DATE.
func dateOnly(val string) string {
	if i := strings.IndexByte(val, 'T'); i >= 0 {
		return val[:i]
	}
	return val
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
