package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the pharmacy POS backend.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS medicines (
			id SERIAL PRIMARY KEY,
			salt_name TEXT NOT NULL,
			brand_name TEXT NOT NULL,
			actual_price DOUBLE PRECISION NOT NULL,
			discounted_price DOUBLE PRECISION NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			unit TEXT,
			expiry_date DATE,
			shelf_no TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id SERIAL PRIMARY KEY,
			medicine_id INTEGER NOT NULL REFERENCES medicines(id),
			quantity INTEGER NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			purchase_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS bills (
			id SERIAL PRIMARY KEY,
			total DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS bill_items (
			id SERIAL PRIMARY KEY,
			bill_id INTEGER NOT NULL REFERENCES bills(id),
			medicine_id INTEGER NOT NULL REFERENCES medicines(id),
			quantity INTEGER NOT NULL,
			price DOUBLE PRECISION NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_bills_created_at ON bills(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_purchase_date ON purchases(purchase_date);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
