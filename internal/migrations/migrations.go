package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required by the pharmacy backend. Every
// business entity keys on a stable string identifier; monetary columns are
// stored as decimal strings, never as binary floats.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS suppliers (
            supplier_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            contact TEXT,
            email TEXT,
            address TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS customers (
            customer_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            contact TEXT,
            email TEXT,
            address TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS medicines (
            medicine_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            supplier_id TEXT REFERENCES suppliers(supplier_id),
            price TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            expiry_date TEXT,
            location TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS bills (
            bill_id TEXT PRIMARY KEY,
            customer_id TEXT NOT NULL REFERENCES customers(customer_id),
            bill_date TEXT NOT NULL,
            subtotal TEXT NOT NULL,
            tax TEXT NOT NULL,
            total TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS bill_items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            bill_id TEXT NOT NULL REFERENCES bills(bill_id),
            medicine_id TEXT NOT NULL REFERENCES medicines(medicine_id),
            medicine_name TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            price TEXT NOT NULL,
            amount TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS supplies (
            supply_id INTEGER PRIMARY KEY AUTOINCREMENT,
            supplier_id TEXT NOT NULL REFERENCES suppliers(supplier_id),
            medicine_id TEXT NOT NULL REFERENCES medicines(medicine_id),
            quantity INTEGER NOT NULL,
            amount TEXT NOT NULL,
            supply_date TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_bills_date ON bills(bill_date);`,
		`CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
