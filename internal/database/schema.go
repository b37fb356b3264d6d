package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema lists the tables in creation order. {{ID}} expands to the driver's
// auto-increment primary key definition.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS drugs (
		id {{ID}},
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_discontinued BOOLEAN NOT NULL DEFAULT FALSE,
		manufacturer TEXT,
		drug_type TEXT,
		pack_size TEXT,
		short_composition1 TEXT,
		short_composition2 TEXT,
		salt_composition TEXT,
		description TEXT,
		side_effects TEXT,
		drug_interactions TEXT,
		stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id {{ID}},
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		state TEXT,
		phone TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id {{ID}},
		pharmacy_id BIGINT,
		order_name TEXT NOT NULL,
		item_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		ordered_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id {{ID}},
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		contact_number TEXT,
		address TEXT,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS retail_pharmacies (
		id {{ID}},
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT,
		billing_address TEXT,
		tax_id TEXT,
		supplier_id BIGINT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS restock_orders (
		id {{ID}},
		supplier_id BIGINT NOT NULL,
		drug_id BIGINT NOT NULL,
		pharmacy_id BIGINT,
		quantity INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		payment_status TEXT NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMP NOT NULL,
		delivered_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id {{ID}},
		restock_id BIGINT NOT NULL,
		supplier_id BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Open',
		created_at TIMESTAMP NOT NULL,
		closed_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		id {{ID}},
		method_name TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id {{ID}},
		pharmacy_id BIGINT,
		supplier_id BIGINT,
		amount DOUBLE PRECISION NOT NULL,
		payment_method_id BIGINT,
		status TEXT NOT NULL DEFAULT 'Pending',
		notes TEXT,
		transaction_reference TEXT NOT NULL,
		payment_date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pharmacy_payments (
		id {{ID}},
		pharmacy_id BIGINT NOT NULL,
		payment_method_id BIGINT NOT NULL,
		account_details TEXT NOT NULL DEFAULT '',
		is_default BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS supplier_notifications (
		id {{ID}},
		supplier_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		related_entity_type TEXT,
		related_entity_id BIGINT,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id {{ID}},
		drug_id BIGINT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity_changed INTEGER NOT NULL,
		reason TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_drugs_name ON drugs (name)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_restock_id ON tickets (restock_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_reference ON payments (transaction_reference)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_supplier ON supplier_notifications (supplier_id, created_at)`,
}

func idColumn(driver string) string {
	if driver == DriverSQLite {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGSERIAL PRIMARY KEY"
}

// Migrate creates any missing tables and indexes.
func Migrate(db *sqlx.DB) error {
	pk := idColumn(db.DriverName())
	for _, stmt := range schema {
		if _, err := db.Exec(strings.ReplaceAll(stmt, "{{ID}}", pk)); err != nil {
			return fmt.Errorf("could not execute schema statement: %w", err)
		}
	}
	return nil
}
