package database

import (
	"database/sql"
	"fmt"
)

// RunMigrations crea el esquema. Las sentencias valen para SQLite y Postgres.
func RunMigrations(db *sql.DB) error {
	createHoldingsTableSQL := `
	CREATE TABLE IF NOT EXISTS holdings (
		ticker TEXT PRIMARY KEY,
		shares DOUBLE PRECISION NOT NULL CHECK (shares > 0),
		purchase_price DOUBLE PRECISION NOT NULL CHECK (purchase_price > 0),
		date_added TIMESTAMP NOT NULL
	);`

	if _, err := db.Exec(createHoldingsTableSQL); err != nil {
		return fmt.Errorf("creating holdings table: %w", err)
	}
	return nil
}
