package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AgusMolinaCode/stockly/internal/models"
)

// SQLBackend guarda las tenencias en la tabla holdings (SQLite o Postgres)
type SQLBackend struct {
	db *sql.DB
}

func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Load(ctx context.Context) (map[string]models.Holding, error) {
	query := `
		SELECT ticker, shares, purchase_price, date_added
		FROM holdings
		ORDER BY ticker`

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying holdings: %w", err)
	}
	defer rows.Close()

	holdings := make(map[string]models.Holding)
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.Ticker, &h.Shares, &h.PurchasePrice, &h.DateAdded); err != nil {
			return nil, fmt.Errorf("error scanning holding: %w", err)
		}
		holdings[h.Ticker] = h
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holdings, nil
}

// Save reemplaza el contenido de la tabla dentro de una transacción
func (b *SQLBackend) Save(ctx context.Context, holdings map[string]models.Holding) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holdings`); err != nil {
		return fmt.Errorf("error clearing holdings: %w", err)
	}

	insertQuery := `
		INSERT INTO holdings (ticker, shares, purchase_price, date_added)
		VALUES ($1, $2, $3, $4)`

	for ticker, h := range holdings {
		if _, err := tx.ExecContext(ctx, insertQuery, ticker, h.Shares, h.PurchasePrice, h.DateAdded.UTC()); err != nil {
			return fmt.Errorf("error inserting holding %s: %w", ticker, err)
		}
	}

	return tx.Commit()
}
