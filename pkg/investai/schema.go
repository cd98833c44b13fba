package investai

import (
	"database/sql"
	"fmt"
)

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS asset_types (
			code TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}
	if err := seedAssetTypes(tx); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS portfolios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			is_default INTEGER NOT NULL DEFAULT 0,
			total_invested REAL NOT NULL DEFAULT 0,
			current_value REAL NOT NULL DEFAULT 0,
			total_returns REAL NOT NULL DEFAULT 0,
			returns_percentage REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS holdings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id INTEGER NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
			symbol TEXT NOT NULL,
			name TEXT,
			asset_type TEXT NOT NULL DEFAULT 'stock' REFERENCES asset_types(code),
			exchange TEXT,
			quantity REAL NOT NULL DEFAULT 0,
			average_price REAL NOT NULL DEFAULT 0,
			current_price REAL NOT NULL DEFAULT 0,
			invested_amount REAL NOT NULL DEFAULT 0 CHECK(invested_amount >= 0),
			current_value REAL NOT NULL DEFAULT 0 CHECK(current_value >= 0),
			last_price_update DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME,
			UNIQUE(portfolio_id, symbol)
		)
	`); err != nil {
		return err
	}
	if err := exec(tx, "CREATE INDEX IF NOT EXISTS idx_holdings_portfolio ON holdings(portfolio_id)"); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id INTEGER NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
			symbol TEXT NOT NULL,
			transaction_type TEXT NOT NULL CHECK(transaction_type IN ('BUY', 'SELL', 'DIVIDEND', 'BONUS', 'SPLIT', 'RIGHTS')),
			quantity REAL NOT NULL DEFAULT 0,
			price REAL NOT NULL DEFAULT 0,
			total_amount REAL NOT NULL DEFAULT 0,
			charges REAL NOT NULL DEFAULT 0,
			net_amount REAL NOT NULL DEFAULT 0,
			notes TEXT,
			transaction_date TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}
	if err := exec(tx, "CREATE INDEX IF NOT EXISTS idx_transactions_portfolio ON transactions(portfolio_id, transaction_date)"); err != nil {
		return err
	}

	return tx.Commit()
}

// seedAssetTypes loads the closed asset-type enumeration as reference data.
func seedAssetTypes(tx *sql.Tx) error {
	for _, t := range AssetTypes {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO asset_types (code, label) VALUES (?, ?)",
			string(t), t.Label(),
		); err != nil {
			return fmt.Errorf("seed asset type %s: %w", t, err)
		}
	}
	return nil
}

func exec(tx *sql.Tx, query string, args ...any) error {
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("exec schema statement: %w", err)
	}
	return nil
}
