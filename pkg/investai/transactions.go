package investai

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

// TransactionFilter controls transaction queries.
type TransactionFilter struct {
	PortfolioID     int64
	Symbol          string
	TransactionType string
	Limit           int
	Offset          int
}

// AddTransaction records a trade and applies its effect to the matching
// holding: BUY and RIGHTS raise quantity and cost basis (weighted average),
// SELL relieves cost proportionally, BONUS and SPLIT add quantity at zero
// cost, DIVIDEND is recorded without touching the position. Portfolio
// metrics are refreshed afterwards.
func (c *Core) AddTransaction(req AddTransactionRequest) (int64, error) {
	if req.TransactionType == "" {
		return 0, NewError(ErrCodeValidation, "transaction_type required")
	}
	if !isValidTransactionType(req.TransactionType) {
		return 0, NewError(ErrCodeValidation, "invalid transaction_type: "+req.TransactionType)
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return 0, NewError(ErrCodeValidation, "symbol required")
	}
	if req.Quantity.IsNegative() || req.Price.IsNegative() || req.Charges.IsNegative() {
		return 0, NewError(ErrCodeValidation, "quantity, price and charges must not be negative")
	}
	if req.TransactionDate == "" {
		req.TransactionDate = todayISO()
	}
	if _, err := c.GetPortfolio(req.PortfolioID); err != nil {
		return 0, err
	}

	totalAmount := req.Quantity.Mul(req.Price.Decimal)
	netAmount := totalAmount
	switch req.TransactionType {
	case "BUY", "RIGHTS":
		netAmount = totalAmount.Add(req.Charges.Decimal)
	case "SELL":
		netAmount = totalAmount.Sub(req.Charges.Decimal)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.Exec(`
		INSERT INTO transactions (
			portfolio_id, symbol, transaction_type,
			quantity, price, total_amount, charges, net_amount,
			notes, transaction_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.PortfolioID, symbol, req.TransactionType,
		req.Quantity, req.Price, Amount{totalAmount}, req.Charges, Amount{netAmount},
		req.Notes, req.TransactionDate)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert transaction", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := c.applyTransactionToHolding(tx, req, symbol, netAmount); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	// The transaction row is committed at this point; the denormalized
	// metrics rebuild on the next refresh.
	if err := c.refreshPortfolioMetrics(req.PortfolioID); err != nil {
		c.logger.Warn("portfolio metrics refresh failed",
			"portfolio_id", req.PortfolioID, "err", err)
	}
	c.logger.Info("transaction recorded",
		"transaction_id", id, "portfolio_id", req.PortfolioID,
		"symbol", symbol, "type", req.TransactionType)
	return id, nil
}

func (c *Core) applyTransactionToHolding(tx *sql.Tx, req AddTransactionRequest, symbol string, netAmount decimal.Decimal) error {
	var holdingID int64
	var quantity, invested, currentPrice Amount
	err := tx.QueryRow(`
		SELECT id, quantity, invested_amount, current_price
		FROM holdings WHERE portfolio_id = ? AND symbol = ?
	`, req.PortfolioID, symbol).Scan(&holdingID, &quantity, &invested, &currentPrice)
	missing := errors.Is(err, sql.ErrNoRows)
	if err != nil && !missing {
		return err
	}

	switch req.TransactionType {
	case "BUY", "RIGHTS":
		if missing {
			assetType := normalizeAssetType(req.AssetType)
			if assetType == "" {
				assetType = AssetStock
			}
			if !assetType.Valid() {
				return NewError(ErrCodeValidation, "invalid asset_type: "+string(assetType))
			}
			_, err := tx.Exec(`
				INSERT INTO holdings (
					portfolio_id, symbol, name, asset_type,
					quantity, average_price, current_price,
					invested_amount, current_value, last_price_update
				) VALUES (?, ?, ?, ?, 0, 0, ?, 0, 0, CURRENT_TIMESTAMP)
			`, req.PortfolioID, symbol, req.Name, string(assetType), req.Price)
			if err != nil {
				return WrapError(ErrCodeDatabase, "create holding", err)
			}
			quantity, invested, currentPrice = Amount{}, Amount{}, req.Price
			if err := tx.QueryRow(
				"SELECT id FROM holdings WHERE portfolio_id = ? AND symbol = ?",
				req.PortfolioID, symbol,
			).Scan(&holdingID); err != nil {
				return err
			}
		}
		newQuantity := quantity.Add(req.Quantity.Decimal)
		newInvested := invested.Add(netAmount)
		return updateHoldingPosition(tx, holdingID, newQuantity, newInvested, currentPrice.Decimal)

	case "SELL":
		if missing {
			return NewError(ErrCodeValidation, "cannot sell "+symbol+": no holding in portfolio")
		}
		if req.Quantity.GreaterThan(quantity.Decimal) {
			return NewError(ErrCodeValidation, "cannot sell more than held quantity of "+symbol)
		}
		// Relieve cost basis at the average price, not the sale price, so
		// realized gains never distort the remaining position's basis.
		newQuantity := quantity.Sub(req.Quantity.Decimal)
		relief := decimal.Zero
		if quantity.IsPositive() {
			relief = invested.Div(quantity.Decimal).Mul(req.Quantity.Decimal)
		}
		newInvested := invested.Sub(relief)
		if newInvested.IsNegative() {
			newInvested = decimal.Zero
		}
		return updateHoldingPosition(tx, holdingID, newQuantity, newInvested, currentPrice.Decimal)

	case "BONUS", "SPLIT":
		if missing {
			return NewError(ErrCodeValidation, "no holding for "+symbol+" in portfolio")
		}
		newQuantity := quantity.Add(req.Quantity.Decimal)
		return updateHoldingPosition(tx, holdingID, newQuantity, invested.Decimal, currentPrice.Decimal)

	case "DIVIDEND":
		// Cash flows are out of scope here; the transaction row is the record.
		return nil
	}
	return nil
}

func updateHoldingPosition(tx *sql.Tx, holdingID int64, quantity, invested, currentPrice decimal.Decimal) error {
	average := decimal.Zero
	if quantity.IsPositive() {
		average = invested.Div(quantity)
	}
	current := quantity.Mul(currentPrice)
	_, err := tx.Exec(`
		UPDATE holdings SET
			quantity = ?,
			average_price = ?,
			invested_amount = ?,
			current_value = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, Amount{quantity}, Amount{average}, Amount{invested}, Amount{current}, holdingID)
	if err != nil {
		return WrapError(ErrCodeDatabase, "update holding position", err)
	}
	return nil
}

// GetTransactions returns transactions matching the filter, newest first.
func (c *Core) GetTransactions(filter TransactionFilter) ([]Transaction, error) {
	query := `
		SELECT id, portfolio_id, symbol, transaction_type,
			quantity, price, total_amount, charges, net_amount,
			notes, transaction_date, created_at
		FROM transactions
		WHERE portfolio_id = ?
	`
	params := []any{filter.PortfolioID}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		params = append(params, normalizeSymbol(filter.Symbol))
	}
	if filter.TransactionType != "" {
		query += " AND transaction_type = ?"
		params = append(params, filter.TransactionType)
	}
	query += " ORDER BY transaction_date DESC, id DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	params = append(params, limit, filter.Offset)

	rows, err := c.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		var notes, createdAt sql.NullString
		if err := rows.Scan(
			&t.ID, &t.PortfolioID, &t.Symbol, &t.TransactionType,
			&t.Quantity, &t.Price, &t.TotalAmount, &t.Charges, &t.NetAmount,
			&notes, &t.TransactionDate, &createdAt,
		); err != nil {
			return nil, err
		}
		if notes.Valid {
			t.Notes = &notes.String
		}
		if createdAt.Valid {
			t.CreatedAt = &createdAt.String
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
