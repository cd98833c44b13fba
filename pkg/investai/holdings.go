package investai

import (
	"database/sql"
	"errors"
	"strings"
)

// GetHoldings returns a portfolio's holdings ordered by current value,
// largest first.
func (c *Core) GetHoldings(portfolioID int64) ([]Holding, error) {
	rows, err := c.db.Query(`
		SELECT id, portfolio_id, symbol, name, asset_type, exchange,
			quantity, average_price, current_price,
			invested_amount, current_value,
			last_price_update, created_at, updated_at
		FROM holdings
		WHERE portfolio_id = ?
		ORDER BY current_value DESC, symbol
	`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// GetHolding returns one holding by ID.
func (c *Core) GetHolding(id int64) (*Holding, error) {
	row := c.db.QueryRow(`
		SELECT id, portfolio_id, symbol, name, asset_type, exchange,
			quantity, average_price, current_price,
			invested_amount, current_value,
			last_price_update, created_at, updated_at
		FROM holdings WHERE id = ?
	`, id)
	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewError(ErrCodeNotFound, "holding not found")
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// AddHolding inserts a new position. Invested amount and current value are
// derived from quantity and the respective prices.
func (c *Core) AddHolding(req AddHoldingRequest) (int64, error) {
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return 0, NewError(ErrCodeValidation, "symbol required")
	}
	assetType := normalizeAssetType(req.AssetType)
	if assetType == "" {
		assetType = AssetStock
	}
	if !assetType.Valid() {
		return 0, NewError(ErrCodeValidation, "invalid asset_type: "+string(assetType))
	}
	if req.Quantity.IsNegative() || req.AveragePrice.IsNegative() || req.CurrentPrice.IsNegative() {
		return 0, NewError(ErrCodeValidation, "quantity and prices must not be negative")
	}
	if _, err := c.GetPortfolio(req.PortfolioID); err != nil {
		return 0, err
	}

	currentPrice := req.CurrentPrice.Decimal
	if currentPrice.IsZero() {
		currentPrice = req.AveragePrice.Decimal
	}
	invested := req.Quantity.Mul(req.AveragePrice.Decimal)
	current := req.Quantity.Mul(currentPrice)

	result, err := c.db.Exec(`
		INSERT INTO holdings (
			portfolio_id, symbol, name, asset_type, exchange,
			quantity, average_price, current_price,
			invested_amount, current_value, last_price_update
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, req.PortfolioID, symbol, req.Name, string(assetType), req.Exchange,
		req.Quantity, req.AveragePrice, Amount{currentPrice},
		Amount{invested}, Amount{current})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, NewError(ErrCodeDuplicate, "holding already exists for symbol "+symbol)
		}
		return 0, WrapError(ErrCodeDatabase, "insert holding", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := c.refreshPortfolioMetrics(req.PortfolioID); err != nil {
		return 0, err
	}
	c.logger.Info("holding added", "portfolio_id", req.PortfolioID, "symbol", symbol, "asset_type", assetType)
	return id, nil
}

// DeleteHolding removes a position and refreshes the owning portfolio's
// metrics.
func (c *Core) DeleteHolding(id int64) error {
	holding, err := c.GetHolding(id)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec("DELETE FROM holdings WHERE id = ?", id); err != nil {
		return WrapError(ErrCodeDatabase, "delete holding", err)
	}
	return c.refreshPortfolioMetrics(holding.PortfolioID)
}

// UpdateHoldingPrice marks a holding to the supplied price, recomputing
// current value and unrealized PnL, then refreshes portfolio metrics.
func (c *Core) UpdateHoldingPrice(id int64, price Amount) error {
	if price.IsNegative() {
		return NewError(ErrCodeValidation, "price must not be negative")
	}
	holding, err := c.GetHolding(id)
	if err != nil {
		return err
	}

	current := holding.Quantity.Mul(price.Decimal)
	_, err = c.db.Exec(`
		UPDATE holdings SET
			current_price = ?,
			current_value = ?,
			last_price_update = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, price, Amount{current}, id)
	if err != nil {
		return WrapError(ErrCodeDatabase, "update holding price", err)
	}
	c.logger.Info("holding price updated",
		"holding_id", id, "symbol", holding.Symbol,
		"old_price", holding.CurrentPrice, "new_price", price)
	return c.refreshPortfolioMetrics(holding.PortfolioID)
}

func scanHolding(row rowScanner) (Holding, error) {
	var h Holding
	var name, exchange, lastPriceUpdate, createdAt, updatedAt sql.NullString
	var assetType string
	err := row.Scan(
		&h.ID, &h.PortfolioID, &h.Symbol, &name, &assetType, &exchange,
		&h.Quantity, &h.AveragePrice, &h.CurrentPrice,
		&h.InvestedAmount, &h.CurrentValue,
		&lastPriceUpdate, &createdAt, &updatedAt,
	)
	if err != nil {
		return Holding{}, err
	}
	h.AssetType = AssetType(assetType)
	if name.Valid {
		h.Name = &name.String
	}
	if exchange.Valid {
		h.Exchange = &exchange.String
	}
	if lastPriceUpdate.Valid {
		h.LastPriceUpdate = &lastPriceUpdate.String
	}
	if createdAt.Valid {
		h.CreatedAt = &createdAt.String
	}
	if updatedAt.Valid {
		h.UpdatedAt = &updatedAt.String
	}
	h.UnrealizedPnL = Amount{h.CurrentValue.Sub(h.InvestedAmount.Decimal)}
	if h.InvestedAmount.IsPositive() {
		f, _ := h.UnrealizedPnL.Div(h.InvestedAmount.Decimal).Mul(hundred).Float64()
		h.PnlPercent = round2(f)
	}
	return h, nil
}
