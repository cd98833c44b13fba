package investai

import (
	"database/sql"
	"errors"
	"strings"
)

// CreatePortfolio creates a new portfolio. Marking it default clears the
// flag on every other portfolio.
func (c *Core) CreatePortfolio(req CreatePortfolioRequest) (int64, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, NewError(ErrCodeValidation, "portfolio name required")
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if req.IsDefault {
		if _, err := tx.Exec("UPDATE portfolios SET is_default = 0 WHERE is_default = 1"); err != nil {
			return 0, err
		}
	}
	result, err := tx.Exec(
		"INSERT INTO portfolios (name, description, is_default) VALUES (?, ?, ?)",
		name, req.Description, boolToInt(req.IsDefault),
	)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert portfolio", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	c.logger.Info("portfolio created", "portfolio_id", id, "name", name)
	return id, nil
}

// GetPortfolios returns all portfolios, default first, then newest first.
func (c *Core) GetPortfolios() ([]Portfolio, error) {
	rows, err := c.db.Query(`
		SELECT id, name, description, is_default,
			total_invested, current_value, total_returns, returns_percentage,
			created_at, updated_at
		FROM portfolios
		ORDER BY is_default DESC, created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var portfolios []Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// GetPortfolio returns one portfolio by ID.
func (c *Core) GetPortfolio(id int64) (*Portfolio, error) {
	row := c.db.QueryRow(`
		SELECT id, name, description, is_default,
			total_invested, current_value, total_returns, returns_percentage,
			created_at, updated_at
		FROM portfolios WHERE id = ?
	`, id)
	p, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewError(ErrCodeNotFound, "portfolio not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePortfolio applies the non-nil fields of req.
func (c *Core) UpdatePortfolio(id int64, req UpdatePortfolioRequest) error {
	if _, err := c.GetPortfolio(id); err != nil {
		return err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return NewError(ErrCodeValidation, "portfolio name required")
		}
		if _, err := tx.Exec("UPDATE portfolios SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", name, id); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if _, err := tx.Exec("UPDATE portfolios SET description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *req.Description, id); err != nil {
			return err
		}
	}
	if req.IsDefault != nil {
		if *req.IsDefault {
			if _, err := tx.Exec("UPDATE portfolios SET is_default = 0 WHERE id != ?", id); err != nil {
				return err
			}
		}
		if _, err := tx.Exec("UPDATE portfolios SET is_default = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", boolToInt(*req.IsDefault), id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.cache.invalidate(id)
	return nil
}

// DeletePortfolio removes a portfolio and, via cascade, its holdings and
// transactions.
func (c *Core) DeletePortfolio(id int64) error {
	result, err := c.db.Exec("DELETE FROM portfolios WHERE id = ?", id)
	if err != nil {
		return WrapError(ErrCodeDatabase, "delete portfolio", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return NewError(ErrCodeNotFound, "portfolio not found")
	}
	c.cache.invalidate(id)
	c.logger.Info("portfolio deleted", "portfolio_id", id)
	return nil
}

// refreshPortfolioMetrics recomputes the denormalized portfolio metrics from
// the current holdings snapshot.
func (c *Core) refreshPortfolioMetrics(portfolioID int64) error {
	holdings, err := c.GetHoldings(portfolioID)
	if err != nil {
		return err
	}
	summary, err := Summarize(holdings)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`
		UPDATE portfolios SET
			total_invested = ?,
			current_value = ?,
			total_returns = ?,
			returns_percentage = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, summary.TotalInvested, summary.CurrentValue, summary.TotalReturns, summary.ReturnsPercentage, portfolioID)
	if err != nil {
		return WrapError(ErrCodeDatabase, "update portfolio metrics", err)
	}
	c.cache.invalidate(portfolioID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (Portfolio, error) {
	var p Portfolio
	var description, createdAt, updatedAt sql.NullString
	var isDefault int
	err := row.Scan(
		&p.ID, &p.Name, &description, &isDefault,
		&p.TotalInvested, &p.CurrentValue, &p.TotalReturns, &p.ReturnsPercentage,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Portfolio{}, err
	}
	p.IsDefault = isDefault != 0
	if description.Valid {
		p.Description = &description.String
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.String
	}
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
