package investai

// GetPortfolioSummary loads a portfolio's holdings snapshot and returns the
// aggregated overview: totals, allocation breakdown, top positions and
// recent activity. Results are cached until the next mutation.
func (c *Core) GetPortfolioSummary(portfolioID int64) (*PortfolioOverview, error) {
	if cached, ok := c.cache.getOverview(portfolioID); ok {
		return cached, nil
	}

	portfolio, err := c.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}
	holdings, err := c.GetHoldings(portfolioID)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(holdings)
	if err != nil {
		return nil, err
	}
	allocation, err := AllocationBreakdown(holdings)
	if err != nil {
		return nil, err
	}

	// GetHoldings orders by current value desc, so the top slice is free.
	topCount := len(holdings)
	if topCount > 5 {
		topCount = 5
	}
	topHoldings := make([]TopHolding, 0, topCount)
	for _, h := range holdings[:topCount] {
		topHoldings = append(topHoldings, TopHolding{
			Symbol:       h.Symbol,
			Name:         h.Name,
			CurrentValue: h.CurrentValue,
			PnlPercent:   h.PnlPercent,
		})
	}

	recent, err := c.GetTransactions(TransactionFilter{PortfolioID: portfolioID, Limit: 10})
	if err != nil {
		return nil, err
	}

	overview := &PortfolioOverview{
		PortfolioID:        portfolioID,
		Name:               portfolio.Name,
		Summary:            summary,
		HoldingsCount:      len(holdings),
		Allocation:         allocation,
		TopHoldings:        topHoldings,
		RecentTransactions: recent,
		LastUpdated:        portfolio.UpdatedAt,
	}
	c.cache.setOverview(portfolioID, overview)
	return overview, nil
}

// GetAllocationBreakdown loads a portfolio's holdings snapshot and returns
// its allocation by asset type.
func (c *Core) GetAllocationBreakdown(portfolioID int64) ([]AllocationEntry, error) {
	if cached, ok := c.cache.getAllocation(portfolioID); ok {
		return cached, nil
	}

	if _, err := c.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	holdings, err := c.GetHoldings(portfolioID)
	if err != nil {
		return nil, err
	}
	allocation, err := AllocationBreakdown(holdings)
	if err != nil {
		return nil, err
	}
	c.cache.setAllocation(portfolioID, allocation)
	return allocation, nil
}
