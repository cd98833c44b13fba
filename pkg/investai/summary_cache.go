package investai

import "sync"

// summaryCache memoizes per-portfolio derived views between mutations.
// Mutating operations invalidate the owning portfolio's entry.
type summaryCache struct {
	mu         sync.RWMutex
	overviews  map[int64]*PortfolioOverview
	allocation map[int64][]AllocationEntry
}

func newSummaryCache() *summaryCache {
	return &summaryCache{
		overviews:  map[int64]*PortfolioOverview{},
		allocation: map[int64][]AllocationEntry{},
	}
}

func (c *summaryCache) getOverview(portfolioID int64) (*PortfolioOverview, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	overview, ok := c.overviews[portfolioID]
	return overview, ok
}

func (c *summaryCache) setOverview(portfolioID int64, overview *PortfolioOverview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overviews[portfolioID] = overview
}

func (c *summaryCache) getAllocation(portfolioID int64) ([]AllocationEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, ok := c.allocation[portfolioID]
	if !ok {
		return nil, false
	}
	copied := append([]AllocationEntry(nil), entries...)
	return copied, true
}

func (c *summaryCache) setAllocation(portfolioID int64, entries []AllocationEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allocation[portfolioID] = append([]AllocationEntry(nil), entries...)
}

func (c *summaryCache) invalidate(portfolioID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.overviews, portfolioID)
	delete(c.allocation, portfolioID)
}
