package investai

// TransactionTypes lists the recognized transaction kinds.
var TransactionTypes = []string{
	"BUY",
	"SELL",
	"DIVIDEND",
	"BONUS",
	"SPLIT",
	"RIGHTS",
}

// Portfolio groups holdings under a named strategy. The metric fields are
// denormalized copies of the latest aggregation, refreshed after every
// mutation.
type Portfolio struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	IsDefault         bool    `json:"is_default"`
	TotalInvested     Amount  `json:"total_invested"`
	CurrentValue      Amount  `json:"current_value"`
	TotalReturns      Amount  `json:"total_returns"`
	ReturnsPercentage float64 `json:"returns_percentage"`
	CreatedAt         *string `json:"created_at"`
	UpdatedAt         *string `json:"updated_at"`
}

// CreatePortfolioRequest defines inputs to create a portfolio.
type CreatePortfolioRequest struct {
	Name        string
	Description *string
	IsDefault   bool
}

// UpdatePortfolioRequest defines optional portfolio updates; nil fields are
// left unchanged.
type UpdatePortfolioRequest struct {
	Name        *string
	Description *string
	IsDefault   *bool
}

// Holding represents a single position within a portfolio, tagged with an
// asset class and carrying both cost basis and mark-to-market value.
type Holding struct {
	ID              int64     `json:"id"`
	PortfolioID     int64     `json:"portfolio_id"`
	Symbol          string    `json:"symbol"`
	Name            *string   `json:"name"`
	AssetType       AssetType `json:"asset_type"`
	Exchange        *string   `json:"exchange"`
	Quantity        Amount    `json:"quantity"`
	AveragePrice    Amount    `json:"average_price"`
	CurrentPrice    Amount    `json:"current_price"`
	InvestedAmount  Amount    `json:"invested_amount"`
	CurrentValue    Amount    `json:"current_value"`
	UnrealizedPnL   Amount    `json:"unrealized_pnl"`
	PnlPercent      float64   `json:"pnl_percent"`
	LastPriceUpdate *string   `json:"last_price_update"`
	CreatedAt       *string   `json:"created_at"`
	UpdatedAt       *string   `json:"updated_at"`
}

// AddHoldingRequest defines inputs to add a holding.
type AddHoldingRequest struct {
	PortfolioID  int64
	Symbol       string
	Name         *string
	AssetType    AssetType
	Exchange     *string
	Quantity     Amount
	AveragePrice Amount
	CurrentPrice Amount
}

// Transaction records a single trade or corporate action against a holding.
type Transaction struct {
	ID              int64   `json:"id"`
	PortfolioID     int64   `json:"portfolio_id"`
	Symbol          string  `json:"symbol"`
	TransactionType string  `json:"transaction_type"`
	Quantity        Amount  `json:"quantity"`
	Price           Amount  `json:"price"`
	TotalAmount     Amount  `json:"total_amount"`
	Charges         Amount  `json:"charges"`
	NetAmount       Amount  `json:"net_amount"`
	Notes           *string `json:"notes"`
	TransactionDate string  `json:"transaction_date"`
	CreatedAt       *string `json:"created_at"`
}

// AddTransactionRequest defines inputs to record a transaction.
type AddTransactionRequest struct {
	PortfolioID     int64
	Symbol          string
	TransactionType string
	Quantity        Amount
	Price           Amount
	Charges         Amount
	AssetType       AssetType
	Name            *string
	Notes           *string
	TransactionDate string
}

// PortfolioSummary is the aggregate view of one portfolio snapshot. It is
// derived, never persisted.
type PortfolioSummary struct {
	TotalInvested     Amount  `json:"total_invested"`
	CurrentValue      Amount  `json:"current_value"`
	TotalReturns      Amount  `json:"total_returns"`
	ReturnsPercentage float64 `json:"returns_percentage"`
}

// AllocationEntry is one asset type's share of a portfolio's current value.
type AllocationEntry struct {
	AssetType            AssetType `json:"asset_type"`
	Label                string    `json:"label"`
	CurrentValue         Amount    `json:"current_value"`
	AllocationPercentage float64   `json:"allocation_percentage"`
}

// TopHolding is a brief view of a high-value position used in overviews.
type TopHolding struct {
	Symbol       string  `json:"symbol"`
	Name         *string `json:"name"`
	CurrentValue Amount  `json:"current_value"`
	PnlPercent   float64 `json:"pnl_percent"`
}

// PortfolioOverview decorates a summary with allocation and context for
// dashboard consumers.
type PortfolioOverview struct {
	PortfolioID        int64             `json:"portfolio_id"`
	Name               string            `json:"name"`
	Summary            PortfolioSummary  `json:"summary"`
	HoldingsCount      int               `json:"holdings_count"`
	Allocation         []AllocationEntry `json:"allocation"`
	TopHoldings        []TopHolding      `json:"top_holdings"`
	RecentTransactions []Transaction     `json:"recent_transactions"`
	LastUpdated        *string           `json:"last_updated"`
}
