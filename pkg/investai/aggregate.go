package investai

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Summarize computes portfolio-level totals from a snapshot of holdings.
// The caller is responsible for pre-filtering to a single portfolio; no
// filtering happens here. The function is pure: it never mutates its input
// and is safe to call concurrently.
//
// An empty snapshot yields an all-zero summary. When total invested is zero
// the returns percentage is zero rather than a division error.
func Summarize(holdings []Holding) (PortfolioSummary, error) {
	if err := validateHoldings(holdings); err != nil {
		return PortfolioSummary{}, err
	}

	var invested, current decimal.Decimal
	for _, h := range holdings {
		invested = invested.Add(h.InvestedAmount.Decimal)
		current = current.Add(h.CurrentValue.Decimal)
	}
	returns := current.Sub(invested)

	percentage := 0.0
	if invested.IsPositive() {
		f, _ := returns.Div(invested).Mul(hundred).Float64()
		percentage = round2(f)
	}

	return PortfolioSummary{
		TotalInvested:     Amount{invested},
		CurrentValue:      Amount{current},
		TotalReturns:      Amount{returns},
		ReturnsPercentage: percentage,
	}, nil
}

// AllocationBreakdown groups a holdings snapshot by asset type and computes
// each group's share of total current value. Asset types with no holdings
// are absent from the output; a present type whose value is zero still
// appears with a zero percentage. Output follows the canonical asset-type
// order, so it is deterministic regardless of input ordering.
func AllocationBreakdown(holdings []Holding) ([]AllocationEntry, error) {
	if err := validateHoldings(holdings); err != nil {
		return nil, err
	}

	byType := map[AssetType]decimal.Decimal{}
	var grand decimal.Decimal
	for _, h := range holdings {
		byType[h.AssetType] = byType[h.AssetType].Add(h.CurrentValue.Decimal)
		grand = grand.Add(h.CurrentValue.Decimal)
	}

	entries := make([]AllocationEntry, 0, len(byType))
	for _, t := range AssetTypes {
		value, ok := byType[t]
		if !ok {
			continue
		}
		percentage := 0.0
		if grand.IsPositive() {
			f, _ := value.Div(grand).Mul(hundred).Float64()
			percentage = round2(f)
		}
		entries = append(entries, AllocationEntry{
			AssetType:            t,
			Label:                t.Label(),
			CurrentValue:         Amount{value},
			AllocationPercentage: percentage,
		})
	}
	return entries, nil
}

// validateHoldings rejects the first malformed record. A financial aggregate
// must not be reported as complete when any input was malformed, so there is
// no partial-result path.
func validateHoldings(holdings []Holding) error {
	for i, h := range holdings {
		if !h.AssetType.Valid() {
			return &InvalidHoldingError{
				Index:  i,
				Symbol: h.Symbol,
				Field:  "asset_type",
				Reason: "is not a recognized asset type: " + string(h.AssetType),
			}
		}
		if h.InvestedAmount.IsNegative() {
			return &InvalidHoldingError{
				Index:  i,
				Symbol: h.Symbol,
				Field:  "invested_amount",
				Reason: "must not be negative",
			}
		}
		if h.CurrentValue.IsNegative() {
			return &InvalidHoldingError{
				Index:  i,
				Symbol: h.Symbol,
				Field:  "current_value",
				Reason: "must not be negative",
			}
		}
	}
	return nil
}
