package investai

import (
	"math"
	"strings"
	"time"
)

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func normalizeAssetType(assetType AssetType) AssetType {
	return AssetType(strings.ToLower(strings.TrimSpace(string(assetType))))
}

func isValidTransactionType(t string) bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func todayISO() string {
	return time.Now().UTC().Format("2006-01-02")
}
