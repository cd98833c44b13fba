package investai

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing and returns a Core instance.
// The caller should defer cleanup() to remove the temp file.
func setupTestDB(t *testing.T) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "investai-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

// testPortfolio creates a portfolio and returns its ID.
func testPortfolio(t *testing.T, core *Core, name string) int64 {
	t.Helper()
	id, err := core.CreatePortfolio(CreatePortfolioRequest{Name: name})
	if err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return id
}

// testHolding adds a holding and returns its ID.
func testHolding(t *testing.T, core *Core, portfolioID int64, symbol string, assetType AssetType, qty, avgPrice, curPrice float64) int64 {
	t.Helper()
	id, err := core.AddHolding(AddHoldingRequest{
		PortfolioID:  portfolioID,
		Symbol:       symbol,
		AssetType:    assetType,
		Quantity:     NewAmount(qty),
		AveragePrice: NewAmount(avgPrice),
		CurrentPrice: NewAmount(curPrice),
	})
	if err != nil {
		t.Fatalf("failed to create test holding %s: %v", symbol, err)
	}
	return id
}

// stringPtr returns a pointer to value, or nil for the empty string.
func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// snapshotHolding builds an in-memory holding for aggregation tests.
func snapshotHolding(symbol string, assetType AssetType, invested, current float64) Holding {
	return Holding{
		Symbol:         symbol,
		AssetType:      assetType,
		InvestedAmount: NewAmount(invested),
		CurrentValue:   NewAmount(current),
	}
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertAmountEquals fails the test if the amount does not equal want.
func assertAmountEquals(t *testing.T, got Amount, want float64, msg string) {
	t.Helper()
	f, _ := got.Float64()
	if !floatEquals(f, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, f, want)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// assertContains checks if the string contains the substring.
func assertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	found := false
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("%s: string %q does not contain %q", msg, s, substr)
	}
}
