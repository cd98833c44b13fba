package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"investai/pkg/investai"
)

// pathFor formats a route path with numeric IDs.
func pathFor(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// setupTestRouter creates a test router with a temporary database.
func setupTestRouter(t *testing.T) (http.Handler, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := investai.Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(core, logger)

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return router, cleanup
}

// doRequest performs a request and returns the response.
func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

// parseJSONList parses the response body into a slice of maps.
func parseJSONList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var result []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response list: %v", err)
	}
	return result
}

func TestHealthEndpoint(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	rr := doRequest(router, "GET", "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := parseJSON(t, rr)
	if body["status"] != "ok" {
		t.Errorf("expected ok status, got %v", body["status"])
	}
}

func TestPortfolioLifecycle(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	rr := doRequest(router, "POST", "/api/portfolios", map[string]any{
		"name":        "Retirement",
		"description": "long horizon",
		"is_default":  true,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	created := parseJSON(t, rr)
	id := int64(created["id"].(float64))
	if created["name"] != "Retirement" {
		t.Errorf("unexpected name: %v", created["name"])
	}

	rr = doRequest(router, "GET", "/api/portfolios", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	list := parseJSONList(t, rr)
	if len(list) != 1 {
		t.Fatalf("expected 1 portfolio, got %d", len(list))
	}

	rr = doRequest(router, "PUT", pathFor("/api/portfolios/%d", id), map[string]any{"name": "Renamed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	updated := parseJSON(t, rr)
	if updated["name"] != "Renamed" {
		t.Errorf("expected rename, got %v", updated["name"])
	}

	rr = doRequest(router, "DELETE", pathFor("/api/portfolios/%d", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = doRequest(router, "GET", pathFor("/api/portfolios/%d", id), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestCreatePortfolioValidation(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	rr := doRequest(router, "POST", "/api/portfolios", map[string]any{"name": "  "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}

	req := httptest.NewRequest("POST", "/api/portfolios", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHoldingEndpoints(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	portfolioID := createTestPortfolio(t, router, "Main")

	rr := doRequest(router, "POST", pathFor("/api/portfolios/%d/holdings", portfolioID), map[string]any{
		"symbol":        "infy",
		"asset_type":    "stock",
		"quantity":      10,
		"average_price": 1500,
		"current_price": 1600,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	holding := parseJSON(t, rr)
	if holding["symbol"] != "INFY" {
		t.Errorf("expected normalized symbol, got %v", holding["symbol"])
	}
	holdingID := int64(holding["id"].(float64))

	rr = doRequest(router, "GET", pathFor("/api/portfolios/%d/holdings", portfolioID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if list := parseJSONList(t, rr); len(list) != 1 {
		t.Errorf("expected 1 holding, got %d", len(list))
	}

	rr = doRequest(router, "PUT", pathFor("/api/holdings/%d/price", holdingID), map[string]any{"current_price": 1700})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	priced := parseJSON(t, rr)
	if cv := priced["current_value"].(float64); cv != 17000 {
		t.Errorf("expected current value 17000, got %v", cv)
	}

	rr = doRequest(router, "DELETE", pathFor("/api/holdings/%d", holdingID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHoldingValidationErrors(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	portfolioID := createTestPortfolio(t, router, "Main")

	rr := doRequest(router, "POST", pathFor("/api/portfolios/%d/holdings", portfolioID), map[string]any{
		"symbol":     "XYZ",
		"asset_type": "derivative",
		"quantity":   1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad asset type, got %d", rr.Code)
	}

	doRequest(router, "POST", pathFor("/api/portfolios/%d/holdings", portfolioID), map[string]any{
		"symbol": "TCS", "asset_type": "stock", "quantity": 1, "average_price": 100,
	})
	rr = doRequest(router, "POST", pathFor("/api/portfolios/%d/holdings", portfolioID), map[string]any{
		"symbol": "TCS", "asset_type": "stock", "quantity": 1, "average_price": 100,
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d", rr.Code)
	}

	rr = doRequest(router, "GET", "/api/portfolios/999/holdings", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing portfolio, got %d", rr.Code)
	}

	rr = doRequest(router, "GET", "/api/portfolios/abc/holdings", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for junk id, got %d", rr.Code)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	portfolioID := createTestPortfolio(t, router, "Main")

	rr := doRequest(router, "POST", pathFor("/api/portfolios/%d/transactions", portfolioID), map[string]any{
		"symbol":           "INFY",
		"transaction_type": "BUY",
		"quantity":         10,
		"price":            100,
		"asset_type":       "stock",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(router, "GET", pathFor("/api/portfolios/%d/transactions", portfolioID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	list := parseJSONList(t, rr)
	if len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list))
	}
	if list[0]["transaction_type"] != "BUY" {
		t.Errorf("unexpected type: %v", list[0]["transaction_type"])
	}

	rr = doRequest(router, "GET", pathFor("/api/portfolios/%d/transactions?type=SELL", portfolioID), nil)
	if len(parseJSONList(t, rr)) != 0 {
		t.Error("expected empty list for SELL filter")
	}

	rr = doRequest(router, "POST", pathFor("/api/portfolios/%d/transactions", portfolioID), map[string]any{
		"symbol":           "INFY",
		"transaction_type": "SELL",
		"quantity":         999,
		"price":            100,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for oversell, got %d", rr.Code)
	}
}

func TestSummaryAndAllocationEndpoints(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	portfolioID := createTestPortfolio(t, router, "Main")
	doRequest(router, "POST", pathFor("/api/portfolios/%d/holdings", portfolioID), map[string]any{
		"symbol": "NIFTYBEES", "asset_type": "stock", "quantity": 100, "average_price": 100, "current_price": 120,
	})
	doRequest(router, "POST", pathFor("/api/portfolios/%d/holdings", portfolioID), map[string]any{
		"symbol": "GILT2033", "asset_type": "bond", "quantity": 50, "average_price": 100, "current_price": 96,
	})

	rr := doRequest(router, "GET", pathFor("/api/portfolios/%d/summary", portfolioID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	overview := parseJSON(t, rr)
	summary := overview["summary"].(map[string]any)
	if summary["total_invested"].(float64) != 15000 {
		t.Errorf("expected total invested 15000, got %v", summary["total_invested"])
	}
	if summary["returns_percentage"].(float64) != 12.0 {
		t.Errorf("expected 12.0 percent, got %v", summary["returns_percentage"])
	}

	rr = doRequest(router, "GET", pathFor("/api/portfolios/%d/allocation", portfolioID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	allocation := parseJSONList(t, rr)
	if len(allocation) != 2 {
		t.Fatalf("expected 2 allocation entries, got %d", len(allocation))
	}
	if allocation[0]["asset_type"] != "stock" {
		t.Errorf("expected stock first, got %v", allocation[0]["asset_type"])
	}
	if allocation[0]["allocation_percentage"].(float64) != 71.43 {
		t.Errorf("expected 71.43, got %v", allocation[0]["allocation_percentage"])
	}

	rr = doRequest(router, "GET", "/api/portfolios/999/summary", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing portfolio, got %d", rr.Code)
	}
}

func TestAssetTypesEndpoint(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	rr := doRequest(router, "GET", "/api/asset-types", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	types := parseJSONList(t, rr)
	if len(types) != 9 {
		t.Fatalf("expected 9 asset types, got %d", len(types))
	}
	if types[0]["code"] != "stock" || types[0]["label"] != "Stocks" {
		t.Errorf("unexpected first asset type: %v", types[0])
	}
}

func TestAllocationAdviceEndpointValidation(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	rr := doRequest(router, "POST", "/api/ai/allocation-advice", map[string]any{
		"provider": "unknown",
		"api_key":  "k",
		"model":    "m",
	})
	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for failed advice, got %d", rr.Code)
	}
	body := parseJSON(t, rr)
	if body["error"] == nil {
		t.Error("expected error message in body")
	}
}

// createTestPortfolio posts a portfolio and returns its ID.
func createTestPortfolio(t *testing.T, router http.Handler, name string) int64 {
	t.Helper()
	rr := doRequest(router, "POST", "/api/portfolios", map[string]any{"name": name})
	if rr.Code != http.StatusCreated {
		t.Fatalf("failed to create portfolio: %d %s", rr.Code, rr.Body.String())
	}
	return int64(parseJSON(t, rr)["id"].(float64))
}
