package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"investai/pkg/investai"
)

type createPortfolioPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsDefault   bool    `json:"is_default"`
}

type updatePortfolioPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsDefault   *bool   `json:"is_default"`
}

type addHoldingPayload struct {
	Symbol       string          `json:"symbol"`
	Name         *string         `json:"name"`
	AssetType    string          `json:"asset_type"`
	Exchange     *string         `json:"exchange"`
	Quantity     investai.Amount `json:"quantity"`
	AveragePrice investai.Amount `json:"average_price"`
	CurrentPrice investai.Amount `json:"current_price"`
}

type updatePricePayload struct {
	CurrentPrice investai.Amount `json:"current_price"`
}

type addTransactionPayload struct {
	Symbol          string          `json:"symbol"`
	TransactionType string          `json:"transaction_type"`
	Quantity        investai.Amount `json:"quantity"`
	Price           investai.Amount `json:"price"`
	Charges         investai.Amount `json:"charges"`
	AssetType       string          `json:"asset_type"`
	Name            *string         `json:"name"`
	Notes           *string         `json:"notes"`
	TransactionDate string          `json:"transaction_date"`
}

type allocationAdvicePayload struct {
	Provider        string `json:"provider"`
	BaseURL         string `json:"base_url"`
	APIKey          string `json:"api_key"`
	Model           string `json:"model"`
	AgeRange        string `json:"age_range"`
	InvestGoal      string `json:"invest_goal"`
	RiskTolerance   string `json:"risk_tolerance"`
	Horizon         string `json:"horizon"`
	ExperienceLevel string `json:"experience_level"`
	CustomPrompt    string `json:"custom_prompt"`
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.core.GetPortfolios()
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if portfolios == nil {
		portfolios = []investai.Portfolio{}
	}
	writeJSON(w, http.StatusOK, portfolios)
}

func (h *handler) createPortfolio(w http.ResponseWriter, r *http.Request) {
	var payload createPortfolioPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.CreatePortfolio(investai.CreatePortfolioRequest{
		Name:        payload.Name,
		Description: payload.Description,
		IsDefault:   payload.IsDefault,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	portfolio, err := h.core.GetPortfolio(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, portfolio)
}

func (h *handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	portfolio, err := h.core.GetPortfolio(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

func (h *handler) updatePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	var payload updatePortfolioPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.UpdatePortfolio(id, investai.UpdatePortfolioRequest{
		Name:        payload.Name,
		Description: payload.Description,
		IsDefault:   payload.IsDefault,
	}); err != nil {
		writeCoreError(w, err)
		return
	}
	portfolio, err := h.core.GetPortfolio(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

func (h *handler) deletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	if err := h.core.DeletePortfolio(id); err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) getPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	overview, err := h.core.GetPortfolioSummary(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *handler) getAllocationBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	allocation, err := h.core.GetAllocationBreakdown(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if allocation == nil {
		allocation = []investai.AllocationEntry{}
	}
	writeJSON(w, http.StatusOK, allocation)
}

func (h *handler) getHoldings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	if _, err := h.core.GetPortfolio(id); err != nil {
		writeCoreError(w, err)
		return
	}
	holdings, err := h.core.GetHoldings(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if holdings == nil {
		holdings = []investai.Holding{}
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (h *handler) addHolding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	var payload addHoldingPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	holdingID, err := h.core.AddHolding(investai.AddHoldingRequest{
		PortfolioID:  id,
		Symbol:       payload.Symbol,
		Name:         payload.Name,
		AssetType:    investai.AssetType(payload.AssetType),
		Exchange:     payload.Exchange,
		Quantity:     payload.Quantity,
		AveragePrice: payload.AveragePrice,
		CurrentPrice: payload.CurrentPrice,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	holding, err := h.core.GetHolding(holdingID)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, holding)
}

func (h *handler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid holding id")
		return
	}
	if err := h.core.DeleteHolding(id); err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) updateHoldingPrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid holding id")
		return
	}
	var payload updatePricePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.UpdateHoldingPrice(id, payload.CurrentPrice); err != nil {
		writeCoreError(w, err)
		return
	}
	holding, err := h.core.GetHolding(id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holding)
}

func (h *handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	if _, err := h.core.GetPortfolio(id); err != nil {
		writeCoreError(w, err)
		return
	}
	query := r.URL.Query()
	filter := investai.TransactionFilter{
		PortfolioID:     id,
		Symbol:          query.Get("symbol"),
		TransactionType: query.Get("type"),
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil {
		filter.Offset = offset
	}
	transactions, err := h.core.GetTransactions(filter)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if transactions == nil {
		transactions = []investai.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}
	var payload addTransactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactionID, err := h.core.AddTransaction(investai.AddTransactionRequest{
		PortfolioID:     id,
		Symbol:          payload.Symbol,
		TransactionType: payload.TransactionType,
		Quantity:        payload.Quantity,
		Price:           payload.Price,
		Charges:         payload.Charges,
		AssetType:       investai.AssetType(payload.AssetType),
		Name:            payload.Name,
		Notes:           payload.Notes,
		TransactionDate: payload.TransactionDate,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": transactionID})
}

func (h *handler) getAssetTypes(w http.ResponseWriter, r *http.Request) {
	assetTypes, err := h.core.GetAssetTypes()
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assetTypes)
}

func (h *handler) getAllocationAdvice(w http.ResponseWriter, r *http.Request) {
	var payload allocationAdvicePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.core.GetAllocationAdvice(r.Context(), investai.AllocationAdviceRequest{
		Provider:        payload.Provider,
		BaseURL:         payload.BaseURL,
		APIKey:          payload.APIKey,
		Model:           payload.Model,
		AgeRange:        payload.AgeRange,
		InvestGoal:      payload.InvestGoal,
		RiskTolerance:   payload.RiskTolerance,
		Horizon:         payload.Horizon,
		ExperienceLevel: payload.ExperienceLevel,
		CustomPrompt:    payload.CustomPrompt,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
