package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"investai/pkg/investai"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *investai.Core, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core}

	r.Get("/api/health", h.health)

	// Portfolios
	r.Get("/api/portfolios", h.getPortfolios)
	r.Post("/api/portfolios", h.createPortfolio)
	r.Get("/api/portfolios/{id}", h.getPortfolio)
	r.Put("/api/portfolios/{id}", h.updatePortfolio)
	r.Delete("/api/portfolios/{id}", h.deletePortfolio)
	r.Get("/api/portfolios/{id}/summary", h.getPortfolioSummary)
	r.Get("/api/portfolios/{id}/allocation", h.getAllocationBreakdown)

	// Holdings
	r.Get("/api/portfolios/{id}/holdings", h.getHoldings)
	r.Post("/api/portfolios/{id}/holdings", h.addHolding)
	r.Delete("/api/holdings/{id}", h.deleteHolding)
	r.Put("/api/holdings/{id}/price", h.updateHoldingPrice)

	// Transactions
	r.Get("/api/portfolios/{id}/transactions", h.getTransactions)
	r.Post("/api/portfolios/{id}/transactions", h.addTransaction)

	// Asset types
	r.Get("/api/asset-types", h.getAssetTypes)

	// AI advisory
	r.Post("/api/ai/allocation-advice", h.getAllocationAdvice)

	return r
}

type handler struct {
	core *investai.Core
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCoreError maps domain errors to HTTP status codes.
func writeCoreError(w http.ResponseWriter, err error) {
	var invalidHolding *investai.InvalidHoldingError
	if errors.As(err, &invalidHolding) {
		writeError(w, http.StatusUnprocessableEntity, invalidHolding.Error())
		return
	}
	var coreErr *investai.Error
	if errors.As(err, &coreErr) {
		writeError(w, mapErrorCodeToHTTPStatus(coreErr.Code), coreErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func mapErrorCodeToHTTPStatus(code investai.ErrorCode) int {
	switch code {
	case investai.ErrCodeInvalidInput, investai.ErrCodeValidation:
		return http.StatusBadRequest
	case investai.ErrCodeNotFound:
		return http.StatusNotFound
	case investai.ErrCodeDuplicate:
		return http.StatusConflict
	case investai.ErrCodeDatabase, investai.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
