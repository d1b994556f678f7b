package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/api/middleware"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/engine"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
	"github.com/rs/zerolog"
)

// ToolsHandler exposes the four analytic operations as JSON
// endpoints. Each endpoint accepts a small JSON body of string
// parameters and returns the operation's result payload verbatim.
type ToolsHandler struct {
	engine *engine.Engine
	log    zerolog.Logger
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(eng *engine.Engine, log zerolog.Logger) *ToolsHandler {
	return &ToolsHandler{
		engine: eng,
		log:    log,
	}
}

// ResolveCustomer handles POST /api/tools/resolve_customer
func (h *ToolsHandler) ResolveCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.ResolveCustomer(r.Context(), req.Query)
	if err != nil {
		h.writeEngineError(w, err, "resolve_customer")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// GetCustomerProfile handles POST /api/tools/get_customer_profile
func (h *ToolsHandler) GetCustomerProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.GetCustomerProfile(r.Context(), req.CustomerID)
	if err != nil {
		h.writeEngineError(w, err, "get_customer_profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// ListTransactions handles POST /api/tools/list_transactions
func (h *ToolsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID    string `json:"customer_id"`
		StartDatetime string `json:"start_datetime"`
		EndDatetime   string `json:"end_datetime"`
		Limit         string `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.ListTransactions(r.Context(), req.CustomerID, req.StartDatetime, req.EndDatetime, req.Limit)
	if err != nil {
		h.writeEngineError(w, err, "list_transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// SummarizeCustomerSpend handles POST /api/tools/summarize_customer_spend
func (h *ToolsHandler) SummarizeCustomerSpend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		GroupBy    string `json:"group_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.SummarizeCustomerSpend(r.Context(), req.CustomerID, req.StartDate, req.EndDate, req.GroupBy)
	if err != nil {
		h.writeEngineError(w, err, "summarize_customer_spend")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

func (h *ToolsHandler) writeEngineError(w http.ResponseWriter, err error, tool string) {
	var dsErr *tables.DataSourceError
	if errors.As(err, &dsErr) {
		h.log.Error().Err(err).Str("tool", tool).Str("table", dsErr.Table).Msg("Table load failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dataset")
		return
	}

	h.log.Error().Err(err).Str("tool", tool).Msg("Tool invocation failed")
	middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
