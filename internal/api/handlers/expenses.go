package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"expensecoach/internal/api/middleware"
	"expensecoach/internal/domain"
	"expensecoach/internal/pipeline"
	"expensecoach/internal/store"
)

// ExpensesHandler handles expense CRUD and imports.
type ExpensesHandler struct {
	store    store.Store
	ingestor *pipeline.Ingestor
	log      zerolog.Logger
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(s store.Store, ingestor *pipeline.Ingestor, log zerolog.Logger) *ExpensesHandler {
	return &ExpensesHandler{
		store:    s,
		ingestor: ingestor,
		log:      log,
	}
}

// ListExpenses handles GET /api/expenses
func (h *ExpensesHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerID(r.Context())

	expenses, err := h.store.ListExpenses(r.Context(), ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list expenses")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"count":    len(expenses),
	})
}

// CreateExpenses handles POST /api/expenses. The body may be a single
// expense object, rejected outright when invalid, or an array, imported
// leniently like /api/expenses/import.
func (h *ExpensesHandler) CreateExpenses(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	if isJSONArray(body) {
		h.importRows(w, r, body)
		return
	}

	var raw domain.RawExpenseInput
	if err := json.Unmarshal(body, &raw); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.ingestor.IngestOne(r.Context(), middleware.OwnerID(r.Context()), raw)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, expense)
}

// ImportExpenses handles POST /api/expenses/import
func (h *ExpensesHandler) ImportExpenses(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if !isJSONArray(body) {
		middleware.WriteError(w, http.StatusBadRequest, "Expected a JSON array of expenses")
		return
	}
	h.importRows(w, r, body)
}

func (h *ExpensesHandler) importRows(w http.ResponseWriter, r *http.Request, body []byte) {
	var rows []domain.RawExpenseInput
	if err := json.Unmarshal(body, &rows); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.ingestor.IngestBatch(r.Context(), middleware.OwnerID(r.Context()), rows)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoValidRows) {
			middleware.WriteError(w, http.StatusBadRequest, "No valid rows in batch")
			return
		}
		h.log.Error().Err(err).Msg("Failed to import expenses")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to import expenses")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"created": result.Created,
		"count":   len(result.Created),
		"dropped": result.Dropped,
	})
}

// UpdateExpense handles PATCH /api/expenses/:id
func (h *ExpensesHandler) UpdateExpense(w http.ResponseWriter, r *http.Request, id string) {
	var patch pipeline.ExpensePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.ingestor.Update(r.Context(), middleware.OwnerID(r.Context()), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, expense)
}

// DeleteExpense handles DELETE /api/expenses/:id
func (h *ExpensesHandler) DeleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.DeleteExpense(r.Context(), middleware.OwnerID(r.Context()), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to delete expense")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
