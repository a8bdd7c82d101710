package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"expensecoach/internal/api/middleware"
	"expensecoach/internal/domain"
	"expensecoach/internal/store"
)

var monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// BudgetHandler handles monthly budget goals.
type BudgetHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(s store.Store, log zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{
		store: s,
		log:   log,
	}
}

// GetBudget handles GET /api/budget?month=YYYY-MM (current month if omitted)
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	if !monthKeyRe.MatchString(month) {
		middleware.WriteError(w, http.StatusBadRequest, "Month must look like YYYY-MM")
		return
	}

	goal, err := h.store.GetBudget(r.Context(), middleware.OwnerID(r.Context()), month)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "No budget set for this month")
			return
		}
		h.log.Error().Err(err).Msg("Failed to get budget")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get budget")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, goal)
}

// UpsertBudget handles POST /api/budget
func (h *BudgetHandler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string  `json:"month"`
		Limit float64 `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Month == "" {
		req.Month = time.Now().UTC().Format("2006-01")
	}
	goal := domain.BudgetGoal{
		OwnerID: middleware.OwnerID(r.Context()),
		Month:   req.Month,
		Limit:   req.Limit,
	}
	if err := goal.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpsertBudget(r.Context(), goal); err != nil {
		h.log.Error().Err(err).Msg("Failed to upsert budget")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save budget")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, goal)
}
