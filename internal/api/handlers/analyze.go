package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"expensecoach/internal/advisor"
	"expensecoach/internal/api/middleware"
	"expensecoach/internal/domain"
	"expensecoach/internal/store"
)

// AnalyzeHandler serves the advisory report.
type AnalyzeHandler struct {
	store   store.Store
	advisor *advisor.Advisor
	log     zerolog.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(s store.Store, adv *advisor.Advisor, log zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		store:   s,
		advisor: adv,
		log:     log,
	}
}

// Analyze handles GET /api/analyze. The response is always 200 with a full
// report; model trouble shows up in the analysis_source and analysis_error
// fields, never as an HTTP failure.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.OwnerID(ctx)
	now := time.Now().UTC()

	expenses, err := h.store.ListExpenses(ctx, ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list expenses for analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to analyze expenses")
		return
	}

	var goal *domain.BudgetGoal
	goal, err = h.store.GetBudget(ctx, ownerID, now.Format("2006-01"))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error().Err(err).Msg("Failed to load budget for analysis")
		}
		goal = nil
	}

	report := h.advisor.Analyze(ctx, expenses, goal, now)
	middleware.WriteJSON(w, http.StatusOK, report)
}
