package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"expensecoach/internal/api/middleware"
	"expensecoach/internal/export"
	"expensecoach/internal/store"
)

// ExportHandler streams expense exports.
type ExportHandler struct {
	store    store.Store
	archiver *export.Archiver // optional
	log      zerolog.Logger
}

// NewExportHandler creates a new export handler. archiver may be nil, which
// disables cloud archival.
func NewExportHandler(s store.Store, archiver *export.Archiver, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		store:    s,
		archiver: archiver,
		log:      log,
	}
}

// ExportCSV handles GET /api/export/csv
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerID(r.Context())

	expenses, err := h.store.ListExpenses(r.Context(), ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list expenses for export")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to export expenses")
		return
	}

	if h.archiver != nil {
		// Keep a copy in the bucket; the download must not wait on it.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
			defer cancel()
			object, err := h.archiver.ArchiveCSV(ctx, ownerID, expenses)
			if err != nil {
				h.log.Warn().Err(err).Msg("Failed to archive export")
				return
			}
			h.log.Info().Str("object", object).Msg("Export archived")
		}()
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := export.WriteCSV(w, expenses); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}
