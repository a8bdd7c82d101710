// Package api assembles the HTTP surface: routes, auth protection and the
// shared middleware chain.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"expensecoach/internal/api/handlers"
	"expensecoach/internal/api/middleware"
	"expensecoach/internal/session"
)

// Handlers carries the endpoint implementations the router dispatches to.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Expenses *handlers.ExpensesHandler
	Budget   *handlers.BudgetHandler
	Analyze  *handlers.AnalyzeHandler
	Export   *handlers.ExportHandler
}

// NewRouter builds the full handler: routes plus middleware. Everything
// under /api except /api/auth/* requires a valid session.
func NewRouter(h Handlers, sessions session.Store, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	protect := middleware.Auth(sessions)

	// Auth endpoints
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Auth.Register(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Auth.Login(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Auth.Logout(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Expense endpoints
	mux.Handle("/api/expenses", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Expenses.ListExpenses(w, r)
		case http.MethodPost:
			h.Expenses.CreateExpenses(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	mux.Handle("/api/expenses/import", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Expenses.ImportExpenses(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	mux.Handle("/api/expenses/", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
		if id == "" || strings.Contains(id, "/") {
			middleware.WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		switch r.Method {
		case http.MethodPatch:
			h.Expenses.UpdateExpense(w, r, id)
		case http.MethodDelete:
			h.Expenses.DeleteExpense(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	// Budget endpoints
	mux.Handle("/api/budget", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Budget.GetBudget(w, r)
		case http.MethodPost:
			h.Budget.UpsertBudget(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	// Analysis and export
	mux.Handle("/api/analyze", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.Analyze.Analyze(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	mux.Handle("/api/export/csv", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.Export.ExportCSV(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	return middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)
}
