package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrEmptyMerchant = errors.New("empty merchant")
	ErrInvalidAmount = errors.New("amount must be a positive finite number")
	ErrInvalidDate   = errors.New("invalid date")
)

// RawExpenseInput is an untrusted input row from manual entry, a CSV import
// or an edit form. Every field is optional and loosely typed; it is never
// persisted directly.
type RawExpenseInput struct {
	Date     string      `json:"date"`
	Amount   interface{} `json:"amount"` // string or number
	Merchant string      `json:"merchant"`
	Category string      `json:"category,omitempty"`
}

// Expense is the canonical, validated expense record. Date carries UTC
// midnight semantics: no time-of-day component, so day comparisons are exact
// regardless of the caller's timezone.
type Expense struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"owner_id"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Merchant string    `json:"merchant"`
	Category Category  `json:"category"`
}

// Validate enforces the canonical-record invariants. A record failing any of
// these must never reach the store.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if !(e.Amount > 0) || math.IsInf(e.Amount, 0) { // also rejects NaN
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the YYYY-MM bucket for the expense date.
func (e Expense) MonthKey() string {
	return e.Date.UTC().Format("2006-01")
}

// BudgetGoal is one budget limit per (owner, calendar month). Setting a second
// goal for the same owner and month overwrites the limit.
type BudgetGoal struct {
	OwnerID string  `json:"owner_id"`
	Month   string  `json:"month"` // YYYY-MM
	Limit   float64 `json:"limit"`
}

func (g BudgetGoal) Validate() error {
	if !(g.Limit > 0) {
		return errors.New("budget limit must be positive")
	}
	if _, err := time.Parse("2006-01", g.Month); err != nil {
		return errors.New("month must be formatted as YYYY-MM")
	}
	return nil
}

// User is the account owner. Credentials are stored hashed; the session layer
// only ever sees the opaque user ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
