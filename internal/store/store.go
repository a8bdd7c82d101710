// Package store defines the persistence boundary for expenses, budgets and
// users. Backends implement simple owner-scoped CRUD; a record operation on
// an identifier outside the caller's ownership is indistinguishable from the
// record not existing.
package store

import (
	"context"
	"errors"

	"expensecoach/internal/domain"
)

var (
	// ErrNotFound covers both genuinely missing records and records owned
	// by someone else, so callers cannot probe for existence.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when registering an email twice.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the record store used by the service. All expense and budget
// operations are scoped to an owner identity.
type Store interface {
	// CreateExpense persists one expense, assigning its ID.
	CreateExpense(ctx context.Context, expense *domain.Expense) error

	// CreateExpenses persists a batch atomically: either every expense is
	// written or none are. IDs are assigned on success.
	CreateExpenses(ctx context.Context, expenses []*domain.Expense) error

	// GetExpense fetches one expense owned by ownerID.
	GetExpense(ctx context.Context, ownerID, id string) (*domain.Expense, error)

	// ListExpenses returns every expense for ownerID, newest date first.
	ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error)

	// UpdateExpense replaces the stored record with the given one. The
	// record must already exist under the same owner.
	UpdateExpense(ctx context.Context, expense *domain.Expense) error

	// DeleteExpense removes one expense owned by ownerID.
	DeleteExpense(ctx context.Context, ownerID, id string) error

	// UpsertBudget creates or overwrites the limit for (owner, month).
	UpsertBudget(ctx context.Context, goal domain.BudgetGoal) error

	// GetBudget fetches the goal for (owner, month).
	GetBudget(ctx context.Context, ownerID, month string) (*domain.BudgetGoal, error)

	// CreateUser persists a new user, assigning its ID.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByEmail fetches a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	Close() error
}
