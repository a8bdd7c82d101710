// Package memory provides an in-memory Store implementation. It is the
// default backend for local runs and the backend handler tests run against.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"expensecoach/internal/domain"
	"expensecoach/internal/store"
)

// Store keeps all records in process memory, guarded by a single mutex.
type Store struct {
	mu       sync.RWMutex
	expenses map[string]domain.Expense
	budgets  map[string]domain.BudgetGoal // keyed by ownerID + "/" + month
	users    map[string]domain.User
	byEmail  map[string]string // email -> user ID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		expenses: make(map[string]domain.Expense),
		budgets:  make(map[string]domain.BudgetGoal),
		users:    make(map[string]domain.User),
		byEmail:  make(map[string]string),
	}
}

// CreateExpense implements store.Store.
func (s *Store) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense.ID = uuid.New().String()
	s.expenses[expense.ID] = *expense
	return nil
}

// CreateExpenses implements store.Store. The batch is applied under one lock
// acquisition, so readers never observe a partial import.
func (s *Store) CreateExpenses(ctx context.Context, expenses []*domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, expense := range expenses {
		expense.ID = uuid.New().String()
		s.expenses[expense.ID] = *expense
	}
	return nil
}

// GetExpense implements store.Store.
func (s *Store) GetExpense(ctx context.Context, ownerID, id string) (*domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expense, ok := s.expenses[id]
	if !ok || expense.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := expense
	return &copied, nil
}

// ListExpenses implements store.Store.
func (s *Store) ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Expense, 0)
	for _, expense := range s.expenses {
		if expense.OwnerID == ownerID {
			result = append(result, expense)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// UpdateExpense implements store.Store.
func (s *Store) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[expense.ID]
	if !ok || existing.OwnerID != expense.OwnerID {
		return store.ErrNotFound
	}
	s.expenses[expense.ID] = *expense
	return nil
}

// DeleteExpense implements store.Store.
func (s *Store) DeleteExpense(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[id]
	if !ok || existing.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// UpsertBudget implements store.Store.
func (s *Store) UpsertBudget(ctx context.Context, goal domain.BudgetGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgets[budgetKey(goal.OwnerID, goal.Month)] = goal
	return nil
}

// GetBudget implements store.Store.
func (s *Store) GetBudget(ctx context.Context, ownerID, month string) (*domain.BudgetGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.budgets[budgetKey(ownerID, month)]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := goal
	return &copied, nil
}

// CreateUser implements store.Store.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return store.ErrDuplicateEmail
	}
	user.ID = uuid.New().String()
	user.Email = email
	s.users[user.ID] = *user
	s.byEmail[email] = user.ID
	return nil
}

// GetUserByEmail implements store.Store.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

func budgetKey(ownerID, month string) string {
	return ownerID + "/" + month
}
