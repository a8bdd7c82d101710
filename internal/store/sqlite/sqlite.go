// Package sqlite provides a Store backed by a local SQLite database using
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"expensecoach/internal/domain"
	"expensecoach/internal/store"
)

const dateLayout = "2006-01-02"

// Store implements store.Store on top of a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and applies pending
// migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateExpense implements store.Store.
func (s *Store) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	expense.ID = uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, owner_id, date, amount, merchant, category)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.OwnerID, expense.Date.UTC().Format(dateLayout),
		expense.Amount, expense.Merchant, string(expense.Category))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// CreateExpenses implements store.Store. All rows are written in a single
// transaction so a failed import leaves no partial data behind.
func (s *Store) CreateExpenses(ctx context.Context, expenses []*domain.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (id, owner_id, date, amount, merchant, category)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, len(expenses))
	for i, expense := range expenses {
		ids[i] = uuid.New().String()
		_, err := stmt.ExecContext(ctx,
			ids[i], expense.OwnerID, expense.Date.UTC().Format(dateLayout),
			expense.Amount, expense.Merchant, string(expense.Category))
		if err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	for i, expense := range expenses {
		expense.ID = ids[i]
	}
	return nil
}

// GetExpense implements store.Store.
func (s *Store) GetExpense(ctx context.Context, ownerID, id string) (*domain.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, date, amount, merchant, category
		 FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query expense: %w", err)
	}
	return expense, nil
}

// ListExpenses implements store.Store.
func (s *Store) ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, date, amount, merchant, category
		 FROM expenses WHERE owner_id = ? ORDER BY date DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		result = append(result, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return result, nil
}

// UpdateExpense implements store.Store.
func (s *Store) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, amount = ?, merchant = ?, category = ?
		 WHERE id = ? AND owner_id = ?`,
		expense.Date.UTC().Format(dateLayout), expense.Amount, expense.Merchant,
		string(expense.Category), expense.ID, expense.OwnerID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

// DeleteExpense implements store.Store.
func (s *Store) DeleteExpense(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

// UpsertBudget implements store.Store.
func (s *Store) UpsertBudget(ctx context.Context, goal domain.BudgetGoal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (owner_id, month, spend_limit) VALUES (?, ?, ?)
		 ON CONFLICT (owner_id, month) DO UPDATE SET spend_limit = excluded.spend_limit`,
		goal.OwnerID, goal.Month, goal.Limit)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// GetBudget implements store.Store.
func (s *Store) GetBudget(ctx context.Context, ownerID, month string) (*domain.BudgetGoal, error) {
	var goal domain.BudgetGoal
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, month, spend_limit FROM budgets WHERE owner_id = ? AND month = ?`,
		ownerID, month).Scan(&goal.OwnerID, &goal.Month, &goal.Limit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query budget: %w", err)
	}
	return &goal, nil
}

// CreateUser implements store.Store.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New().String()
	user.Email = strings.ToLower(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail implements store.Store.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var (
		user      domain.User
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		strings.ToLower(email)).Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	user.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		expense  domain.Expense
		date     string
		category string
	)
	if err := row.Scan(&expense.ID, &expense.OwnerID, &date, &expense.Amount,
		&expense.Merchant, &category); err != nil {
		return nil, err
	}
	parsed, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	expense.Date = parsed
	expense.Category = domain.ParseCategory(category)
	return &expense, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
