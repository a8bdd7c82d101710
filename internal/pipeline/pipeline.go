// Package pipeline turns raw expense rows into validated, categorized
// records and writes them to the store. Single-record ingestion is strict;
// batch imports are lenient and drop rows that cannot be normalized.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"expensecoach/internal/domain"
	"expensecoach/internal/normalize"
	"expensecoach/internal/store"
)

// ErrNoValidRows is returned by IngestBatch when every row was dropped.
var ErrNoValidRows = errors.New("no valid rows in batch")

// categorizeConcurrency bounds parallel classifier calls during imports.
const categorizeConcurrency = 4

// Ingestor normalizes raw rows and persists them.
type Ingestor struct {
	store       store.Store
	dates       normalize.DateNormalizer
	categorizer *normalize.Categorizer
	log         zerolog.Logger
}

// NewIngestor wires the pipeline's collaborators.
func NewIngestor(s store.Store, dates normalize.DateNormalizer, categorizer *normalize.Categorizer, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		store:       s,
		dates:       dates,
		categorizer: categorizer,
		log:         log.With().Str("component", "pipeline").Logger(),
	}
}

// BatchResult reports the outcome of a batch import.
type BatchResult struct {
	Created []domain.Expense `json:"created"`
	Dropped int              `json:"dropped"`
}

// IngestOne normalizes and stores a single row. Unlike batch imports, an
// invalid row here is the caller's mistake and is reported as an error.
func (in *Ingestor) IngestOne(ctx context.Context, ownerID string, raw domain.RawExpenseInput) (*domain.Expense, error) {
	expense, err := in.normalizeRow(ctx, ownerID, raw)
	if err != nil {
		return nil, err
	}
	if err := in.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("store expense: %w", err)
	}
	return expense, nil
}

// IngestBatch normalizes every row, silently dropping ones that fail, and
// stores the survivors atomically. It fails with ErrNoValidRows only when
// nothing in the batch could be salvaged.
func (in *Ingestor) IngestBatch(ctx context.Context, ownerID string, rows []domain.RawExpenseInput) (*BatchResult, error) {
	normalized := make([]*domain.Expense, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(categorizeConcurrency)
	for i, raw := range rows {
		g.Go(func() error {
			expense, err := in.normalizeRow(gctx, ownerID, raw)
			if err != nil {
				in.log.Debug().Int("row", i).Err(err).Msg("dropping unusable row")
				return nil
			}
			normalized[i] = expense
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]*domain.Expense, 0, len(rows))
	for _, expense := range normalized {
		if expense != nil {
			kept = append(kept, expense)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoValidRows
	}

	if err := in.store.CreateExpenses(ctx, kept); err != nil {
		return nil, fmt.Errorf("store batch: %w", err)
	}

	result := &BatchResult{
		Created: make([]domain.Expense, len(kept)),
		Dropped: len(rows) - len(kept),
	}
	for i, expense := range kept {
		result.Created[i] = *expense
	}
	in.log.Info().
		Int("created", len(result.Created)).
		Int("dropped", result.Dropped).
		Msg("batch import complete")
	return result, nil
}

// ExpensePatch carries optional field updates for an existing expense. Nil
// fields are left unchanged.
type ExpensePatch struct {
	Date     *string  `json:"date,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Merchant *string  `json:"merchant,omitempty"`
	Category *string  `json:"category,omitempty"`
}

// Update applies a patch to an expense owned by ownerID. The patched record
// must still satisfy every invariant a freshly ingested one does.
func (in *Ingestor) Update(ctx context.Context, ownerID, id string, patch ExpensePatch) (*domain.Expense, error) {
	expense, err := in.store.GetExpense(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		parsed, err := in.dates.ParseDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = parsed
	}
	if patch.Amount != nil {
		expense.Amount = *patch.Amount
	}
	if patch.Merchant != nil {
		expense.Merchant = strings.TrimSpace(*patch.Merchant)
	}
	if patch.Category != nil {
		if !domain.IsKnownCategory(*patch.Category) {
			return nil, fmt.Errorf("unknown category %q", *patch.Category)
		}
		expense.Category = domain.ParseCategory(*patch.Category)
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := in.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// normalizeRow builds a valid Expense from raw input or says why it cannot.
func (in *Ingestor) normalizeRow(ctx context.Context, ownerID string, raw domain.RawExpenseInput) (*domain.Expense, error) {
	merchant := strings.TrimSpace(raw.Merchant)
	if merchant == "" {
		return nil, domain.ErrEmptyMerchant
	}

	amount, err := coerceAmount(raw.Amount)
	if err != nil {
		return nil, err
	}

	date, err := in.dates.ParseDate(raw.Date)
	if err != nil {
		return nil, err
	}

	// A caller-supplied category wins, folding unknown labels to "other";
	// the categorizer only runs when the field is absent.
	var category domain.Category
	if strings.TrimSpace(raw.Category) != "" {
		category = domain.ParseCategory(raw.Category)
	} else {
		category = in.categorizer.Categorize(ctx, merchant, "")
	}

	expense := &domain.Expense{
		OwnerID:  ownerID,
		Date:     date,
		Amount:   amount,
		Merchant: merchant,
		Category: category,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	return expense, nil
}

// coerceAmount accepts the numeric shapes a lenient JSON import produces:
// numbers, json.Number, and numeric strings.
func coerceAmount(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("amount %q is not numeric", n.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("amount %q is not numeric", n)
		}
		return f, nil
	case nil:
		return 0, domain.ErrInvalidAmount
	default:
		return 0, fmt.Errorf("amount has unsupported type %T", v)
	}
}
