package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expensecoach/internal/domain"
	"expensecoach/internal/logger"
	"expensecoach/internal/normalize"
	"expensecoach/internal/store/memory"
)

func newTestIngestor() (*Ingestor, *memory.Store) {
	s := memory.New()
	in := NewIngestor(s, normalize.DateNormalizer{}, normalize.NewCategorizer(nil),
		logger.NewWithWriter(&strings.Builder{}))
	return in, s
}

func TestIngestOne(t *testing.T) {
	in, _ := newTestIngestor()

	got, err := in.IngestOne(context.Background(), "owner-1", domain.RawExpenseInput{
		Date:     "21/03/2025",
		Amount:   "149.50",
		Merchant: "  Swiggy  ",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}
	if got.ID == "" {
		t.Error("expected assigned ID")
	}
	if got.Merchant != "Swiggy" {
		t.Errorf("merchant not trimmed: %q", got.Merchant)
	}
	if got.Amount != 149.50 {
		t.Errorf("got amount %v, want 149.50", got.Amount)
	}
	if got.Category != domain.CategoryFood {
		t.Errorf("got category %v, want food", got.Category)
	}
	if key := got.MonthKey(); key != "2025-03" {
		t.Errorf("got month key %q, want 2025-03", key)
	}
}

func TestIngestOneRejectsBadRows(t *testing.T) {
	in, _ := newTestIngestor()

	tests := []struct {
		name string
		row  domain.RawExpenseInput
	}{
		{"empty merchant", domain.RawExpenseInput{Date: "2025-03-01", Amount: 10.0, Merchant: "   "}},
		{"zero amount", domain.RawExpenseInput{Date: "2025-03-01", Amount: 0.0, Merchant: "x"}},
		{"negative amount", domain.RawExpenseInput{Date: "2025-03-01", Amount: -5.0, Merchant: "x"}},
		{"non-numeric amount", domain.RawExpenseInput{Date: "2025-03-01", Amount: "lots", Merchant: "x"}},
		{"infinite amount", domain.RawExpenseInput{Date: "2025-03-01", Amount: "Inf", Merchant: "x"}},
		{"unparseable date", domain.RawExpenseInput{Date: "soonish", Amount: 10.0, Merchant: "x"}},
		{"impossible date", domain.RawExpenseInput{Date: "31/02/2025", Amount: 10.0, Merchant: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := in.IngestOne(context.Background(), "owner-1", tt.row); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIngestOneRespectsProvidedCategory(t *testing.T) {
	in, _ := newTestIngestor()

	got, err := in.IngestOne(context.Background(), "owner-1", domain.RawExpenseInput{
		Date:     "2025-03-01",
		Amount:   20.0,
		Merchant: "Swiggy",
		Category: "travel",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}
	if got.Category != domain.CategoryTravel {
		t.Errorf("caller-provided category should win over rules, got %v", got.Category)
	}
}

func TestIngestOneUnknownProvidedCategoryFoldsToOther(t *testing.T) {
	in, _ := newTestIngestor()

	got, err := in.IngestOne(context.Background(), "owner-1", domain.RawExpenseInput{
		Date:     "2025-03-01",
		Amount:   20.0,
		Merchant: "Swiggy",
		Category: "aviation",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}
	if got.Category != domain.CategoryOther {
		t.Errorf("unknown provided category should fold to other, got %v", got.Category)
	}
}

func TestIngestBatchDropsBadRowsSilently(t *testing.T) {
	in, s := newTestIngestor()

	rows := []domain.RawExpenseInput{
		{Date: "2025-03-01", Amount: 150.0, Merchant: "Swiggy"},
		{Date: "not a date", Amount: 10.0, Merchant: "x"},
		{Date: "2025-03-02", Amount: 25.0, Merchant: "Uber"},
		{Date: "2025-03-03", Amount: -3.0, Merchant: "y"},
	}
	result, err := in.IngestBatch(context.Background(), "owner-1", rows)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if len(result.Created) != 2 || result.Dropped != 2 {
		t.Fatalf("got %d created / %d dropped, want 2 / 2", len(result.Created), result.Dropped)
	}

	stored, _ := s.ListExpenses(context.Background(), "owner-1")
	if len(stored) != 2 {
		t.Errorf("store holds %d expenses, want 2", len(stored))
	}
}

func TestIngestBatchAllRowsBad(t *testing.T) {
	in, s := newTestIngestor()

	rows := []domain.RawExpenseInput{
		{Date: "bad", Amount: 10.0, Merchant: "x"},
		{Date: "2025-03-01", Amount: "??", Merchant: "y"},
	}
	_, err := in.IngestBatch(context.Background(), "owner-1", rows)
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("got %v, want ErrNoValidRows", err)
	}

	stored, _ := s.ListExpenses(context.Background(), "owner-1")
	if len(stored) != 0 {
		t.Errorf("nothing should be stored, got %d", len(stored))
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	in, _ := newTestIngestor()
	ctx := context.Background()

	created, err := in.IngestOne(ctx, "owner-1", domain.RawExpenseInput{
		Date: "2025-03-01", Amount: 10.0, Merchant: "Swiggy",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}

	date := "05/04/2025"
	amount := 42.0
	got, err := in.Update(ctx, "owner-1", created.ID, ExpensePatch{Date: &date, Amount: &amount})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Amount != 42 {
		t.Errorf("got amount %v, want 42", got.Amount)
	}
	if got.Date.Format("2006-01-02") != "2025-04-05" {
		t.Errorf("got date %v, want 2025-04-05", got.Date)
	}
	if got.Merchant != "Swiggy" {
		t.Errorf("unpatched field changed: %q", got.Merchant)
	}
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	in, _ := newTestIngestor()
	ctx := context.Background()

	created, err := in.IngestOne(ctx, "owner-1", domain.RawExpenseInput{
		Date: "2025-03-01", Amount: 10.0, Merchant: "Swiggy",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}

	bad := -1.0
	if _, err := in.Update(ctx, "owner-1", created.ID, ExpensePatch{Amount: &bad}); err == nil {
		t.Error("expected error for negative amount")
	}
	unknown := "aviation"
	if _, err := in.Update(ctx, "owner-1", created.ID, ExpensePatch{Category: &unknown}); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := in.Update(ctx, "someone-else", created.ID, ExpensePatch{Amount: &[]float64{5}[0]}); err == nil {
		t.Error("expected error for cross-owner update")
	}
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{12.5, 12.5, false},
		{"12.5", 12.5, false},
		{" 99 ", 99, false},
		{7, 7, false},
		{"", 0, true},
		{"abc", 0, true},
		{nil, 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		got, err := coerceAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("coerceAmount(%v): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("coerceAmount(%v) = (%v, %v), want %v", tt.in, got, err, tt.want)
		}
	}
}
