package export

import (
	"strings"
	"testing"
	"time"

	"expensecoach/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	expenses := []domain.Expense{
		{
			Date:     time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC),
			Amount:   149.5,
			Merchant: "Swiggy",
			Category: domain.CategoryFood,
		},
		{
			Date:     time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
			Amount:   25,
			Merchant: `Joe's "Diner", Downtown`,
			Category: domain.CategoryFood,
		},
	}

	var b strings.Builder
	if err := WriteCSV(&b, expenses); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), b.String())
	}
	if lines[0] != "date,amount,merchant,category" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-03-21,149.50,Swiggy,food" {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"Joe's ""Diner"", Downtown"`) {
		t.Errorf("quoting broken: %q", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if strings.TrimRight(b.String(), "\n") != "date,amount,merchant,category" {
		t.Errorf("empty export should be header only, got %q", b.String())
	}
}
