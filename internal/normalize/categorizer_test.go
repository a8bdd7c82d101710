package normalize

import (
	"context"
	"errors"
	"testing"

	"expensecoach/internal/domain"
)

type stubClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, text string, labels []string) (string, error) {
	s.calls++
	return s.label, s.err
}

func TestCategorize_RuleMatch(t *testing.T) {
	c := NewCategorizer(nil)

	tests := []struct {
		merchant string
		memo     string
		want     domain.Category
	}{
		{"Swiggy Bangalore", "", domain.CategoryFood},
		{"UBER *TRIP", "", domain.CategoryTravel},
		{"AMAZON.IN", "", domain.CategoryShopping},
		{"BESCOM electricity", "", domain.CategoryBills},
		{"Netflix.com", "", domain.CategoryEntertainment},
		{"corner store", "netflix gift card", domain.CategoryEntertainment},
		{"Apollo Pharmacy", "", domain.CategoryHealth},
	}

	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			got := c.Categorize(context.Background(), tt.merchant, tt.memo)
			if got != tt.want {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.merchant, tt.memo, got, tt.want)
			}
		})
	}
}

func TestCategorize_IsTotal(t *testing.T) {
	c := NewCategorizer(nil)

	for _, input := range []string{"", "   ", "completely unknown merchant", "\x00weird"} {
		got := c.Categorize(context.Background(), input, "")
		if !domain.IsKnownCategory(string(got)) {
			t.Errorf("Categorize(%q) = %q, not in the fixed category set", input, got)
		}
	}
}

func TestCategorize_ClassifierFallback(t *testing.T) {
	clf := &stubClassifier{label: "travel"}
	c := NewCategorizer(clf)

	got := c.Categorize(context.Background(), "some obscure airline", "")
	if got != domain.CategoryTravel {
		t.Errorf("expected classifier label to win, got %q", got)
	}
	if clf.calls != 1 {
		t.Errorf("expected one classifier call, got %d", clf.calls)
	}
}

func TestCategorize_ClassifierNotConsultedOnRuleHit(t *testing.T) {
	clf := &stubClassifier{label: "travel"}
	c := NewCategorizer(clf)

	got := c.Categorize(context.Background(), "Swiggy", "")
	if got != domain.CategoryFood {
		t.Errorf("rule match should win, got %q", got)
	}
	if clf.calls != 0 {
		t.Errorf("classifier should not be consulted on rule hit, got %d calls", clf.calls)
	}
}

func TestCategorize_ClassifierFailureAbsorbed(t *testing.T) {
	clf := &stubClassifier{err: errors.New("model unavailable")}
	c := NewCategorizer(clf)

	got := c.Categorize(context.Background(), "unknown merchant", "")
	if got != domain.CategoryOther {
		t.Errorf("classifier failure should fall back to other, got %q", got)
	}
}

func TestCategorize_UnknownClassifierLabelRejected(t *testing.T) {
	clf := &stubClassifier{label: "cryptocurrency"}
	c := NewCategorizer(clf)

	got := c.Categorize(context.Background(), "unknown merchant", "")
	if got != domain.CategoryOther {
		t.Errorf("labels outside the fixed set must map to other, got %q", got)
	}
}
