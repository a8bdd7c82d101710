package advisor

import (
	"testing"

	"expensecoach/internal/domain"
)

func TestDecodeLoose(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			"clean JSON",
			`{"month_summary": "fine", "budget_health": "good"}`,
		},
		{
			"fenced JSON",
			"Here you go:\n```json\n{\"month_summary\": \"fine\", \"budget_health\": \"good\"}\n```\nHope that helps!",
		},
		{
			"fence without language tag",
			"```\n{\"month_summary\": \"fine\", \"budget_health\": \"good\"}\n```",
		},
		{
			"prose around object",
			`Sure! The analysis is {"month_summary": "fine", "budget_health": "good"} as requested.`,
		},
		{
			"trailing comma",
			`{"month_summary": "fine", "budget_health": "good",}`,
		},
		{
			"unquoted keys",
			`{month_summary: "fine", budget_health: "good"}`,
		},
		{
			"single quotes",
			`{'month_summary': 'fine', 'budget_health': 'good'}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.AIAnalysis
			if err := decodeLoose(tt.in, &got); err != nil {
				t.Fatalf("decodeLoose: %v", err)
			}
			if got.MonthSummary != "fine" {
				t.Errorf("month_summary = %q, want fine", got.MonthSummary)
			}
			if got.BudgetHealth != domain.BudgetHealthGood {
				t.Errorf("budget_health = %q, want good", got.BudgetHealth)
			}
		})
	}
}

func TestDecodeLooseRejectsGarbage(t *testing.T) {
	var got domain.AIAnalysis
	for _, in := range []string{"", "I cannot help with that.", "{broken"} {
		if err := decodeLoose(in, &got); err == nil {
			t.Errorf("decodeLoose(%q): expected error", in)
		}
	}
}

func TestExtractObjectIgnoresBracesInStrings(t *testing.T) {
	in := `noise {"a": "open { brace", "b": 1} trailing`
	got, err := extractObject(in)
	if err != nil {
		t.Fatalf("extractObject: %v", err)
	}
	want := `{"a": "open { brace", "b": 1}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractObjectNested(t *testing.T) {
	in := `{"outer": {"inner": [1, 2]}}`
	got, err := extractObject(in)
	if err != nil {
		t.Fatalf("extractObject: %v", err)
	}
	if got != in {
		t.Errorf("got %q, want the whole object", got)
	}
}
