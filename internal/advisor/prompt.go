package advisor

import (
	"fmt"
	"strings"

	"expensecoach/internal/analytics"
	"expensecoach/internal/domain"
)

// maxPromptExpenses bounds how many recent records go into the prompt so the
// request stays well inside every provider's context window.
const maxPromptExpenses = 500

// buildPrompt renders the instruction block plus a compact table of the most
// recent expenses. The expenses slice is expected newest first, as the store
// returns it.
func buildPrompt(expenses []domain.Expense, mc analytics.MonthContext, budget *analytics.BudgetStatus) string {
	if len(expenses) > maxPromptExpenses {
		expenses = expenses[:maxPromptExpenses]
	}

	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Analyze the expense records below\n")
	b.WriteString("and respond with ONLY a JSON object, no prose and no markdown, shaped as:\n")
	b.WriteString(`{
  "month_summary": "one or two sentences about the current month",
  "top_categories": [{"category": "food", "spend": 123.45}],
  "anomalies": [{"reason": "why this stands out", "amount": 99.0, "date": "2025-03-21"}],
  "savings_opportunities": [{"title": "...", "detail": "...", "impact": "low|medium|high", "action": "..."}],
  "budget_health": "good|ok|poor"
}`)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Current month %s: spent %.2f over %d of %d days (%.2f/day, projected %.2f).\n",
		mc.MonthKey, mc.Spent, mc.DayOfMonth, mc.DaysInMonth, mc.DailyBurn, mc.Projected)
	if budget != nil && budget.Limit > 0 {
		fmt.Fprintf(&b, "Monthly budget: %.2f (%d%% used, pace %d%%).\n",
			budget.Limit, budget.PercentUsed, budget.PacePercent)
	} else {
		b.WriteString("No monthly budget is set.\n")
	}

	b.WriteString("\nExpenses (date, amount, merchant, category):\n")
	for _, e := range expenses {
		fmt.Fprintf(&b, "%s, %.2f, %s, %s\n",
			e.Date.UTC().Format("2006-01-02"), e.Amount, e.Merchant, e.Category)
	}
	return b.String()
}
