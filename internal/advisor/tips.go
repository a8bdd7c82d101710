package advisor

import (
	"fmt"
	"math"

	"expensecoach/internal/analytics"
	"expensecoach/internal/domain"
)

// maxTips caps the deterministic tip list so the response stays scannable.
const maxTips = 5

// Tips derives rule-based advice from aggregates alone. It needs no model,
// no network, and always returns at least one line, so it doubles as the
// fallback content when the AI advisor is unavailable.
func Tips(expenses []domain.Expense, mc analytics.MonthContext, budget *analytics.BudgetStatus) []string {
	if len(expenses) == 0 {
		return []string{"Add a few expenses to start seeing spending insights."}
	}

	tips := make([]string, 0, maxTips)
	total := totalSpend(expenses)
	top := analytics.TopCategories(expenses)

	if total > 0 && len(top) > 0 && top[0].Spend > 0 {
		share := int(math.Round(top[0].Spend / total * 100))
		tips = append(tips, fmt.Sprintf(
			"%s is your biggest category at %d%% of total spend (%.2f).",
			top[0].Category, share, top[0].Spend))
		if len(top) > 1 && top[1].Spend > 0 {
			share := int(math.Round(top[1].Spend / total * 100))
			tips = append(tips, fmt.Sprintf(
				"%s comes second at %d%% (%.2f); small cuts here add up.",
				top[1].Category, share, top[1].Spend))
		}
	}

	if mc.Spent > 0 {
		tips = append(tips, fmt.Sprintf(
			"You are averaging %.2f per day this month, on pace for %.2f by month end.",
			mc.DailyBurn, mc.Projected))
	}

	if budget != nil && budget.Limit > 0 {
		if budget.OverPace {
			tip := fmt.Sprintf(
				"Warning: current pace puts you at %d%% of your %.2f budget.",
				budget.PacePercent, budget.Limit)
			if budget.SuggestedDailyCap > 0 {
				tip += fmt.Sprintf(" Keep daily spend under %.2f to stay within it.",
					budget.SuggestedDailyCap)
			}
			tips = append(tips, tip)
		} else {
			tips = append(tips, fmt.Sprintf(
				"You have used %d%% of your budget and are on track for the month.",
				budget.PercentUsed))
		}
	}

	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

func totalSpend(expenses []domain.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
