// Package analytics aggregates canonical expense records into derived views.
// Everything here is a pure function of its input: no I/O, no stored state,
// so results are always consistent with the latest edits and deletes.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"expensecoach/internal/domain"
)

// MonthTotal is total spend for one YYYY-MM bucket.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// MonthContext describes the current calendar month's spending pace.
// Projection is a plain linear extrapolation of the burn rate; it knows
// nothing about seasonality or upcoming bills.
type MonthContext struct {
	MonthKey    string  `json:"month_key"`
	Spent       float64 `json:"spent"`
	DayOfMonth  int     `json:"day_of_month"`
	DaysInMonth int     `json:"days_in_month"`
	DailyBurn   float64 `json:"daily_burn"`
	Projected   float64 `json:"projected_month_end"`
}

// BudgetStatus relates the month context to a budget limit.
type BudgetStatus struct {
	Limit             float64 `json:"limit"`
	PercentUsed       int     `json:"percent_used"`
	PacePercent       int     `json:"pace_percent"`
	DaysRemaining     int     `json:"days_remaining"`
	OverPace          bool    `json:"over_pace"`
	SuggestedDailyCap float64 `json:"suggested_daily_cap,omitempty"`
}

// overPaceThreshold is the projected-usage percentage above which a
// budget warning is emitted.
const overPaceThreshold = 110

// CategoryTotals sums amounts grouped by case-normalized category.
// Unrecognized or empty categories fold into "other".
func CategoryTotals(expenses []domain.Expense) map[string]float64 {
	totals := make(map[string]float64, len(domain.Categories))
	for _, e := range expenses {
		cat := strings.ToLower(strings.TrimSpace(string(e.Category)))
		if cat == "" {
			cat = string(domain.CategoryOther)
		}
		totals[cat] += e.Amount
	}
	return totals
}

// TopCategories orders category totals by spend, descending. Ties break on
// category name so the ordering is deterministic.
func TopCategories(expenses []domain.Expense) []domain.CategorySpend {
	totals := CategoryTotals(expenses)
	out := make([]domain.CategorySpend, 0, len(totals))
	for cat, sum := range totals {
		out = append(out, domain.CategorySpend{Category: cat, Spend: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlyTotals sums amounts grouped by YYYY-MM, sorted ascending by month
// key. Lexical order is chronological because the key is zero-padded.
func MonthlyTotals(expenses []domain.Expense) []MonthTotal {
	byMonth := make(map[string]float64)
	for _, e := range expenses {
		byMonth[e.MonthKey()] += e.Amount
	}
	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthTotal, len(keys))
	for i, k := range keys {
		out[i] = MonthTotal{Month: k, Total: byMonth[k]}
	}
	return out
}

// CurrentMonthContext computes spend-to-date and the linear month-end
// projection for the month containing now.
func CurrentMonthContext(expenses []domain.Expense, now time.Time) MonthContext {
	now = now.UTC()
	monthKey := now.Format("2006-01")
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	dayOfMonth := now.Day()

	var spent float64
	for _, e := range expenses {
		if e.MonthKey() == monthKey {
			spent += e.Amount
		}
	}

	dailyBurn := spent / float64(max(1, dayOfMonth))
	return MonthContext{
		MonthKey:    monthKey,
		Spent:       spent,
		DayOfMonth:  dayOfMonth,
		DaysInMonth: daysInMonth,
		DailyBurn:   dailyBurn,
		Projected:   math.Round(dailyBurn * float64(daysInMonth)),
	}
}

// BudgetStatusFor relates the month context to a budget limit. A warning
// (OverPace) fires when the projected usage exceeds the limit by more than
// 10%; the suggested cap spreads the remaining budget across the remaining
// days, floored at one day to avoid division by zero on month end.
func BudgetStatusFor(mc MonthContext, limit float64) BudgetStatus {
	status := BudgetStatus{
		Limit:         limit,
		DaysRemaining: mc.DaysInMonth - mc.DayOfMonth,
	}
	if limit <= 0 {
		return status
	}

	status.PercentUsed = int(math.Round(mc.Spent / limit * 100))
	status.PacePercent = int(math.Round(mc.Projected / limit * 100))
	if status.PacePercent > overPaceThreshold {
		status.OverPace = true
		remainingDays := max(1, status.DaysRemaining)
		status.SuggestedDailyCap = math.Round((limit - mc.Spent) / float64(remainingDays))
	}
	return status
}
