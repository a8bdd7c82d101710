package domain

// BudgetHealth grades how the current month tracks against the budget.
type BudgetHealth string

const (
	BudgetHealthGood BudgetHealth = "good"
	BudgetHealthOK   BudgetHealth = "ok"
	BudgetHealthPoor BudgetHealth = "poor"
)

// Insight is a single savings opportunity surfaced by an advisor.
type Insight struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Impact string `json:"impact,omitempty"` // low | medium | high
	Action string `json:"action,omitempty"`
}

// CategorySpend pairs a category with total spend, ordered by spend.
type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

// Anomaly flags an unusual transaction or pattern.
type Anomaly struct {
	Reason string  `json:"reason"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date,omitempty"`
}

// AIAnalysis is the structured result requested from the insight generator.
// It is derived, never persisted, and always present in the analyze response
// envelope: on provider failure a deterministic fallback fills it in.
type AIAnalysis struct {
	MonthSummary         string          `json:"month_summary"`
	TopCategories        []CategorySpend `json:"top_categories"`
	Anomalies            []Anomaly       `json:"anomalies"`
	SavingsOpportunities []Insight       `json:"savings_opportunities"`
	BudgetHealth         BudgetHealth    `json:"budget_health"`
}
