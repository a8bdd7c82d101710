// Package advisor produces spending advice in two independent forms: a
// deterministic rule-based tip list and a model-written analysis. The
// analysis degrades gracefully: whatever the model or network does, callers
// always get a complete report back.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"expensecoach/internal/analytics"
	"expensecoach/internal/domain"
	"expensecoach/internal/insight"
)

// generateTimeout bounds a single model attempt. The analyze endpoint is
// interactive; past this point the fallback is the better answer.
const generateTimeout = 30 * time.Second

const (
	// SourceModel marks an analysis written by the generator chain.
	SourceModel = "model"
	// SourceFallback marks a deterministically assembled analysis.
	SourceFallback = "fallback"
)

// Report is the full advisory payload for one owner.
type Report struct {
	Month          analytics.MonthContext  `json:"month"`
	Budget         *analytics.BudgetStatus `json:"budget,omitempty"`
	TopCategories  []domain.CategorySpend  `json:"top_categories"`
	MonthlyTotals  []analytics.MonthTotal  `json:"monthly_totals"`
	Tips           []string                `json:"tips"`
	Analysis       domain.AIAnalysis       `json:"analysis"`
	AnalysisSource string                  `json:"analysis_source"`
	AnalysisError  string                  `json:"analysis_error,omitempty"`
}

// Advisor assembles reports. The generator is optional; without one every
// report uses the deterministic fallback analysis.
type Advisor struct {
	generator insight.Generator
	log       zerolog.Logger
}

// New creates an advisor. generator may be nil.
func New(generator insight.Generator, log zerolog.Logger) *Advisor {
	return &Advisor{
		generator: generator,
		log:       log.With().Str("component", "advisor").Logger(),
	}
}

// Analyze builds the advisory report for the given expenses and optional
// budget goal. It never fails: model trouble is reported in-band through
// AnalysisSource and AnalysisError.
func (a *Advisor) Analyze(ctx context.Context, expenses []domain.Expense, goal *domain.BudgetGoal, now time.Time) Report {
	mc := analytics.CurrentMonthContext(expenses, now)

	var budget *analytics.BudgetStatus
	if goal != nil && goal.Month == mc.MonthKey && goal.Limit > 0 {
		status := analytics.BudgetStatusFor(mc, goal.Limit)
		budget = &status
	}

	report := Report{
		Month:         mc,
		Budget:        budget,
		TopCategories: analytics.TopCategories(expenses),
		MonthlyTotals: analytics.MonthlyTotals(expenses),
		Tips:          Tips(expenses, mc, budget),
	}

	if len(expenses) == 0 {
		report.Analysis = fallbackAnalysis(report)
		report.Analysis.MonthSummary = "No expenses recorded yet. Add some to get a spending analysis."
		report.AnalysisSource = SourceFallback
		return report
	}

	analysis, err := a.modelAnalysis(ctx, expenses, mc, budget)
	if err != nil {
		a.log.Warn().Err(err).Msg("model analysis unavailable, using fallback")
		report.Analysis = fallbackAnalysis(report)
		report.AnalysisSource = SourceFallback
		report.AnalysisError = err.Error()
		return report
	}

	report.Analysis = *analysis
	report.AnalysisSource = SourceModel
	return report
}

// modelAnalysis makes one bounded attempt against the generator chain and
// parses the response leniently.
func (a *Advisor) modelAnalysis(ctx context.Context, expenses []domain.Expense, mc analytics.MonthContext, budget *analytics.BudgetStatus) (*domain.AIAnalysis, error) {
	if a.generator == nil {
		return nil, fmt.Errorf("no insight generator configured")
	}

	gctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	text, err := a.generator.Generate(gctx, buildPrompt(expenses, mc, budget))
	if err != nil {
		return nil, fmt.Errorf("generate analysis: %w", err)
	}

	var analysis domain.AIAnalysis
	if err := decodeLoose(text, &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	if analysis.MonthSummary == "" {
		return nil, fmt.Errorf("parse analysis: response has no month_summary")
	}
	if analysis.BudgetHealth == "" {
		analysis.BudgetHealth = healthFor(budget)
	}
	return &analysis, nil
}

// fallbackAnalysis fills the analysis shape from aggregates already in the
// report, so the envelope is complete even without a model.
func fallbackAnalysis(report Report) domain.AIAnalysis {
	mc := report.Month
	summary := fmt.Sprintf("You spent %.2f so far in %s, averaging %.2f per day.",
		mc.Spent, mc.MonthKey, mc.DailyBurn)
	if report.Budget != nil {
		summary += fmt.Sprintf(" That is %d%% of your %.2f budget.",
			report.Budget.PercentUsed, report.Budget.Limit)
	}

	opportunities := make([]domain.Insight, 0, len(report.Tips))
	for _, tip := range report.Tips {
		opportunities = append(opportunities, domain.Insight{
			Title:  "Spending tip",
			Detail: tip,
		})
	}

	top := report.TopCategories
	if len(top) > 3 {
		top = top[:3]
	}

	return domain.AIAnalysis{
		MonthSummary:         summary,
		TopCategories:        top,
		Anomalies:            []domain.Anomaly{},
		SavingsOpportunities: opportunities,
		BudgetHealth:         healthFor(report.Budget),
	}
}

func healthFor(budget *analytics.BudgetStatus) domain.BudgetHealth {
	switch {
	case budget == nil || budget.Limit <= 0:
		return domain.BudgetHealthOK
	case budget.OverPace:
		return domain.BudgetHealthPoor
	case budget.PercentUsed < 80:
		return domain.BudgetHealthGood
	default:
		return domain.BudgetHealthOK
	}
}
