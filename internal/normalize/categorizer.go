package normalize

import (
	"context"
	"strings"
	"time"

	"expensecoach/internal/domain"
)

// Classifier is an optional secondary categorization capability (zero-shot
// text classification over a fixed label set). It may be absent or fail;
// either way the categorizer falls back to "other" and never blocks
// ingestion.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (string, error)
}

type rule struct {
	fragment string
	category domain.Category
}

// categoryRules maps known merchant-name fragments to categories.
// Matching is case-insensitive substring and the FIRST match wins, so the
// order of this table encodes priority. Keep it stable: reordering changes
// behavior for merchants matching multiple fragments.
var categoryRules = []rule{
	{"swiggy", domain.CategoryFood},
	{"zomato", domain.CategoryFood},
	{"starbucks", domain.CategoryFood},
	{"mcdonald", domain.CategoryFood},
	{"uber", domain.CategoryTravel},
	{"ola", domain.CategoryTravel},
	{"lyft", domain.CategoryTravel},
	{"airbnb", domain.CategoryTravel},
	{"amazon", domain.CategoryShopping},
	{"flipkart", domain.CategoryShopping},
	{"electricity", domain.CategoryBills},
	{"airtel", domain.CategoryBills},
	{"broadband", domain.CategoryBills},
	{"netflix", domain.CategoryEntertainment},
	{"spotify", domain.CategoryEntertainment},
	{"pharmacy", domain.CategoryHealth},
	{"gym", domain.CategoryHealth},
}

const classifyTimeout = 5 * time.Second

// Categorizer maps a merchant string (plus optional memo) to exactly one
// category from the fixed set. It is total: any input, including the empty
// string, yields a category.
type Categorizer struct {
	classifier Classifier // may be nil
}

// NewCategorizer builds a categorizer. classifier may be nil, in which case
// rule misses resolve directly to "other".
func NewCategorizer(classifier Classifier) *Categorizer {
	return &Categorizer{classifier: classifier}
}

// Categorize resolves merchant+memo to a category. Rule match first; on a
// miss the optional classifier is consulted best-effort with a bounded wait.
func (c *Categorizer) Categorize(ctx context.Context, merchant, memo string) domain.Category {
	text := strings.ToLower(strings.TrimSpace(merchant + " " + memo))
	for _, r := range categoryRules {
		if strings.Contains(text, r.fragment) {
			return r.category
		}
	}

	if c.classifier != nil && text != "" {
		cctx, cancel := context.WithTimeout(ctx, classifyTimeout)
		defer cancel()

		labels := make([]string, len(domain.Categories))
		for i, cat := range domain.Categories {
			labels[i] = string(cat)
		}
		if label, err := c.classifier.Classify(cctx, text, labels); err == nil {
			if domain.IsKnownCategory(label) {
				return domain.ParseCategory(label)
			}
		}
	}

	return domain.CategoryOther
}
