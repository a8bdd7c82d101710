package insight

import (
	"context"
	"fmt"
	"strings"
)

// ZeroShot adapts a Generator into a label classifier: the model is asked to
// answer with exactly one label from the provided set. It backs the merchant
// categorizer's secondary inference step and is strictly best effort — any
// failure surfaces as an error for the caller to absorb.
type ZeroShot struct {
	generator Generator
}

// NewZeroShot wraps a generator as a classifier.
func NewZeroShot(g Generator) *ZeroShot {
	return &ZeroShot{generator: g}
}

// Classify asks the model to pick one label for text. The response is
// normalized and must match a provided label exactly.
func (z *ZeroShot) Classify(ctx context.Context, text string, labels []string) (string, error) {
	prompt := fmt.Sprintf(
		"Classify the following purchase description into exactly one of these labels: %s.\n"+
			"Answer with the single label only, lowercase, no punctuation, no explanation.\n\n"+
			"Description: %s",
		strings.Join(labels, ", "), text)

	answer, err := z.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("zeroshot: %w", err)
	}

	got := strings.ToLower(strings.TrimSpace(answer))
	got = strings.Trim(got, `"'.`)
	for _, label := range labels {
		if got == label {
			return label, nil
		}
	}
	return "", fmt.Errorf("zeroshot: response %q is not a known label", answer)
}
