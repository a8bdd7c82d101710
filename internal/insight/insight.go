// Package insight abstracts the external language-model capability used for
// spending analysis and zero-shot categorization. Backends are
// interchangeable; callers see a single Generate method and bound the wait
// with a context deadline.
package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoGenerators indicates a chain configured with zero backends.
var ErrNoGenerators = errors.New("no insight generators configured")

// Generator produces free text for a prompt. Implementations perform a single
// attempt; they do not retry internally.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Chain tries a fixed priority order of generators and returns the first
// successful response. If every backend fails the errors are aggregated so
// diagnostics show each attempt.
type Chain struct {
	generators []Generator
	log        zerolog.Logger
}

// NewChain builds a provider chain. Order encodes priority.
func NewChain(log zerolog.Logger, generators ...Generator) *Chain {
	return &Chain{generators: generators, log: log}
}

// Name implements Generator.
func (c *Chain) Name() string { return "chain" }

// Generate implements Generator by short-circuiting on the first backend that
// answers.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.generators) == 0 {
		return "", ErrNoGenerators
	}

	var failures []error
	for _, g := range c.generators {
		text, err := g.Generate(ctx, prompt)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = errors.New("empty response")
		}
		c.log.Warn().Err(err).Str("provider", g.Name()).Msg("Insight provider attempt failed")
		failures = append(failures, fmt.Errorf("%s: %w", g.Name(), err))

		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}
	}
	return "", errors.Join(failures...)
}
