// Package safety screens text-to-image prompts through a moderation
// provider before they are submitted for generation or grading.
package safety

import (
	"context"
	"fmt"

	"github.com/zacharyhorvitz/fk-diffusion-steering/api"
)

// PromptCheckOptions configures the prompt Checker
type PromptCheckOptions struct {
	// Threshold is the confidence threshold for flagging content (0.0-1.0)
	Threshold float64
	// Categories to check (empty = all categories)
	Categories []string
}

// Result reports whether a prompt passed moderation.
type Result struct {
	// Safe is true when no checked category exceeded the threshold
	Safe bool
	// Flagged maps each flagged category name to its confidence
	Flagged map[string]float64
	// Threshold is the effective confidence threshold used
	Threshold float64
}

// Checker evaluates prompt safety using a moderation provider.
type Checker struct {
	opts     PromptCheckOptions
	provider api.ModerationProvider
}

// NewChecker creates a prompt Checker backed by the given provider.
func NewChecker(provider api.ModerationProvider, opts PromptCheckOptions) *Checker {
	return &Checker{
		opts:     opts,
		provider: provider,
	}
}

// Check moderates the prompt and reports flagged categories.
func (c *Checker) Check(ctx context.Context, prompt string) (Result, error) {
	if c.provider == nil {
		return Result{}, fmt.Errorf("moderation provider is required")
	}

	resp, err := c.provider.Moderate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("failed to moderate prompt: %w", err)
	}

	threshold := c.opts.Threshold
	if threshold <= 0 {
		threshold = 0.5 // Default threshold
	}

	flagged := make(map[string]float64)
	for _, category := range resp.Categories {
		if len(c.opts.Categories) > 0 {
			included := false
			for _, name := range c.opts.Categories {
				if category.Name == name {
					included = true
					break
				}
			}
			if !included {
				continue
			}
		}

		if category.Confidence > threshold {
			flagged[category.Name] = category.Confidence
		}
	}

	return Result{
		Safe:      len(flagged) == 0,
		Flagged:   flagged,
		Threshold: threshold,
	}, nil
}
