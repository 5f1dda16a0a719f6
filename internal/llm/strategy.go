package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brightreach/campaignai/internal/domain"
)

// Generator turns campaign parameters plus retrieved brand context into a
// structured Strategy by prompting a chat model and parsing its JSON reply.
type Generator struct {
	api ChatAPI
}

// NewGenerator creates a strategy generator backed by the given chat API.
func NewGenerator(api ChatAPI) *Generator {
	return &Generator{api: api}
}

// Generate prompts the model and parses the reply into a Strategy. A nil
// API, a failed call, or an unparseable reply all surface as errors; the
// caller decides whether to substitute a deterministic fallback.
func (g *Generator) Generate(ctx context.Context, input PromptInput) (*domain.Strategy, error) {
	if g.api == nil {
		return nil, domain.ErrStrategyLLMUnavailable
	}

	prompt := BuildStrategyPrompt(input)

	reply, err := g.api.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("strategy completion failed: %w", err)
	}

	strategy, err := ParseStrategy(reply)
	if err != nil {
		return nil, err
	}

	return strategy, nil
}

// ParseStrategy decodes a model reply into a Strategy. Markdown code fences
// are stripped first since models wrap JSON in them despite instructions.
func ParseStrategy(reply string) (*domain.Strategy, error) {
	cleaned := StripCodeFences(reply)

	var strategy domain.Strategy
	if err := json.Unmarshal([]byte(cleaned), &strategy); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStrategyResponse, err)
	}

	if err := validateStrategy(&strategy); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStrategyResponse, err)
	}

	return &strategy, nil
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a json language tag, and trims whitespace.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func validateStrategy(s *domain.Strategy) error {
	if s.BidStrategy == "" {
		return fmt.Errorf("missing bid_strategy")
	}
	if len(s.Placements) == 0 {
		return fmt.Errorf("missing placements")
	}
	if s.Predictions.Impressions <= 0 {
		return fmt.Errorf("predictions.impressions must be positive")
	}
	if s.CreativeBrief.Count <= 0 {
		return fmt.Errorf("creative_brief.count must be positive")
	}
	return nil
}
