package llm

import (
	"fmt"
	"strings"
)

// PromptInput carries the campaign parameters and retrieved brand context
// that condition the strategy prompt.
type PromptInput struct {
	Goal         string
	Platform     string
	Industry     string
	Budget       float64
	DurationDays int
	BrandContext []string
}

// platformKnowledge holds built-in best practices per ad platform. These
// condition the prompt alongside retrieved brand context.
var platformKnowledge = map[string]string{
	"linkedin": `LinkedIn Best Practices:
- B2B focus, professional tone essential
- Carousel ads: 2x engagement vs single image
- Targeting: Job titles, company size, industry
- Lead gen forms reduce friction
- Optimal times: Tue-Thu, 9-11am
- Image specs: 1200x627px (1.91:1 ratio)
- Character limits: Headline 70, Body 150
- Typical CTR: 0.5-1.0%, CPC: $5-15, CPL: $50-150`,
	"meta": `Meta (Facebook/Instagram) Best Practices:
- Stories and Reels: highest engagement
- Interest-based + lookalike targeting
- Retargeting essential for conversions
- Image ratio: 1:1 or 4:5 for feed, 9:16 for stories
- Character limits: Headline 40, Body 125
- Typical CTR: 0.9-2.5%, CPC: $0.50-3.00
- Test multiple ad variations`,
	"tiktok": `TikTok Best Practices:
- Short vertical video (15-30 sec)
- Authentic, raw content beats polished
- Hook in first 3 seconds critical
- 9:16 aspect ratio required
- Gen Z and Millennial audience
- Typical CTR: 1.5-3.0%, CPC: $0.30-1.50
- Use trending sounds and effects`,
}

// AllPlatformKnowledge returns a copy of the built-in best practices,
// keyed by platform name. Seeding uses this to populate the shared
// knowledge scope.
func AllPlatformKnowledge() map[string]string {
	out := make(map[string]string, len(platformKnowledge))
	for k, v := range platformKnowledge {
		out[k] = v
	}
	return out
}

// PlatformKnowledge returns built-in best practices for a platform.
func PlatformKnowledge(platform string) string {
	if k, ok := platformKnowledge[strings.ToLower(platform)]; ok {
		return k
	}
	return "No platform knowledge available"
}

// BuildStrategyPrompt renders the strategy prompt for the model. The model
// is instructed to return only JSON matching the Strategy schema.
func BuildStrategyPrompt(input PromptInput) string {
	var b strings.Builder

	b.WriteString("You are an expert digital marketing strategist. Create a detailed campaign plan.\n\n")

	b.WriteString("CAMPAIGN DETAILS:\n")
	fmt.Fprintf(&b, "- Goal: %s\n", input.Goal)
	fmt.Fprintf(&b, "- Platform: %s\n", input.Platform)
	if input.Industry != "" {
		fmt.Fprintf(&b, "- Industry: %s\n", input.Industry)
	}
	fmt.Fprintf(&b, "- Budget: $%.0f\n", input.Budget)
	fmt.Fprintf(&b, "- Duration: %d days\n", input.DurationDays)
	b.WriteString("\n")

	b.WriteString("PLATFORM KNOWLEDGE:\n")
	b.WriteString(PlatformKnowledge(input.Platform))
	b.WriteString("\n\n")

	if len(input.BrandContext) > 0 {
		b.WriteString("BRAND VOICE EXAMPLES (match this style and tone):\n")
		for i, example := range input.BrandContext {
			fmt.Fprintf(&b, "Example %d:\n%s\n\n", i+1, example)
		}
	}

	b.WriteString(`Generate a complete campaign strategy as JSON with this EXACT structure:
{
  "targeting": {
    "demographics": ["target1", "target2"],
    "interests": ["interest1", "interest2"],
    "locations": ["location1"]
  },
  "placements": ["Feed", "Stories"],
  "bid_strategy": "cost_cap or lowest_cost",
  "predictions": {
    "impressions": 50000,
    "ctr": 1.2,
    "cpc": 5.50,
    "conversions": 250,
    "cpa": 120,
    "roas": 3.5
  },
  "creative_brief": {
    "count": 5,
    "formats": ["carousel"],
    "tone": "professional",
    "hooks": ["problem_solution", "metric_led"],
    "copy_specs": {
      "headline_max_chars": 70,
      "body_max_chars": 150
    },
    "asset_specs": {
      "image_ratio": "1.91:1",
      "min_resolution": "1200x627"
    }
  }
}

Return ONLY valid JSON, no markdown, no explanations.`)

	return b.String()
}
