package llm

import (
	"strings"

	"github.com/brightreach/campaignai/internal/domain"
)

// FallbackStrategy builds a deterministic strategy from campaign parameters
// alone. It is used when the model is unavailable or returns an invalid
// reply, so plan creation still succeeds with conservative defaults.
func FallbackStrategy(input PromptInput) *domain.Strategy {
	// Conservative baseline rates; platform specifics below adjust them.
	ctr := 1.0
	cpc := 2.0
	placements := []string{"Feed"}
	tone := "professional"
	formats := []string{"single_image"}
	copySpecs := domain.CopySpecs{HeadlineMaxChars: 60, BodyMaxChars: 150}
	assetSpecs := domain.AssetSpecs{ImageRatio: "1:1", MinResolution: "1080x1080"}

	switch strings.ToLower(input.Platform) {
	case "linkedin":
		ctr = 0.7
		cpc = 8.0
		placements = []string{"Feed", "Sidebar"}
		formats = []string{"carousel", "single_image"}
		copySpecs = domain.CopySpecs{HeadlineMaxChars: 70, BodyMaxChars: 150}
		assetSpecs = domain.AssetSpecs{ImageRatio: "1.91:1", MinResolution: "1200x627"}
	case "meta":
		ctr = 1.5
		cpc = 1.2
		placements = []string{"Feed", "Stories", "Reels"}
		formats = []string{"single_image", "video"}
		copySpecs = domain.CopySpecs{HeadlineMaxChars: 40, BodyMaxChars: 125}
		assetSpecs = domain.AssetSpecs{ImageRatio: "1:1", MinResolution: "1080x1080"}
	case "tiktok":
		ctr = 2.0
		cpc = 0.8
		placements = []string{"For You Feed"}
		tone = "authentic"
		formats = []string{"video"}
		copySpecs = domain.CopySpecs{HeadlineMaxChars: 40, BodyMaxChars: 100}
		assetSpecs = domain.AssetSpecs{ImageRatio: "9:16", MinResolution: "1080x1920"}
	}

	clicks := input.Budget / cpc
	impressions := int64(clicks / (ctr / 100))
	conversions := int64(clicks * 0.02)
	cpa := 0.0
	if conversions > 0 {
		cpa = input.Budget / float64(conversions)
	}

	return &domain.Strategy{
		Targeting: domain.Targeting{
			Demographics: []string{"25-54"},
			Interests:    defaultInterests(input.Industry),
			Locations:    []string{"United States"},
		},
		Placements:  placements,
		BidStrategy: "lowest_cost",
		Predictions: domain.Predictions{
			Impressions: impressions,
			CTR:         ctr,
			CPC:         cpc,
			Conversions: conversions,
			CPA:         cpa,
			ROAS:        2.0,
		},
		CreativeBrief: domain.CreativeBriefSpec{
			Count:      3,
			Formats:    formats,
			Tone:       tone,
			Hooks:      []string{"problem_solution", "social_proof"},
			CopySpecs:  copySpecs,
			AssetSpecs: assetSpecs,
		},
	}
}

func defaultInterests(industry string) []string {
	if industry == "" {
		return []string{"business"}
	}
	return []string{strings.ToLower(industry)}
}
