package domain

import (
	"fmt"
	"time"
)

// CampaignPlatform identifies the ad platform a strategy targets
type CampaignPlatform string

const (
	PlatformLinkedIn CampaignPlatform = "linkedin"
	PlatformMeta     CampaignPlatform = "meta"
	PlatformTikTok   CampaignPlatform = "tiktok"
)

// IsValidPlatform checks if a CampaignPlatform is one of the supported platforms
func IsValidPlatform(p CampaignPlatform) bool {
	switch p {
	case PlatformLinkedIn, PlatformMeta, PlatformTikTok:
		return true
	}
	return false
}

// CampaignPlanStatus represents the lifecycle status of a campaign plan
type CampaignPlanStatus string

const (
	PlanStatusStrategyPending CampaignPlanStatus = "strategy_pending"
	PlanStatusApproved        CampaignPlanStatus = "approved"
	PlanStatusArchived        CampaignPlanStatus = "archived"
)

// Targeting describes who a campaign should reach.
type Targeting struct {
	Demographics []string `json:"demographics"`
	Interests    []string `json:"interests"`
	Locations    []string `json:"locations"`
}

// Predictions holds illustrative performance estimates for a strategy.
// They are model output, not computed from historical data.
type Predictions struct {
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	Conversions int64   `json:"conversions"`
	CPA         float64 `json:"cpa"`
	ROAS        float64 `json:"roas"`
}

// CopySpecs bounds ad copy length per platform rules.
type CopySpecs struct {
	HeadlineMaxChars int `json:"headline_max_chars"`
	BodyMaxChars     int `json:"body_max_chars"`
}

// AssetSpecs bounds creative asset dimensions per platform rules.
type AssetSpecs struct {
	ImageRatio    string `json:"image_ratio"`
	MinResolution string `json:"min_resolution"`
}

// CreativeBriefSpec is the creative production guidance inside a strategy.
type CreativeBriefSpec struct {
	Count      int        `json:"count"`
	Formats    []string   `json:"formats"`
	Tone       string     `json:"tone"`
	Hooks      []string   `json:"hooks"`
	CopySpecs  CopySpecs  `json:"copy_specs"`
	AssetSpecs AssetSpecs `json:"asset_specs"`
}

// Strategy is the structured campaign strategy produced by the model.
// The JSON tags match the schema the model is instructed to emit.
type Strategy struct {
	Targeting     Targeting         `json:"targeting"`
	Placements    []string          `json:"placements"`
	BidStrategy   string            `json:"bid_strategy"`
	Predictions   Predictions       `json:"predictions"`
	CreativeBrief CreativeBriefSpec `json:"creative_brief"`
}

// CampaignPlan is a persisted strategy for one brand campaign.
type CampaignPlan struct {
	ID           string
	OrgID        string
	Goal         string
	Platform     CampaignPlatform
	Industry     string
	Budget       float64
	DurationDays int
	Targeting    Targeting
	Placements   []string
	BidStrategy  string
	Predictions  Predictions
	Status       CampaignPlanStatus
	UsedFallback bool
	CreatedAt    time.Time
}

// CreativeBrief is the persisted creative guidance attached to a plan.
type CreativeBrief struct {
	ID             string
	CampaignPlanID string
	OrgID          string
	Formats        []string
	Tone           string
	Specs          CreativeBriefSpec
	CreatedAt      time.Time
}

// ValidateCampaignPlan validates a CampaignPlan instance
func ValidateCampaignPlan(p *CampaignPlan) error {
	if p == nil {
		return fmt.Errorf("campaign plan cannot be nil")
	}

	if p.ID == "" {
		return fmt.Errorf("campaign plan ID is required")
	}

	if p.OrgID == "" {
		return fmt.Errorf("campaign plan OrgID is required")
	}

	if p.Goal == "" {
		return fmt.Errorf("campaign plan Goal is required")
	}

	if !IsValidPlatform(p.Platform) {
		return fmt.Errorf("campaign plan Platform is invalid: %s", p.Platform)
	}

	if p.Budget <= 0 {
		return fmt.Errorf("campaign plan Budget must be positive")
	}

	if p.DurationDays <= 0 {
		return fmt.Errorf("campaign plan DurationDays must be positive")
	}

	return nil
}
