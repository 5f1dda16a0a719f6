package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/llm"
	"github.com/brightreach/campaignai/internal/pagination"
	"github.com/brightreach/campaignai/internal/repository"
	"github.com/brightreach/campaignai/internal/telemetry"
)

// Campaign parameter bounds.
const (
	MinBudget       = 500
	MaxBudget       = 100000
	MinDurationDays = 3
	MaxDurationDays = 90
)

// ContextRetriever supplies brand context snippets for strategy prompts.
type ContextRetriever interface {
	Retrieve(ctx context.Context, input RetrieveInput) *RetrieveResult
}

// StrategyGenerator produces a structured strategy from campaign inputs.
type StrategyGenerator interface {
	Generate(ctx context.Context, input llm.PromptInput) (*domain.Strategy, error)
}

// CampaignStore persists plans and briefs.
type CampaignStore interface {
	CreatePlan(ctx context.Context, plan *domain.CampaignPlan) error
	CreateBrief(ctx context.Context, brief *domain.CreativeBrief) error
	GetPlan(ctx context.Context, id, orgID string) (*domain.CampaignPlan, error)
	GetBriefByPlan(ctx context.Context, planID, orgID string) (*domain.CreativeBrief, error)
	ListByOrgWithCursor(ctx context.Context, orgID string, cursor *pagination.Cursor, limit int) (*repository.CampaignPlanPageResult, error)
}

// CreateStrategyInput carries the campaign parameters for plan creation.
type CreateStrategyInput struct {
	OrgID        string
	Goal         string
	Platform     string
	Industry     string
	Budget       float64
	DurationDays int
}

// StrategyOutput is a created plan plus its brief and the retrieval
// provenance that fed the prompt.
type StrategyOutput struct {
	Plan    *domain.CampaignPlan
	Brief   *domain.CreativeBrief
	Context *RetrieveResult
}

// CampaignPlanPage is one page of a plan listing.
type CampaignPlanPage struct {
	Items      []*domain.CampaignPlan
	NextCursor string
	HasMore    bool
}

// CampaignService creates and reads campaign plans. Strategy creation
// retrieves brand context, prompts the model, and falls back to a
// deterministic strategy when the model is unavailable or malformed.
// Plan creation succeeds either way; UsedFallback records which path ran.
type CampaignService struct {
	campaigns CampaignStore
	retriever ContextRetriever
	generator StrategyGenerator
	uuidGen   UUIDGenerator
}

func NewCampaignService(campaigns CampaignStore, retriever ContextRetriever, generator StrategyGenerator) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		retriever: retriever,
		generator: generator,
		uuidGen:   &DefaultUUIDGenerator{},
	}
}

// NewCampaignServiceWithUUIDGenerator creates a CampaignService with a custom UUID generator
func NewCampaignServiceWithUUIDGenerator(campaigns CampaignStore, retriever ContextRetriever, generator StrategyGenerator, uuidGen UUIDGenerator) *CampaignService {
	svc := NewCampaignService(campaigns, retriever, generator)
	svc.uuidGen = uuidGen
	return svc
}

// CreateStrategy builds and persists a campaign plan with its creative brief.
func (s *CampaignService) CreateStrategy(ctx context.Context, input CreateStrategyInput) (*StrategyOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "CampaignService.CreateStrategy", telemetry.SpanAttributes{
		OrgID:     input.OrgID,
		Operation: "create_strategy",
	})
	defer span.End()

	if err := validateStrategyInput(input); err != nil {
		return nil, err
	}

	retrieved := s.retriever.Retrieve(ctx, RetrieveInput{
		OrgID:           input.OrgID,
		Query:           contextQuery(input),
		TopK:            DefaultTopK,
		IncludePlatform: true,
	})

	promptInput := llm.PromptInput{
		Goal:         input.Goal,
		Platform:     input.Platform,
		Industry:     input.Industry,
		Budget:       input.Budget,
		DurationDays: input.DurationDays,
		BrandContext: retrieved.Snippets,
	}

	usedFallback := false
	strategy, err := s.generator.Generate(ctx, promptInput)
	if err != nil {
		log.Printf("campaign: strategy generation failed, using fallback: %v", err)
		telemetry.CaptureError(ctx, err)
		strategy = llm.FallbackStrategy(promptInput)
		usedFallback = true
	}

	now := time.Now().UTC()

	plan := &domain.CampaignPlan{
		ID:           s.uuidGen.NewString(),
		OrgID:        input.OrgID,
		Goal:         input.Goal,
		Platform:     domain.CampaignPlatform(input.Platform),
		Industry:     input.Industry,
		Budget:       input.Budget,
		DurationDays: input.DurationDays,
		Targeting:    strategy.Targeting,
		Placements:   strategy.Placements,
		BidStrategy:  strategy.BidStrategy,
		Predictions:  strategy.Predictions,
		Status:       domain.PlanStatusStrategyPending,
		UsedFallback: usedFallback,
		CreatedAt:    now,
	}

	brief := &domain.CreativeBrief{
		ID:             s.uuidGen.NewString(),
		CampaignPlanID: plan.ID,
		OrgID:          input.OrgID,
		Formats:        strategy.CreativeBrief.Formats,
		Tone:           strategy.CreativeBrief.Tone,
		Specs:          strategy.CreativeBrief,
		CreatedAt:      now,
	}

	if s.campaigns != nil {
		if err := s.campaigns.CreatePlan(ctx, plan); err != nil {
			return nil, err
		}
		if err := s.campaigns.CreateBrief(ctx, brief); err != nil {
			return nil, err
		}
	} else {
		log.Printf("campaign: store not configured, plan %s not persisted", plan.ID)
	}

	return &StrategyOutput{
		Plan:    plan,
		Brief:   brief,
		Context: retrieved,
	}, nil
}

// GetPlan returns one plan with its brief, scoped to the organization.
func (s *CampaignService) GetPlan(ctx context.Context, id, orgID string) (*StrategyOutput, error) {
	if s.campaigns == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if id == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "campaign plan ID is required")
	}

	plan, err := s.campaigns.GetPlan(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	brief, err := s.campaigns.GetBriefByPlan(ctx, id, orgID)
	if err != nil {
		if err == domain.ErrCampaignPlanNotFound {
			// Plans created before brief storage existed have no brief row
			return &StrategyOutput{Plan: plan}, nil
		}
		return nil, err
	}

	return &StrategyOutput{Plan: plan, Brief: brief}, nil
}

// ListPlans returns a page of plans for the organization, newest first.
func (s *CampaignService) ListPlans(ctx context.Context, orgID, cursorStr string, limit int) (*CampaignPlanPage, error) {
	if s.campaigns == nil {
		return nil, domain.ErrStoreUnavailable
	}

	cursor, err := pagination.DecodeCursor(cursorStr)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "invalid cursor")
	}

	page, err := s.campaigns.ListByOrgWithCursor(ctx, orgID, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &CampaignPlanPage{
		Items:      page.Items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

func validateStrategyInput(input CreateStrategyInput) error {
	if input.OrgID == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "organization ID is required")
	}
	if input.Goal == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "campaign goal is required")
	}
	if !domain.IsValidPlatform(domain.CampaignPlatform(input.Platform)) {
		return domain.ErrInvalidPlatform
	}
	if input.Budget < MinBudget || input.Budget > MaxBudget {
		return domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("budget must be between %d and %d", MinBudget, MaxBudget))
	}
	if input.DurationDays < MinDurationDays || input.DurationDays > MaxDurationDays {
		return domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("duration must be between %d and %d days", MinDurationDays, MaxDurationDays))
	}
	return nil
}

func contextQuery(input CreateStrategyInput) string {
	if input.Industry != "" {
		return fmt.Sprintf("%s %s marketing", input.Goal, input.Industry)
	}
	return fmt.Sprintf("%s marketing", input.Goal)
}
