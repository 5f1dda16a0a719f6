package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/pagination"
)

type CampaignPlanPageResult struct {
	Items      []*domain.CampaignPlan
	NextCursor string
	HasMore    bool
}

// CampaignRepository persists campaign plans and their creative briefs.
// Structured strategy fields are stored as jsonb.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) CreatePlan(ctx context.Context, plan *domain.CampaignPlan) error {
	if err := domain.ValidateCampaignPlan(plan); err != nil {
		return err
	}

	targeting, err := json.Marshal(plan.Targeting)
	if err != nil {
		return fmt.Errorf("failed to marshal targeting: %w", err)
	}
	predictions, err := json.Marshal(plan.Predictions)
	if err != nil {
		return fmt.Errorf("failed to marshal predictions: %w", err)
	}

	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO campaign_plans
			(id, org_id, goal, platform, industry, budget, duration_days,
			 targeting, placements, bid_strategy, predictions, status, used_fallback, created_at)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		plan.ID,
		plan.OrgID,
		plan.Goal,
		string(plan.Platform),
		plan.Industry,
		plan.Budget,
		plan.DurationDays,
		targeting,
		plan.Placements,
		plan.BidStrategy,
		predictions,
		string(plan.Status),
		plan.UsedFallback,
		createdAt,
	)
	return err
}

func (r *CampaignRepository) CreateBrief(ctx context.Context, brief *domain.CreativeBrief) error {
	specs, err := json.Marshal(brief.Specs)
	if err != nil {
		return fmt.Errorf("failed to marshal brief specs: %w", err)
	}

	createdAt := brief.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO creative_briefs (id, campaign_plan_id, org_id, formats, tone, specs, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		brief.ID,
		brief.CampaignPlanID,
		brief.OrgID,
		brief.Formats,
		brief.Tone,
		specs,
		createdAt,
	)
	return err
}

// GetPlan fetches one plan scoped to an organization. A plan belonging to
// another organization reads as not found, never as forbidden.
func (r *CampaignRepository) GetPlan(ctx context.Context, id, orgID string) (*domain.CampaignPlan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, org_id, goal, platform, industry, budget, duration_days,
		        targeting, placements, bid_strategy, predictions, status, used_fallback, created_at
		 FROM campaign_plans WHERE id = $1 AND org_id = $2`,
		id, orgID,
	)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCampaignPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// GetBriefByPlan fetches the creative brief attached to a plan.
func (r *CampaignRepository) GetBriefByPlan(ctx context.Context, planID, orgID string) (*domain.CreativeBrief, error) {
	var brief domain.CreativeBrief
	var specs []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, campaign_plan_id, org_id, formats, tone, specs, created_at
		 FROM creative_briefs WHERE campaign_plan_id = $1 AND org_id = $2`,
		planID, orgID,
	).Scan(&brief.ID, &brief.CampaignPlanID, &brief.OrgID, &brief.Formats, &brief.Tone, &specs, &brief.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCampaignPlanNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(specs, &brief.Specs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brief specs: %w", err)
	}
	return &brief, nil
}

func (r *CampaignRepository) ListByOrgWithCursor(ctx context.Context, orgID string, cursor *pagination.Cursor, limit int) (*CampaignPlanPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, org_id, goal, platform, industry, budget, duration_days,
			        targeting, placements, bid_strategy, predictions, status, used_fallback, created_at
			 FROM campaign_plans
			 WHERE org_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			orgID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, org_id, goal, platform, industry, budget, duration_days,
			        targeting, placements, bid_strategy, predictions, status, used_fallback, created_at
			 FROM campaign_plans
			 WHERE org_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			orgID, limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.CampaignPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(plans) > limit
	if hasMore {
		plans = plans[:limit]
	}

	var nextCursor string
	if hasMore && len(plans) > 0 {
		lastPlan := plans[len(plans)-1]
		nextCursor = pagination.EncodeCursor(lastPlan.ID, lastPlan.CreatedAt)
	}

	return &CampaignPlanPageResult{
		Items:      plans,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func scanPlan(row pgx.Row) (*domain.CampaignPlan, error) {
	var plan domain.CampaignPlan
	var platform, status string
	var targeting, predictions []byte

	err := row.Scan(
		&plan.ID, &plan.OrgID, &plan.Goal, &platform, &plan.Industry,
		&plan.Budget, &plan.DurationDays, &targeting, &plan.Placements,
		&plan.BidStrategy, &predictions, &status, &plan.UsedFallback, &plan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.Platform = domain.CampaignPlatform(platform)
	plan.Status = domain.CampaignPlanStatus(status)

	if err := json.Unmarshal(targeting, &plan.Targeting); err != nil {
		return nil, fmt.Errorf("failed to unmarshal targeting: %w", err)
	}
	if err := json.Unmarshal(predictions, &plan.Predictions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal predictions: %w", err)
	}

	return &plan, nil
}
