package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightreach/campaignai/internal/api"
	"github.com/brightreach/campaignai/internal/api/middleware"
	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/service"
)

type CampaignService interface {
	CreateStrategy(ctx context.Context, input service.CreateStrategyInput) (*service.StrategyOutput, error)
	GetPlan(ctx context.Context, id, orgID string) (*service.StrategyOutput, error)
	ListPlans(ctx context.Context, orgID, cursor string, limit int) (*service.CampaignPlanPage, error)
}

type CampaignHandler struct {
	svc CampaignService
}

func NewCampaignHandler(svc CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

type CreateCampaignRequest struct {
	Goal         string  `json:"goal"`
	Platform     string  `json:"platform"`
	Industry     string  `json:"industry"`
	Budget       float64 `json:"budget"`
	DurationDays int     `json:"duration_days"`
}

type CampaignPlanResponse struct {
	ID           string                    `json:"id"`
	Goal         string                    `json:"goal"`
	Platform     string                    `json:"platform"`
	Industry     string                    `json:"industry,omitempty"`
	Budget       float64                   `json:"budget"`
	DurationDays int                       `json:"duration_days"`
	Targeting    domain.Targeting          `json:"targeting"`
	Placements   []string                  `json:"placements"`
	BidStrategy  string                    `json:"bid_strategy"`
	Predictions  domain.Predictions        `json:"predictions"`
	Status       string                    `json:"status"`
	UsedFallback bool                      `json:"used_fallback"`
	CreatedAt    string                    `json:"created_at"`
	Brief        *domain.CreativeBriefSpec `json:"creative_brief,omitempty"`
}

type CreateCampaignResponse struct {
	Plan          CampaignPlanResponse `json:"plan"`
	ContextSource string               `json:"context_source"`
	Degraded      bool                 `json:"degraded"`
}

type ListCampaignsResponse struct {
	Items   []CampaignPlanResponse `json:"items"`
	Cursor  string                 `json:"cursor,omitempty"`
	HasMore bool                   `json:"has_more"`
}

func planToResponse(plan *domain.CampaignPlan, brief *domain.CreativeBrief) CampaignPlanResponse {
	resp := CampaignPlanResponse{
		ID:           plan.ID,
		Goal:         plan.Goal,
		Platform:     string(plan.Platform),
		Industry:     plan.Industry,
		Budget:       plan.Budget,
		DurationDays: plan.DurationDays,
		Targeting:    plan.Targeting,
		Placements:   plan.Placements,
		BidStrategy:  plan.BidStrategy,
		Predictions:  plan.Predictions,
		Status:       string(plan.Status),
		UsedFallback: plan.UsedFallback,
		CreatedAt:    plan.CreatedAt.UTC().Format(time.RFC3339),
	}
	if brief != nil {
		specs := brief.Specs
		resp.Brief = &specs
	}
	return resp
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Goal == "" {
		api.Error(w, http.StatusBadRequest, "goal is required")
		return
	}
	if req.Platform == "" {
		api.Error(w, http.StatusBadRequest, "platform is required")
		return
	}

	out, err := h.svc.CreateStrategy(r.Context(), service.CreateStrategyInput{
		OrgID:        orgID,
		Goal:         req.Goal,
		Platform:     req.Platform,
		Industry:     req.Industry,
		Budget:       req.Budget,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, CreateCampaignResponse{
		Plan:          planToResponse(out.Plan, out.Brief),
		ContextSource: out.Context.Source,
		Degraded:      out.Context.Degraded,
	})
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID := chi.URLParam(r, "id")

	out, err := h.svc.GetPlan(r.Context(), planID, orgID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, planToResponse(out.Plan, out.Brief))
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.svc.ListPlans(r.Context(), orgID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]CampaignPlanResponse, 0, len(page.Items))
	for _, plan := range page.Items {
		items = append(items, planToResponse(plan, nil))
	}

	api.Success(w, http.StatusOK, ListCampaignsResponse{
		Items:   items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	})
}
