package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// CreateStrategyRequest represents the campaign creation API request.
type CreateStrategyRequest struct {
	Goal         string  `json:"goal"`
	Platform     string  `json:"platform"`
	Industry     string  `json:"industry,omitempty"`
	Budget       float64 `json:"budget,omitempty"`
	DurationDays int     `json:"duration_days,omitempty"`
}

// PlanView mirrors the API's campaign plan representation.
type PlanView struct {
	ID           string   `json:"id"`
	Goal         string   `json:"goal"`
	Platform     string   `json:"platform"`
	Industry     string   `json:"industry,omitempty"`
	Budget       float64  `json:"budget"`
	DurationDays int      `json:"duration_days"`
	Placements   []string `json:"placements"`
	BidStrategy  string   `json:"bid_strategy"`
	Status       string   `json:"status"`
	UsedFallback bool     `json:"used_fallback"`
	CreatedAt    string   `json:"created_at"`
	Predictions  struct {
		Impressions int64   `json:"impressions"`
		CTR         float64 `json:"ctr"`
		CPC         float64 `json:"cpc"`
		Conversions int64   `json:"conversions"`
		CPA         float64 `json:"cpa"`
		ROAS        float64 `json:"roas"`
	} `json:"predictions"`
}

// CreateStrategyResponse represents the campaign creation API response.
type CreateStrategyResponse struct {
	Plan          PlanView `json:"plan"`
	ContextSource string   `json:"context_source"`
	Degraded      bool     `json:"degraded"`
}

// ListPlansResponse represents the campaign list API response.
type ListPlansResponse struct {
	Items   []PlanView `json:"items"`
	Cursor  string     `json:"cursor,omitempty"`
	HasMore bool       `json:"has_more"`
}

// StrategyCmd creates the strategy command group.
func StrategyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Generate and inspect campaign strategies",
		Long:  "Create campaign strategies, fetch a single plan, or list plans for your organization.",
	}

	cmd.AddCommand(strategyCreateCmd())
	cmd.AddCommand(strategyGetCmd())
	cmd.AddCommand(strategyListCmd())

	return cmd
}

func strategyCreateCmd() *cobra.Command {
	var (
		platform     string
		industry     string
		budget       float64
		durationDays int
	)

	cmd := &cobra.Command{
		Use:   "create <goal>",
		Short: "Generate a campaign strategy",
		Long:  "Generates a full campaign strategy for the given goal, grounded in your brand's ingested knowledge.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStrategyCreate(args[0], platform, industry, budget, durationDays, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Ad platform: linkedin, meta, or tiktok (required)")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry vertical")
	cmd.Flags().Float64Var(&budget, "budget", 5000, "Campaign budget in USD")
	cmd.Flags().IntVar(&durationDays, "duration", 30, "Campaign duration in days")
	cmd.MarkFlagRequired("platform")

	return cmd
}

func runStrategyCreate(goal, platform, industry string, budget float64, durationDays int, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	req := CreateStrategyRequest{
		Goal:         goal,
		Platform:     platform,
		Industry:     industry,
		Budget:       budget,
		DurationDays: durationDays,
	}

	resp, err := api.Post("/campaigns", req)
	if err != nil {
		return fmt.Errorf("strategy generation failed: %w", err)
	}

	var out CreateStrategyResponse
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printPlan(out.Plan)
	fmt.Printf("\nContext source: %s\n", out.ContextSource)
	if out.Degraded {
		fmt.Println("Note: embeddings ran in degraded mode; retrieval quality may be reduced.")
	}
	if out.Plan.UsedFallback {
		fmt.Println("Note: the strategy model was unavailable; this plan uses platform defaults.")
	}
	return nil
}

func strategyGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a campaign plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStrategyGet(args[0], outputJSON)
		},
	}

	return cmd
}

func runStrategyGet(planID string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/campaigns/" + planID)
	if err != nil {
		return fmt.Errorf("failed to fetch plan: %w", err)
	}

	var plan PlanView
	if err := json.Unmarshal(resp.Data, &plan); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(plan, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printPlan(plan)
	return nil
}

func strategyListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaign plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStrategyList(limit, cursor, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runStrategyList(limit int, cursor string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/campaigns?limit=%d", limit)
	if cursor != "" {
		path += "&cursor=" + cursor
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	var out ListPlansResponse
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(out.Items) == 0 {
		fmt.Println("No campaign plans found.")
		return nil
	}

	fmt.Printf("Found %d plans:\n\n", len(out.Items))
	for i, plan := range out.Items {
		fmt.Printf("%d. %s [%s] %s\n", i+1, plan.ID, plan.Platform, plan.Goal)
		fmt.Printf("   Budget: $%.2f over %d days, status: %s\n", plan.Budget, plan.DurationDays, plan.Status)
		if i < len(out.Items)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}
	if out.HasMore && out.Cursor != "" {
		fmt.Printf("\nMore results available. Use --cursor %s\n", out.Cursor)
	}
	return nil
}

func printPlan(plan PlanView) {
	fmt.Printf("Plan %s (%s)\n", plan.ID, plan.Status)
	fmt.Printf("Goal: %s\n", plan.Goal)
	fmt.Printf("Platform: %s", plan.Platform)
	if plan.Industry != "" {
		fmt.Printf(" | Industry: %s", plan.Industry)
	}
	fmt.Println()
	fmt.Printf("Budget: $%.2f over %d days\n", plan.Budget, plan.DurationDays)
	fmt.Printf("Bid strategy: %s\n", plan.BidStrategy)
	if len(plan.Placements) > 0 {
		fmt.Printf("Placements: %s\n", strings.Join(plan.Placements, ", "))
	}
	fmt.Printf("Predictions: %d impressions, %.2f%% CTR, $%.2f CPC, %d conversions, $%.2f CPA, %.1fx ROAS\n",
		plan.Predictions.Impressions, plan.Predictions.CTR, plan.Predictions.CPC,
		plan.Predictions.Conversions, plan.Predictions.CPA, plan.Predictions.ROAS)
}
