package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// StatsResponse represents the knowledge stats API response.
type StatsResponse struct {
	Connected      bool  `json:"connected"`
	BrandChunks    int64 `json:"brand_chunks"`
	PlatformChunks int64 `json:"platform_chunks"`
	Degraded       bool  `json:"degraded"`
}

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge store stats",
		Long:  "Shows connectivity and chunk counts for your organization and the platform scope.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStats(outputJSON)
		},
	}

	return cmd
}

func runStats(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/knowledge/stats")
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	var out StatsResponse
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	status := "connected"
	if !out.Connected {
		status = "disconnected (retrieval serves default examples)"
	}
	fmt.Printf("Knowledge store: %s\n", status)
	fmt.Printf("Brand chunks: %d\n", out.BrandChunks)
	fmt.Printf("Platform chunks: %d\n", out.PlatformChunks)
	if out.Degraded {
		fmt.Println("Embeddings: degraded mode (no model configured)")
	}
	return nil
}
