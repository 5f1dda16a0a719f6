package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// RetrieveRequest represents the retrieval API request.
type RetrieveRequest struct {
	Query           string `json:"query"`
	TopK            int    `json:"top_k,omitempty"`
	IncludePlatform *bool  `json:"include_platform,omitempty"`
}

// RetrieveResponse represents the retrieval API response.
type RetrieveResponse struct {
	Snippets     []string `json:"snippets"`
	Source       string   `json:"source"`
	Degraded     bool     `json:"degraded"`
	BrandHits    int      `json:"brand_hits"`
	PlatformHits int      `json:"platform_hits"`
}

// RetrieveCmd creates the retrieve command.
func RetrieveCmd() *cobra.Command {
	var topK int
	var brandOnly bool

	cmd := &cobra.Command{
		Use:   "retrieve <query>",
		Short: "Retrieve brand context",
		Long:  "Runs semantic retrieval over your organization's knowledge, topping up from platform knowledge when needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runRetrieve(args[0], topK, brandOnly, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 3, "Maximum number of snippets")
	cmd.Flags().BoolVar(&brandOnly, "brand-only", false, "Search only your organization's knowledge, never the shared platform scope")

	return cmd
}

func runRetrieve(query string, topK int, brandOnly, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	reqBody := RetrieveRequest{Query: query, TopK: topK}
	if brandOnly {
		includePlatform := false
		reqBody.IncludePlatform = &includePlatform
	}

	resp, err := api.Post("/retrieve", reqBody)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	var out RetrieveResponse
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(out.Snippets) == 0 {
		fmt.Println("No snippets found.")
		return nil
	}

	fmt.Printf("Retrieved %d snippets (source: %s, brand: %d, platform: %d):\n\n",
		len(out.Snippets), out.Source, out.BrandHits, out.PlatformHits)
	for i, snippet := range out.Snippets {
		fmt.Printf("%d. %s\n", i+1, snippet)
		if i < len(out.Snippets)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}
	if out.Degraded {
		fmt.Println("\nNote: embeddings ran in degraded mode; retrieval quality may be reduced.")
	}
	return nil
}
