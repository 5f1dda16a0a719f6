package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightreach/campaignai/internal/cli"
	"github.com/brightreach/campaignai/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "campaignctl",
		Short: "Campaign assistant CLI",
		Long: `campaignctl generates marketing campaign strategies grounded in your brand's knowledge.

Environment variables:
  CAMPAIGN_API_KEY   API key for authentication (required)
  CAMPAIGN_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.StrategyCmd())
	rootCmd.AddCommand(client.IngestCmd())
	rootCmd.AddCommand(client.RetrieveCmd())
	rootCmd.AddCommand(client.StatsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
