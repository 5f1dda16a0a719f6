package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightreach/campaignai/internal/cli"
	"github.com/brightreach/campaignai/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "campaignd",
		Short: "Campaign assistant daemon and admin CLI",
		Long:  "Campaign assistant daemon for running the API server, seeding platform knowledge, and managing organizations and API keys",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.SeedCmd())
	rootCmd.AddCommand(admin.OrgCmd())
	rootCmd.AddCommand(admin.APIKeyCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
