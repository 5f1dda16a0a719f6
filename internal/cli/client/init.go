package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func InitCmd() *cobra.Command {
	var apiKey string
	var apiURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save API credentials",
		Long:  "Validates the API key against the server and stores it in the global config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(apiKey, apiURL)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "API base URL (default: http://localhost:8080)")

	return cmd
}

func runInit(apiKey, apiURL string) error {
	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
	}
	if apiKey == "" {
		fmt.Print("Enter API key: ")
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		apiKey = strings.TrimSpace(input)
		if apiKey == "" {
			return fmt.Errorf("API key is required")
		}
	}

	if !IsValidAPIKey(apiKey) {
		return fmt.Errorf("invalid API key format (expected 'cpn_<64 hex chars>')")
	}

	if apiURL == "" {
		apiURL = os.Getenv(envAPIURL)
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	api, err := NewAPIClientWithConfig(apiKey, apiURL)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if _, err := api.Get("/knowledge/stats"); err != nil {
		return fmt.Errorf("failed to validate API key: %w", err)
	}

	if err := SaveGlobalConfig(&GlobalConfig{APIKey: apiKey, APIURL: apiURL}); err != nil {
		return err
	}

	configPath, _ := GetConfigPath()
	fmt.Printf("Credentials saved to %s\n", configPath)
	return nil
}
