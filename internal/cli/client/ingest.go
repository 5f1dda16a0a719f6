package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// IngestRequest represents the document ingestion API request.
type IngestRequest struct {
	Source      string `json:"source"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// IngestResponse represents the document ingestion API response.
type IngestResponse struct {
	ChunksTotal  int  `json:"chunks_total"`
	ChunksStored int  `json:"chunks_stored"`
	Degraded     bool `json:"degraded"`
}

// IngestCmd creates the ingest command.
func IngestCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a brand document",
		Long:  "Reads a text document, chunks and embeds it, and stores it in your organization's knowledge scope.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runIngest(args[0], source, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source label (defaults to the file name)")

	return cmd
}

func runIngest(path, source string, outputJSON bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if source == "" {
		source = filepath.Base(path)
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post("/documents", IngestRequest{
		Source:      source,
		Content:     string(content),
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	var out IngestResponse
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Ingested %s: %d/%d chunks stored\n", source, out.ChunksStored, out.ChunksTotal)
	if out.Degraded {
		fmt.Println("Note: embeddings ran in degraded mode; retrieval quality may be reduced.")
	}
	return nil
}
