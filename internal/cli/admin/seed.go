package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/brightreach/campaignai/internal/config"
	"github.com/brightreach/campaignai/internal/embedding"
	"github.com/brightreach/campaignai/internal/llm"
	"github.com/brightreach/campaignai/internal/repository"
	"github.com/brightreach/campaignai/internal/service"
)

// SeedCmd returns the seed command. Seeding writes platform-wide knowledge
// (nil org scope) so every organization's retrieval can top up from it.
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed platform-wide knowledge",
		Long:  "Embed and store built-in platform best practices and default brand examples, plus any documents in --dir, into the shared knowledge scope",
		RunE:  runSeed,
	}

	cmd.Flags().String("dir", "", "Directory of text documents to ingest as platform knowledge")
	cmd.Flags().Bool("skip-builtin", false, "Skip the built-in best practices and default examples")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	var embedder *embedding.Embedder
	if cfg.HasOpenAI() {
		client := embedding.NewClientWithConfig(embedding.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      embedding.EmbeddingModelFromName(cfg.EmbeddingModel),
			Dimensions: cfg.EmbeddingDimensions,
		})
		embedder = embedding.NewEmbedder(client, cfg.EmbeddingDimensions)
	} else {
		fmt.Println("warning: no OPENAI_API_KEY, seeding with degraded placeholder embeddings")
		embedder = embedding.NewDegradedEmbedder(cfg.EmbeddingDimensions)
	}

	chunkRepo := repository.NewKnowledgeChunkRepository(pool, cfg.EmbeddingDimensions)
	ingestSvc := service.NewIngestService(chunkRepo, embedder, nil, cfg.MaxChunkSize)

	skipBuiltin, _ := cmd.Flags().GetBool("skip-builtin")
	if !skipBuiltin {
		knowledge := llm.AllPlatformKnowledge()
		platforms := make([]string, 0, len(knowledge))
		for p := range knowledge {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)

		for _, platform := range platforms {
			result, err := ingestSvc.StoreExamples(ctx, nil, "builtin/"+platform, []string{knowledge[platform]})
			if err != nil {
				return fmt.Errorf("failed to seed %s best practices: %w", platform, err)
			}
			fmt.Printf("seeded %s best practices (%d stored)\n", platform, result.ChunksStored)
		}

		result, err := ingestSvc.StoreExamples(ctx, nil, "builtin/default-examples", service.DefaultExamples())
		if err != nil {
			return fmt.Errorf("failed to seed default examples: %w", err)
		}
		fmt.Printf("seeded default brand examples (%d stored)\n", result.ChunksStored)
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read seed directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			result, err := ingestSvc.IngestDocument(ctx, service.IngestInput{
				OrgID:       nil,
				Source:      entry.Name(),
				Content:     string(content),
				ContentType: "text/plain",
			})
			if err != nil {
				return fmt.Errorf("failed to ingest %s: %w", path, err)
			}
			fmt.Printf("ingested %s (%d/%d chunks stored)\n", entry.Name(), result.ChunksStored, result.ChunksTotal)
		}
	}

	return nil
}
