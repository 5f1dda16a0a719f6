package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/brightreach/campaignai/internal/api/handlers"
	"github.com/brightreach/campaignai/internal/api/middleware"
	"github.com/brightreach/campaignai/internal/config"
	"github.com/brightreach/campaignai/internal/database"
	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/embedding"
	"github.com/brightreach/campaignai/internal/llm"
	"github.com/brightreach/campaignai/internal/repository"
	"github.com/brightreach/campaignai/internal/server"
	"github.com/brightreach/campaignai/internal/service"
	"github.com/brightreach/campaignai/internal/storage"
	"github.com/brightreach/campaignai/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the campaign assistant API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		pool, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		log.Println("connected to database")

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
	} else {
		log.Println("no DATABASE_URL configured, running without the knowledge store")
	}

	var embedder *embedding.Embedder
	if cfg.HasOpenAI() {
		client := embedding.NewClientWithConfig(embedding.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      embedding.EmbeddingModelFromName(cfg.EmbeddingModel),
			Dimensions: cfg.EmbeddingDimensions,
		})
		embedder = embedding.NewEmbedder(client, cfg.EmbeddingDimensions)
	} else {
		log.Println("no OPENAI_API_KEY configured, embeddings run in degraded mode")
		embedder = embedding.NewDegradedEmbedder(cfg.EmbeddingDimensions)
	}

	var archive service.DocumentArchiver
	if cfg.HasS3() {
		a, err := storage.NewArchive(ctx, storage.ArchiveConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create document archive: %w", err)
		}
		if err := a.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure archive bucket: %w", err)
		}
		log.Printf("archive bucket '%s' ready", cfg.S3Bucket)
		archive = a
	}

	var generator *llm.Generator
	if cfg.HasOpenAI() {
		generator = llm.NewGenerator(llm.NewOpenAIAdapter(cfg.OpenAIAPIKey, cfg.StrategyModel))
	} else {
		generator = llm.NewGenerator(nil)
	}

	var chunkStore service.ChunkStore
	var campaignStore service.CampaignStore
	var authValidator middleware.AuthValidator
	var authSvc *service.AuthService

	uuidGen := &service.DefaultUUIDGenerator{}

	if pool != nil {
		chunkRepo := repository.NewKnowledgeChunkRepository(pool, cfg.EmbeddingDimensions)
		campaignRepo := repository.NewCampaignRepository(pool)
		orgRepo := repository.NewOrgRepository(pool)
		apiKeyRepo := repository.NewAPIKeyRepository(pool)

		chunkStore = chunkRepo
		campaignStore = campaignRepo
		authSvc = service.NewAuthService(orgRepo, apiKeyRepo, uuidGen)
		authValidator = authSvc

		if cfg.InitOrgName != "" {
			if err := bootstrapInitialOrg(ctx, cfg, authSvc); err != nil {
				return fmt.Errorf("failed to bootstrap initial org: %w", err)
			}
		}
	} else {
		if cfg.InitAPIKey == "" {
			return fmt.Errorf("either DATABASE_URL or INIT_API_KEY is required to serve")
		}
		if !service.IsValidAPIToken(cfg.InitAPIKey) {
			return fmt.Errorf("invalid INIT_API_KEY format (expected 'cpn_<64 hex chars>')")
		}
		log.Println("single-tenant mode: authenticating with the pinned INIT_API_KEY")
		authValidator = &pinnedKeyValidator{token: cfg.InitAPIKey}
	}

	ingestSvc := service.NewIngestService(chunkStore, embedder, archive, cfg.MaxChunkSize)
	retrievalSvc := service.NewRetrievalService(chunkStore, embedder, cfg.SimilarityThreshold)
	campaignSvc := service.NewCampaignService(campaignStore, retrievalSvc, generator)

	var authHandler *handlers.AuthHandler
	if authSvc != nil {
		authHandler = handlers.NewAuthHandler(authSvc)
	} else {
		authHandler = handlers.NewAuthHandler(&noOpAuthService{})
	}

	routerCfg := server.RouterConfig{
		AuthValidator:    authValidator,
		KnowledgeHandler: handlers.NewKnowledgeHandler(ingestSvc, retrievalSvc),
		CampaignHandler:  handlers.NewCampaignHandler(campaignSvc),
		AuthHandler:      authHandler,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// pinnedKeyValidator authenticates requests against a single configured
// token. Used when the server runs without a database.
type pinnedKeyValidator struct {
	token string
}

func (v *pinnedKeyValidator) ValidateAPIKey(ctx context.Context, token string) (string, error) {
	if token != v.token {
		return "", domain.ErrInvalidAPIKey
	}
	return "default", nil
}

type noOpAuthService struct{}

func (s *noOpAuthService) CreateOrg(ctx context.Context, name string) (*domain.Organization, error) {
	return nil, fmt.Errorf("org management not available: DATABASE_URL required")
}

func (s *noOpAuthService) CreateAPIKey(ctx context.Context, orgID, name string) (string, error) {
	return "", fmt.Errorf("API key management not available: DATABASE_URL required")
}

func bootstrapInitialOrg(ctx context.Context, cfg *config.Config, authSvc *service.AuthService) error {
	org, err := authSvc.GetOrgByName(ctx, cfg.InitOrgName)
	if err != nil && err != domain.ErrOrganizationNotFound {
		return fmt.Errorf("failed to check existing org: %w", err)
	}

	if org == nil {
		org, err = authSvc.CreateOrg(ctx, cfg.InitOrgName)
		if err != nil {
			return fmt.Errorf("failed to create org: %w", err)
		}
		log.Printf("bootstrap: created organization '%s' (id: %s)", org.Name, org.ID)
	} else {
		log.Printf("bootstrap: organization '%s' already exists (id: %s)", org.Name, org.ID)
	}

	if cfg.InitAPIKey != "" {
		if !service.IsValidAPIToken(cfg.InitAPIKey) {
			return fmt.Errorf("invalid INIT_API_KEY format (expected 'cpn_<64 hex chars>')")
		}

		existingKey, err := authSvc.GetAPIKeyByHash(ctx, cfg.InitAPIKey)
		if err == nil && existingKey != nil {
			log.Printf("bootstrap: API key already exists (id: %s)", existingKey.ID)
			return nil
		}

		if err := authSvc.CreateAPIKeyWithToken(ctx, org.ID, "bootstrap", cfg.InitAPIKey); err != nil {
			return fmt.Errorf("failed to create API key: %w", err)
		}
		log.Printf("bootstrap: created API key")
	}

	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, verErr := m.Version()
	if verErr != nil && verErr != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", verErr)
	}

	msg, err := migrationStatus(upErr, verErr, version, dirty)
	if err != nil {
		return err
	}
	log.Println(msg)

	return nil
}

// migrationStatus turns the outcome of an Up run plus the resulting schema
// version into a loggable status, or an error when the schema needs manual
// attention.
func migrationStatus(upErr, versionErr error, version uint, dirty bool) (string, error) {
	switch {
	case versionErr == migrate.ErrNilVersion:
		return "migrations: database is up to date (no migrations applied)", nil
	case dirty:
		return "", fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	case upErr == migrate.ErrNoChange:
		return fmt.Sprintf("migrations: database is up to date (version %d)", version), nil
	default:
		return fmt.Sprintf("migrations: applied successfully (version %d)", version), nil
	}
}
