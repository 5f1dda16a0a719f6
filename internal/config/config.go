package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Optional: when unset the server starts with the knowledge store
	// disconnected and retrieval serves fallback examples only.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Embedding dimensions must not change without re-indexing every
	// stored vector; the knowledge_docs column is typed to this width.
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"384"`

	StrategyModel       string  `envconfig:"STRATEGY_MODEL" default:"gpt-4o-mini"`
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.5"`
	MaxChunkSize        int     `envconfig:"MAX_CHUNK_SIZE" default:"500"`

	// Optional raw-document archive (S3-compatible)
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"campaign-docs"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// Bootstrap: create initial organization and API key on startup
	InitOrgName string `envconfig:"INIT_ORG_NAME"`
	InitAPIKey  string `envconfig:"INIT_API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CAMPAIGN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
