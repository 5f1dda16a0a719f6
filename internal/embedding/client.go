package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the OpenAI model used for generating embeddings
	DefaultModel = openai.SmallEmbedding3
	// DefaultDimensions is the embedding width the knowledge store is
	// provisioned for. Changing it requires a full re-index.
	DefaultDimensions = 384
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoAPIKey is returned when the OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// EmbeddingAPI defines the interface for the remote embedding call
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// Client wraps the OpenAI embeddings API and enforces the configured
// vector dimension on every response.
type Client struct {
	api        EmbeddingAPI
	dimensions int
}

type OpenAIAdapter struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

func NewOpenAIAdapter(apiKey string, model openai.EmbeddingModel, dimensions int) *OpenAIAdapter {
	if model == "" {
		model = DefaultModel
	}
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &OpenAIAdapter{
		client:     openai.NewClient(apiKey),
		model:      model,
		dimensions: dimensions,
	}
}

// CreateEmbeddings calls the OpenAI API to create an embedding, requesting
// the configured output width explicitly.
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      a.model,
		Dimensions: a.dimensions,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

type Config struct {
	APIKey     string
	Model      openai.EmbeddingModel
	Dimensions int
}

// EmbeddingModelFromName maps a configured model name to the client type,
// falling back to the default when unset.
func EmbeddingModelFromName(name string) openai.EmbeddingModel {
	if name == "" {
		return DefaultModel
	}
	return openai.EmbeddingModel(name)
}

// NewClient creates a new embedding client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new embedding client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, cfg.Model, dimensions),
		dimensions: dimensions,
	}
}

// NewClientFromEnv creates a new embedding client using the OPENAI_API_KEY
// environment variable.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// Dimensions returns the configured embedding width.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	vector, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(vector) != c.dimensions {
		return nil, fmt.Errorf("embedding has wrong dimensions: got %d, expected %d", len(vector), c.dimensions)
	}

	return vector, nil
}
