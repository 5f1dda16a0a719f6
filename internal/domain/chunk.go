package domain

import (
	"fmt"
	"time"
)

// KnowledgeChunk is the unit of stored brand or platform knowledge.
// A nil OrgID marks the chunk as platform-wide; a non-nil value scopes it
// to one brand. Chunks are immutable once stored.
type KnowledgeChunk struct {
	ID         string
	OrgID      *string
	Content    string
	Embedding  []float32
	Source     string
	ChunkIndex int
	Metadata   map[string]any
	CreatedAt  time.Time
}

// NewKnowledgeChunk creates a new KnowledgeChunk instance
func NewKnowledgeChunk(id string, orgID *string, content string, embedding []float32, source string, chunkIndex int, metadata map[string]any) *KnowledgeChunk {
	return &KnowledgeChunk{
		ID:         id,
		OrgID:      orgID,
		Content:    content,
		Embedding:  embedding,
		Source:     source,
		ChunkIndex: chunkIndex,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
}

// ValidateKnowledgeChunk validates a KnowledgeChunk instance
func ValidateKnowledgeChunk(c *KnowledgeChunk) error {
	if c == nil {
		return fmt.Errorf("knowledge chunk cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("knowledge chunk ID is required")
	}

	if c.Content == "" {
		return fmt.Errorf("knowledge chunk Content is required")
	}

	if len(c.Embedding) == 0 {
		return fmt.Errorf("knowledge chunk Embedding is required")
	}

	if c.ChunkIndex < 0 {
		return fmt.Errorf("knowledge chunk ChunkIndex cannot be negative")
	}

	return nil
}

// SearchResult is one row of a similarity query against stored chunks,
// ranked by descending similarity. Transient, never persisted.
type SearchResult struct {
	Content    string
	Similarity float64
	OrgID      *string
}
