package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/embedding"
	"github.com/brightreach/campaignai/internal/telemetry"
)

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// Embedder produces embedding vectors for text. Embed never fails; degraded
// placeholders are flagged on the returned vector.
type Embedder interface {
	Embed(ctx context.Context, text string) embedding.Vector
	Degraded() bool
}

// ChunkStore is the persistence dependency for knowledge chunks.
type ChunkStore interface {
	Insert(ctx context.Context, chunk *domain.KnowledgeChunk) (string, error)
	SimilaritySearch(ctx context.Context, queryEmbedding []float32, orgID *string, threshold float64, limit int) ([]*domain.SearchResult, error)
	Count(ctx context.Context, orgID *string) (int64, error)
}

// DocumentArchiver stores raw uploaded documents, before chunking.
type DocumentArchiver interface {
	Store(ctx context.Context, key string, body []byte, contentType string) error
}

// IngestInput describes one document to ingest. A nil OrgID stores the
// resulting chunks as platform-wide knowledge.
type IngestInput struct {
	OrgID       *string
	Source      string
	Content     string
	ContentType string
}

// IngestResult reports what happened to one document's chunks.
type IngestResult struct {
	ChunksTotal  int
	ChunksStored int
	Degraded     bool
}

// IngestService chunks documents, embeds each chunk, and stores the
// results. Chunks are processed sequentially; a failed insert skips that
// chunk and continues, so a document can land partially.
type IngestService struct {
	chunks       ChunkStore
	embedder     Embedder
	archiver     DocumentArchiver
	uuidGen      UUIDGenerator
	maxChunkSize int
}

func NewIngestService(chunks ChunkStore, embedder Embedder, archiver DocumentArchiver, maxChunkSize int) *IngestService {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &IngestService{
		chunks:       chunks,
		embedder:     embedder,
		archiver:     archiver,
		uuidGen:      &DefaultUUIDGenerator{},
		maxChunkSize: maxChunkSize,
	}
}

// NewIngestServiceWithUUIDGenerator creates an IngestService with a custom UUID generator
func NewIngestServiceWithUUIDGenerator(chunks ChunkStore, embedder Embedder, archiver DocumentArchiver, maxChunkSize int, uuidGen UUIDGenerator) *IngestService {
	svc := NewIngestService(chunks, embedder, archiver, maxChunkSize)
	svc.uuidGen = uuidGen
	return svc
}

// IngestDocument splits, embeds, and stores one document.
func (s *IngestService) IngestDocument(ctx context.Context, input IngestInput) (*IngestResult, error) {
	orgID := ""
	if input.OrgID != nil {
		orgID = *input.OrgID
	}
	ctx, span := telemetry.StartSpan(ctx, "IngestService.IngestDocument", telemetry.SpanAttributes{
		OrgID:     orgID,
		Operation: "ingest_document",
	})
	defer span.End()

	if s.chunks == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if input.Content == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document content is required")
	}
	if input.Source == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document source is required")
	}

	if s.archiver != nil {
		key := archiveKey(input.OrgID, input.Source)
		if err := s.archiver.Store(ctx, key, []byte(input.Content), input.ContentType); err != nil {
			// The archive is a convenience copy; chunk storage is the
			// system of record.
			log.Printf("ingest: failed to archive document %s: %v", key, err)
		}
	}

	pieces := SplitDocument(input.Content, s.maxChunkSize)
	result := &IngestResult{ChunksTotal: len(pieces)}

	for i, piece := range pieces {
		vec := s.embedder.Embed(ctx, piece)
		if vec.Degraded {
			result.Degraded = true
		}

		chunk := domain.NewKnowledgeChunk(
			s.uuidGen.NewString(),
			input.OrgID,
			piece,
			vec.Values,
			input.Source,
			i,
			map[string]any{
				"content_type": input.ContentType,
				"length":       len(piece),
			},
		)

		if _, err := s.chunks.Insert(ctx, chunk); err != nil {
			log.Printf("ingest: failed to store chunk %d of %s: %v", i, input.Source, err)
			continue
		}
		result.ChunksStored++
	}

	return result, nil
}

// StoreExamples stores pre-chunked example texts verbatim, one chunk each.
// Used for seeding curated brand or platform examples that should not be
// re-split.
func (s *IngestService) StoreExamples(ctx context.Context, orgID *string, source string, examples []string) (*IngestResult, error) {
	if s.chunks == nil {
		return nil, domain.ErrStoreUnavailable
	}

	result := &IngestResult{ChunksTotal: len(examples)}
	for i, text := range examples {
		if text == "" {
			continue
		}

		vec := s.embedder.Embed(ctx, text)
		if vec.Degraded {
			result.Degraded = true
		}

		chunk := domain.NewKnowledgeChunk(
			s.uuidGen.NewString(),
			orgID,
			text,
			vec.Values,
			source,
			i,
			map[string]any{"length": len(text)},
		)

		if _, err := s.chunks.Insert(ctx, chunk); err != nil {
			log.Printf("ingest: failed to store example %d of %s: %v", i, source, err)
			continue
		}
		result.ChunksStored++
	}

	return result, nil
}

func archiveKey(orgID *string, source string) string {
	if orgID == nil {
		return fmt.Sprintf("platform/%s", source)
	}
	return fmt.Sprintf("orgs/%s/%s", *orgID, source)
}
