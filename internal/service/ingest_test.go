package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightreach/campaignai/internal/domain"
)

func TestIngestService_IngestDocument(t *testing.T) {
	orgID := "org-1"

	t.Run("stores every chunk with sequential indexes", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, nil, 500, &MockUUIDGenerator{})

		var inserted []*domain.KnowledgeChunk
		store.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				inserted = append(inserted, args.Get(1).(*domain.KnowledgeChunk))
			}).
			Return("id", nil)

		para := strings.Repeat("a", 300)
		content := para + "\n\n" + para

		result, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:       &orgID,
			Source:      "pitch.txt",
			Content:     content,
			ContentType: "text/plain",
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.ChunksTotal)
		assert.Equal(t, 2, result.ChunksStored)
		assert.False(t, result.Degraded)

		require.Len(t, inserted, 2)
		assert.Equal(t, 0, inserted[0].ChunkIndex)
		assert.Equal(t, 1, inserted[1].ChunkIndex)
		assert.Equal(t, "pitch.txt", inserted[0].Source)
		assert.Equal(t, &orgID, inserted[0].OrgID)
		assert.Equal(t, "text/plain", inserted[0].Metadata["content_type"])
	})

	t.Run("failed insert skips chunk and continues", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, nil, 500, &MockUUIDGenerator{})

		store.On("Insert", mock.Anything, mock.MatchedBy(func(c *domain.KnowledgeChunk) bool {
			return c.ChunkIndex == 0
		})).Return("", errors.New("constraint violation"))
		store.On("Insert", mock.Anything, mock.MatchedBy(func(c *domain.KnowledgeChunk) bool {
			return c.ChunkIndex == 1
		})).Return("id", nil)

		para := strings.Repeat("a", 300)
		result, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:   &orgID,
			Source:  "pitch.txt",
			Content: para + "\n\n" + para,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.ChunksTotal)
		assert.Equal(t, 1, result.ChunksStored)
	})

	t.Run("degraded embedding flagged on result", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384, degraded: true}, nil, 500, &MockUUIDGenerator{})
		store.On("Insert", mock.Anything, mock.Anything).Return("id", nil)

		result, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:   &orgID,
			Source:  "pitch.txt",
			Content: "Some content.",
		})
		require.NoError(t, err)
		assert.True(t, result.Degraded)
	})

	t.Run("nil store rejects", func(t *testing.T) {
		svc := NewIngestService(nil, &stubEmbedder{dimensions: 384}, nil, 500)

		_, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:   &orgID,
			Source:  "pitch.txt",
			Content: "Some content.",
		})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestService(store, &stubEmbedder{dimensions: 384}, nil, 500)

		_, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:  &orgID,
			Source: "pitch.txt",
		})
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	})

	t.Run("archives raw document before chunking", func(t *testing.T) {
		store := new(MockChunkStore)
		archiver := new(MockArchiver)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, archiver, 500, &MockUUIDGenerator{})

		archiver.On("Store", mock.Anything, "orgs/org-1/pitch.txt", []byte("Some content."), "text/plain").Return(nil)
		store.On("Insert", mock.Anything, mock.Anything).Return("id", nil)

		_, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:       &orgID,
			Source:      "pitch.txt",
			Content:     "Some content.",
			ContentType: "text/plain",
		})
		require.NoError(t, err)
		archiver.AssertExpectations(t)
	})

	t.Run("archive failure does not block ingestion", func(t *testing.T) {
		store := new(MockChunkStore)
		archiver := new(MockArchiver)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, archiver, 500, &MockUUIDGenerator{})

		archiver.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket missing"))
		store.On("Insert", mock.Anything, mock.Anything).Return("id", nil)

		result, err := svc.IngestDocument(context.Background(), IngestInput{
			OrgID:   &orgID,
			Source:  "pitch.txt",
			Content: "Some content.",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.ChunksStored)
	})

	t.Run("platform document stored without org", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, nil, 500, &MockUUIDGenerator{})

		var inserted *domain.KnowledgeChunk
		store.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*domain.KnowledgeChunk)
			}).
			Return("id", nil)

		_, err := svc.IngestDocument(context.Background(), IngestInput{
			Source:  "linkedin.txt",
			Content: "Platform best practices.",
		})
		require.NoError(t, err)
		require.NotNil(t, inserted)
		assert.Nil(t, inserted.OrgID)
	})
}

func TestIngestService_StoreExamples(t *testing.T) {
	orgID := "org-1"

	t.Run("stores each example verbatim", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, nil, 500, &MockUUIDGenerator{})

		var inserted []*domain.KnowledgeChunk
		store.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				inserted = append(inserted, args.Get(1).(*domain.KnowledgeChunk))
			}).
			Return("id", nil)

		long := strings.Repeat("x", 900)
		result, err := svc.StoreExamples(context.Background(), &orgID, "seed", []string{"short", long})
		require.NoError(t, err)

		assert.Equal(t, 2, result.ChunksStored)
		require.Len(t, inserted, 2)
		// Examples are pre-chunked; even oversized ones are not re-split
		assert.Equal(t, long, inserted[1].Content)
	})

	t.Run("empty examples skipped", func(t *testing.T) {
		store := new(MockChunkStore)
		svc := NewIngestServiceWithUUIDGenerator(store, &stubEmbedder{dimensions: 384}, nil, 500, &MockUUIDGenerator{})
		store.On("Insert", mock.Anything, mock.Anything).Return("id", nil)

		result, err := svc.StoreExamples(context.Background(), &orgID, "seed", []string{"", "one"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.ChunksStored)
	})

	t.Run("nil store rejects", func(t *testing.T) {
		svc := NewIngestService(nil, &stubEmbedder{dimensions: 384}, nil, 500)
		_, err := svc.StoreExamples(context.Background(), &orgID, "seed", []string{"one"})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}
