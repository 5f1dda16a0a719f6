package service

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/embedding"
)

// MockChunkStore is a mock implementation of ChunkStore
type MockChunkStore struct {
	mock.Mock
}

func (m *MockChunkStore) Insert(ctx context.Context, chunk *domain.KnowledgeChunk) (string, error) {
	args := m.Called(ctx, chunk)
	return args.String(0), args.Error(1)
}

func (m *MockChunkStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, orgID *string, threshold float64, limit int) ([]*domain.SearchResult, error) {
	args := m.Called(ctx, queryEmbedding, orgID, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchResult), args.Error(1)
}

func (m *MockChunkStore) Count(ctx context.Context, orgID *string) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

// MockArchiver is a mock implementation of DocumentArchiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Store(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

// stubEmbedder returns a fixed-width constant vector, optionally flagged
// degraded, without any remote call.
type stubEmbedder struct {
	dimensions int
	degraded   bool
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) embedding.Vector {
	return embedding.Vector{
		Values:   make([]float32, s.dimensions),
		Degraded: s.degraded,
	}
}

func (s *stubEmbedder) Degraded() bool {
	return s.degraded
}

// MockUUIDGenerator returns sequential predictable IDs
type MockUUIDGenerator struct {
	next int
}

func (m *MockUUIDGenerator) NewString() string {
	m.next++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", m.next)
}
