//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/testutil"
)

const testDimensions = 384

// unitVector returns a 384-dim vector with 1.0 at the given position.
// Distinct positions are orthogonal, so cosine similarity between them is 0
// and self-similarity is 1. Makes threshold behavior exact in tests.
func unitVector(position int) []float32 {
	v := make([]float32, testDimensions)
	v[position] = 1.0
	return v
}

func seedOrg(ctx context.Context, t *testing.T, repo *OrgRepository, name string) string {
	t.Helper()
	org := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, org))
	return org.ID
}

func insertChunk(ctx context.Context, t *testing.T, repo *KnowledgeChunkRepository, orgID *string, content string, embedding []float32) {
	t.Helper()
	chunk := domain.NewKnowledgeChunk(uuid.NewString(), orgID, content, embedding, "test.txt", 0, nil)
	_, err := repo.Insert(ctx, chunk)
	require.NoError(t, err)
}

func TestKnowledgeChunkRepository_Insert(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	orgRepo := NewOrgRepository(pool)
	repo := NewKnowledgeChunkRepository(pool, testDimensions)

	orgID := seedOrg(ctx, t, orgRepo, "Acme")

	chunk := domain.NewKnowledgeChunk(
		uuid.NewString(), &orgID, "Our product ships in minutes.",
		unitVector(0), "pitch.txt", 2,
		map[string]any{"content_type": "text/plain"},
	)

	id, err := repo.Insert(ctx, chunk)
	require.NoError(t, err)
	assert.Equal(t, chunk.ID, id)

	count, err := repo.Count(ctx, &orgID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestKnowledgeChunkRepository_Insert_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeChunkRepository(pool, testDimensions)

	chunk := domain.NewKnowledgeChunk(
		uuid.NewString(), nil, "wrong width",
		make([]float32, 100), "bad.txt", 0, nil,
	)

	_, err := repo.Insert(ctx, chunk)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestKnowledgeChunkRepository_SimilaritySearch(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	orgRepo := NewOrgRepository(pool)
	repo := NewKnowledgeChunkRepository(pool, testDimensions)

	orgID := seedOrg(ctx, t, orgRepo, "Acme")

	insertChunk(ctx, t, repo, &orgID, "brand match", unitVector(0))
	insertChunk(ctx, t, repo, &orgID, "brand miss", unitVector(1))
	insertChunk(ctx, t, repo, nil, "platform match", unitVector(0))

	t.Run("exact match ranks first", func(t *testing.T) {
		results, err := repo.SimilaritySearch(ctx, unitVector(0), &orgID, 0.5, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "brand match", results[0].Content)
		assert.InDelta(t, 1.0, results[0].Similarity, 0.001)
	})

	t.Run("threshold filters orthogonal vectors", func(t *testing.T) {
		results, err := repo.SimilaritySearch(ctx, unitVector(2), &orgID, 0.5, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("brand scope excludes platform chunks", func(t *testing.T) {
		results, err := repo.SimilaritySearch(ctx, unitVector(0), &orgID, 0.5, 10)
		require.NoError(t, err)
		for _, r := range results {
			require.NotNil(t, r.OrgID)
			assert.Equal(t, orgID, *r.OrgID)
		}
	})

	t.Run("platform scope excludes brand chunks", func(t *testing.T) {
		results, err := repo.SimilaritySearch(ctx, unitVector(0), nil, 0.5, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "platform match", results[0].Content)
		assert.Nil(t, results[0].OrgID)
	})

	t.Run("limit applies after threshold", func(t *testing.T) {
		insertChunk(ctx, t, repo, &orgID, "another brand match", unitVector(0))
		results, err := repo.SimilaritySearch(ctx, unitVector(0), &orgID, 0.5, 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("zero limit returns empty without querying", func(t *testing.T) {
		results, err := repo.SimilaritySearch(ctx, unitVector(0), &orgID, 0.5, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := repo.SimilaritySearch(ctx, make([]float32, 10), &orgID, 0.5, 10)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestKnowledgeChunkRepository_Count(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	orgRepo := NewOrgRepository(pool)
	repo := NewKnowledgeChunkRepository(pool, testDimensions)

	orgID := seedOrg(ctx, t, orgRepo, "Acme")
	otherID := seedOrg(ctx, t, orgRepo, "Globex")

	insertChunk(ctx, t, repo, &orgID, "acme one", unitVector(0))
	insertChunk(ctx, t, repo, &orgID, "acme two", unitVector(1))
	insertChunk(ctx, t, repo, &otherID, "globex one", unitVector(2))
	insertChunk(ctx, t, repo, nil, "platform one", unitVector(3))

	brandCount, err := repo.Count(ctx, &orgID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), brandCount)

	platformCount, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), platformCount)
}
