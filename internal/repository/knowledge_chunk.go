package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/brightreach/campaignai/internal/domain"
)

// KnowledgeChunkRepository handles persistence and similarity search of
// chunked knowledge embeddings in the knowledge_docs table.
type KnowledgeChunkRepository struct {
	pool       *pgxpool.Pool
	dimensions int
}

func NewKnowledgeChunkRepository(pool *pgxpool.Pool, dimensions int) *KnowledgeChunkRepository {
	return &KnowledgeChunkRepository{pool: pool, dimensions: dimensions}
}

// Insert stores one chunk. The embedding width is validated against the
// configured dimension before touching the database; the column type would
// reject it anyway but with a far less useful error. Source and chunk index
// travel inside the metadata document.
func (r *KnowledgeChunkRepository) Insert(ctx context.Context, chunk *domain.KnowledgeChunk) (string, error) {
	if err := domain.ValidateKnowledgeChunk(chunk); err != nil {
		return "", err
	}
	if len(chunk.Embedding) != r.dimensions {
		return "", fmt.Errorf("%w: got %d, expected %d", domain.ErrDimensionMismatch, len(chunk.Embedding), r.dimensions)
	}

	metadata := map[string]any{}
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}
	metadata["source"] = chunk.Source
	metadata["chunk_index"] = chunk.ChunkIndex

	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO knowledge_docs (id, org_id, content, embedding, doc_type, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		chunk.ID,
		chunk.OrgID,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
		docType(chunk.OrgID),
		metadata,
		createdAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrInsertRejected
		}
		return "", err
	}

	return id, nil
}

// SimilaritySearch returns chunks in one scope ranked by cosine similarity
// to the query vector. A nil orgID searches platform-wide chunks only; a
// non-nil orgID searches that brand's chunks only. Rows below the threshold
// are filtered in SQL so the limit applies to qualifying rows.
func (r *KnowledgeChunkRepository) SimilaritySearch(ctx context.Context, queryEmbedding []float32, orgID *string, threshold float64, limit int) ([]*domain.SearchResult, error) {
	if len(queryEmbedding) != r.dimensions {
		return nil, fmt.Errorf("%w: got %d, expected %d", domain.ErrDimensionMismatch, len(queryEmbedding), r.dimensions)
	}
	if limit <= 0 {
		return []*domain.SearchResult{}, nil
	}

	vec := pgvector.NewVector(queryEmbedding)

	var rows pgx.Rows
	var err error

	if orgID == nil {
		rows, err = r.pool.Query(ctx,
			`SELECT content, 1 - (embedding <=> $1) AS similarity, org_id
			 FROM knowledge_docs
			 WHERE org_id IS NULL AND 1 - (embedding <=> $1) >= $2
			 ORDER BY similarity DESC
			 LIMIT $3`,
			vec, threshold, limit,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT content, 1 - (embedding <=> $1) AS similarity, org_id
			 FROM knowledge_docs
			 WHERE org_id = $2 AND 1 - (embedding <=> $1) >= $3
			 ORDER BY similarity DESC
			 LIMIT $4`,
			vec, *orgID, threshold, limit,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.SearchResult, 0)
	for rows.Next() {
		var result domain.SearchResult
		if err := rows.Scan(&result.Content, &result.Similarity, &result.OrgID); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// Count returns the number of stored chunks in one scope. Nil orgID counts
// platform-wide chunks.
func (r *KnowledgeChunkRepository) Count(ctx context.Context, orgID *string) (int64, error) {
	var count int64
	var err error

	if orgID == nil {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM knowledge_docs WHERE org_id IS NULL`,
		).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM knowledge_docs WHERE org_id = $1`,
			*orgID,
		).Scan(&count)
	}

	return count, err
}

func docType(orgID *string) string {
	if orgID == nil {
		return "platform_knowledge"
	}
	return "brand_example"
}
