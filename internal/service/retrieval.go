package service

import (
	"context"
	"log"

	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/telemetry"
)

const (
	// DefaultSimilarityThreshold filters out weak matches in both scopes.
	DefaultSimilarityThreshold = 0.5
	// DefaultTopK bounds how many snippets a retrieval returns.
	DefaultTopK = 3
)

// Snippet provenance markers on RetrieveResult.Source.
const (
	SourceStore    = "store"
	SourceFallback = "fallback"
)

// RetrieveInput describes one context retrieval. IncludePlatform controls
// whether shared platform knowledge may top up an unfilled brand search.
type RetrieveInput struct {
	OrgID           string
	Query           string
	TopK            int
	IncludePlatform bool
}

// RetrieveResult carries retrieved snippets plus enough provenance for the
// caller to judge their quality. Fallback results ignore TopK and return
// the full default set.
type RetrieveResult struct {
	Snippets     []string
	Source       string
	Degraded     bool
	BrandHits    int
	PlatformHits int
}

// KnowledgeStats reports stored chunk counts per scope.
type KnowledgeStats struct {
	Connected      bool
	BrandChunks    int64
	PlatformChunks int64
	Degraded       bool
}

// RetrievalService answers brand-context queries over stored knowledge.
// Brand-scoped chunks are searched first and always outrank platform
// chunks regardless of similarity score; when the caller opts in,
// platform knowledge tops up what the brand search left unfilled.
// Retrieval never fails: any error path degrades to the default examples.
type RetrievalService struct {
	chunks    ChunkStore
	embedder  Embedder
	threshold float64
	defaults  []string
}

func NewRetrievalService(chunks ChunkStore, embedder Embedder, threshold float64) *RetrievalService {
	return NewRetrievalServiceWithDefaults(chunks, embedder, threshold, DefaultExamples())
}

// NewRetrievalServiceWithDefaults creates a RetrievalService with custom
// fallback snippets in place of the built-in default examples.
func NewRetrievalServiceWithDefaults(chunks ChunkStore, embedder Embedder, threshold float64, defaults []string) *RetrievalService {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if len(defaults) == 0 {
		defaults = DefaultExamples()
	}
	return &RetrievalService{
		chunks:    chunks,
		embedder:  embedder,
		threshold: threshold,
		defaults:  defaults,
	}
}

// Retrieve returns up to TopK snippets for the query, brand scope first.
func (s *RetrievalService) Retrieve(ctx context.Context, input RetrieveInput) *RetrieveResult {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		OrgID:     input.OrgID,
		Operation: "retrieve_context",
	})
	defer span.End()

	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	if s.chunks == nil {
		return s.fallbackResult(false)
	}

	vec := s.embedder.Embed(ctx, input.Query)

	var results []*domain.SearchResult

	brandHits := 0
	if input.OrgID != "" {
		brandResults, err := s.chunks.SimilaritySearch(ctx, vec.Values, &input.OrgID, s.threshold, topK)
		if err != nil {
			log.Printf("retrieval: brand search failed, using defaults: %v", err)
			return s.fallbackResult(true)
		}
		results = append(results, brandResults...)
		brandHits = len(brandResults)
	}

	platformHits := 0
	if input.IncludePlatform && len(results) < topK {
		remaining := topK - len(results)
		platformResults, err := s.chunks.SimilaritySearch(ctx, vec.Values, nil, s.threshold, remaining)
		if err != nil {
			log.Printf("retrieval: platform search failed, using defaults: %v", err)
			return s.fallbackResult(true)
		}
		results = append(results, platformResults...)
		platformHits = len(platformResults)
	}

	if len(results) == 0 {
		res := s.fallbackResult(vec.Degraded)
		res.Degraded = res.Degraded || vec.Degraded
		return res
	}

	if len(results) > topK {
		results = results[:topK]
	}

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Content)
	}

	return &RetrieveResult{
		Snippets:     snippets,
		Source:       SourceStore,
		Degraded:     vec.Degraded,
		BrandHits:    brandHits,
		PlatformHits: platformHits,
	}
}

// Stats reports chunk counts for a brand and the shared platform scope.
func (s *RetrievalService) Stats(ctx context.Context, orgID string) (*KnowledgeStats, error) {
	stats := &KnowledgeStats{Degraded: s.embedder.Degraded()}

	if s.chunks == nil {
		return stats, nil
	}
	stats.Connected = true

	if orgID != "" {
		brandCount, err := s.chunks.Count(ctx, &orgID)
		if err != nil {
			return nil, err
		}
		stats.BrandChunks = brandCount
	}

	platformCount, err := s.chunks.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats.PlatformChunks = platformCount

	return stats, nil
}

func (s *RetrievalService) fallbackResult(degraded bool) *RetrieveResult {
	snippets := make([]string, len(s.defaults))
	copy(snippets, s.defaults)
	return &RetrieveResult{
		Snippets: snippets,
		Source:   SourceFallback,
		Degraded: degraded,
	}
}
