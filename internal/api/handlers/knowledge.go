package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/brightreach/campaignai/internal/api"
	"github.com/brightreach/campaignai/internal/api/middleware"
	"github.com/brightreach/campaignai/internal/service"
)

type IngestService interface {
	IngestDocument(ctx context.Context, input service.IngestInput) (*service.IngestResult, error)
}

type RetrievalService interface {
	Retrieve(ctx context.Context, input service.RetrieveInput) *service.RetrieveResult
	Stats(ctx context.Context, orgID string) (*service.KnowledgeStats, error)
}

type KnowledgeHandler struct {
	ingest    IngestService
	retrieval RetrievalService
}

func NewKnowledgeHandler(ingest IngestService, retrieval RetrievalService) *KnowledgeHandler {
	return &KnowledgeHandler{ingest: ingest, retrieval: retrieval}
}

type IngestDocumentRequest struct {
	Source      string `json:"source"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type IngestDocumentResponse struct {
	ChunksTotal  int  `json:"chunks_total"`
	ChunksStored int  `json:"chunks_stored"`
	Degraded     bool `json:"degraded"`
}

type RetrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
	// IncludePlatform defaults to true when omitted.
	IncludePlatform *bool `json:"include_platform"`
}

type RetrieveResponse struct {
	Snippets     []string `json:"snippets"`
	Source       string   `json:"source"`
	Degraded     bool     `json:"degraded"`
	BrandHits    int      `json:"brand_hits"`
	PlatformHits int      `json:"platform_hits"`
}

type StatsResponse struct {
	Connected      bool  `json:"connected"`
	BrandChunks    int64 `json:"brand_chunks"`
	PlatformChunks int64 `json:"platform_chunks"`
	Degraded       bool  `json:"degraded"`
}

func (h *KnowledgeHandler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req IngestDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Source == "" {
		api.Error(w, http.StatusBadRequest, "source is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	result, err := h.ingest.IngestDocument(r.Context(), service.IngestInput{
		OrgID:       &orgID,
		Source:      req.Source,
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, IngestDocumentResponse{
		ChunksTotal:  result.ChunksTotal,
		ChunksStored: result.ChunksStored,
		Degraded:     result.Degraded,
	})
}

func (h *KnowledgeHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	includePlatform := true
	if req.IncludePlatform != nil {
		includePlatform = *req.IncludePlatform
	}

	result := h.retrieval.Retrieve(r.Context(), service.RetrieveInput{
		OrgID:           orgID,
		Query:           req.Query,
		TopK:            req.TopK,
		IncludePlatform: includePlatform,
	})

	api.Success(w, http.StatusOK, RetrieveResponse{
		Snippets:     result.Snippets,
		Source:       result.Source,
		Degraded:     result.Degraded,
		BrandHits:    result.BrandHits,
		PlatformHits: result.PlatformHits,
	})
}

func (h *KnowledgeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.retrieval.Stats(r.Context(), orgID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, StatsResponse{
		Connected:      stats.Connected,
		BrandChunks:    stats.BrandChunks,
		PlatformChunks: stats.PlatformChunks,
		Degraded:       stats.Degraded,
	})
}
