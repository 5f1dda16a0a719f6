package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightreach/campaignai/internal/api"
	"github.com/brightreach/campaignai/internal/api/handlers"
	"github.com/brightreach/campaignai/internal/api/middleware"
)

type RouterConfig struct {
	AuthValidator    middleware.AuthValidator
	KnowledgeHandler *handlers.KnowledgeHandler
	CampaignHandler  *handlers.CampaignHandler
	AuthHandler      *handlers.AuthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.AuthValidator))

		r.Post("/documents", cfg.KnowledgeHandler.IngestDocument)
		r.Post("/retrieve", cfg.KnowledgeHandler.Retrieve)
		r.Get("/knowledge/stats", cfg.KnowledgeHandler.Stats)

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", cfg.CampaignHandler.Create)
			r.Get("/", cfg.CampaignHandler.List)
			r.Get("/{id}", cfg.CampaignHandler.Get)
		})
	})

	r.Post("/orgs", cfg.AuthHandler.CreateOrg)
	r.Post("/apikeys", cfg.AuthHandler.CreateAPIKey)

	return r
}
