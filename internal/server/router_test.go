package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightreach/campaignai/internal/api/handlers"
	"github.com/brightreach/campaignai/internal/domain"
	"github.com/brightreach/campaignai/internal/service"
)

type MockAuthValidator struct {
	mock.Mock
}

func (m *MockAuthValidator) ValidateAPIKey(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestDocument(ctx context.Context, input service.IngestInput) (*service.IngestResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

type MockRetrievalService struct {
	mock.Mock
}

func (m *MockRetrievalService) Retrieve(ctx context.Context, input service.RetrieveInput) *service.RetrieveResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*service.RetrieveResult)
}

func (m *MockRetrievalService) Stats(ctx context.Context, orgID string) (*service.KnowledgeStats, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.KnowledgeStats), args.Error(1)
}

type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) CreateStrategy(ctx context.Context, input service.CreateStrategyInput) (*service.StrategyOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StrategyOutput), args.Error(1)
}

func (m *MockCampaignService) GetPlan(ctx context.Context, id, orgID string) (*service.StrategyOutput, error) {
	args := m.Called(ctx, id, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StrategyOutput), args.Error(1)
}

func (m *MockCampaignService) ListPlans(ctx context.Context, orgID, cursor string, limit int) (*service.CampaignPlanPage, error) {
	args := m.Called(ctx, orgID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CampaignPlanPage), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CreateOrg(ctx context.Context, name string) (*domain.Organization, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockAuthService) CreateAPIKey(ctx context.Context, orgID, name string) (string, error) {
	args := m.Called(ctx, orgID, name)
	return args.String(0), args.Error(1)
}

func setupRouter() (http.Handler, *MockAuthValidator, *MockRetrievalService, *MockCampaignService, *MockAuthService) {
	authValidator := new(MockAuthValidator)
	ingestSvc := new(MockIngestService)
	retrievalSvc := new(MockRetrievalService)
	campaignSvc := new(MockCampaignService)
	authSvc := new(MockAuthService)

	cfg := RouterConfig{
		AuthValidator:    authValidator,
		KnowledgeHandler: handlers.NewKnowledgeHandler(ingestSvc, retrievalSvc),
		CampaignHandler:  handlers.NewCampaignHandler(campaignSvc),
		AuthHandler:      handlers.NewAuthHandler(authSvc),
	}

	router := NewRouter(cfg)
	return router, authValidator, retrievalSvc, campaignSvc, authSvc
}

const testToken = "cpn_0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestRouter_HealthEndpoint(t *testing.T) {
	router, _, _, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestRouter_AuthenticatedRoutes_RequireAuth(t *testing.T) {
	router, authValidator, _, _, _ := setupRouter()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/documents"},
		{http.MethodPost, "/retrieve"},
		{http.MethodGet, "/knowledge/stats"},
		{http.MethodPost, "/campaigns"},
		{http.MethodGet, "/campaigns"},
		{http.MethodGet, "/campaigns/123"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	authValidator.AssertExpectations(t)
}

func TestRouter_AuthenticatedRoutes_WithValidAuth(t *testing.T) {
	router, authValidator, retrievalSvc, _, _ := setupRouter()

	authValidator.On("ValidateAPIKey", mock.Anything, testToken).Return("org-789", nil)
	retrievalSvc.On("Stats", mock.Anything, "org-789").Return(&service.KnowledgeStats{
		Connected:   true,
		BrandChunks: 4,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/stats", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	authValidator.AssertExpectations(t)
	retrievalSvc.AssertExpectations(t)
}

func TestRouter_GetCampaignByID(t *testing.T) {
	router, authValidator, _, campaignSvc, _ := setupRouter()

	authValidator.On("ValidateAPIKey", mock.Anything, testToken).Return("org-789", nil)
	campaignSvc.On("GetPlan", mock.Anything, "plan-1", "org-789").Return(&service.StrategyOutput{
		Plan: &domain.CampaignPlan{
			ID:        "plan-1",
			OrgID:     "org-789",
			Goal:      "Leads",
			Platform:  domain.PlatformLinkedIn,
			CreatedAt: time.Now().UTC(),
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/plan-1", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	campaignSvc.AssertExpectations(t)
}

func TestRouter_InternalRoutes_NoAuthRequired(t *testing.T) {
	router, _, _, _, authSvc := setupRouter()

	expectedOrg := &domain.Organization{
		ID:        "org-123",
		Name:      "Test Org",
		CreatedAt: time.Now().UTC(),
	}
	authSvc.On("CreateOrg", mock.Anything, "Test Org").Return(expectedOrg, nil)

	req := httptest.NewRequest(http.MethodPost, "/orgs", strings.NewReader(`{"name":"Test Org"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	authSvc.AssertExpectations(t)
}
