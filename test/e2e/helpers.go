//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightreach/campaignai/internal/api/handlers"
	"github.com/brightreach/campaignai/internal/embedding"
	"github.com/brightreach/campaignai/internal/llm"
	"github.com/brightreach/campaignai/internal/repository"
	"github.com/brightreach/campaignai/internal/server"
	"github.com/brightreach/campaignai/internal/service"
	"github.com/brightreach/campaignai/internal/testutil"
)

const testDimensions = 384

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	OrgID        string
	APIKeyToken  string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a container-backed
// server. The embedder runs degraded (no model), so retrieval exercises the
// flagged placeholder path the way an unconfigured deployment would.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Bootstrap creates an organization and API key for testing
func (e *E2ETestEnv) Bootstrap() {
	orgResp, err := e.Post("/orgs", map[string]string{"name": "E2E Test Org"}, "")
	if err != nil {
		e.T.Fatalf("failed to create org: %v", err)
	}

	var orgData struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(orgResp.Data, &orgData); err != nil {
		e.T.Fatalf("failed to parse org response: %v", err)
	}
	e.OrgID = orgData.ID

	keyResp, err := e.Post("/apikeys", map[string]string{
		"org_id": e.OrgID,
		"name":   "e2e-test-key",
	}, "")
	if err != nil {
		e.T.Fatalf("failed to create API key: %v", err)
	}

	var keyData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(keyResp.Data, &keyData); err != nil {
		e.T.Fatalf("failed to parse key response: %v", err)
	}
	e.APIKeyToken = keyData.Token
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path, authToken string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, authToken)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}, authToken string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, authToken)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, authToken string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// startServer starts the HTTP server with all handlers wired to the pool.
// No OpenAI key is configured, so the embedder is degraded and strategy
// generation always falls back to platform defaults.
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	chunkRepo := repository.NewKnowledgeChunkRepository(pool, testDimensions)
	campaignRepo := repository.NewCampaignRepository(pool)
	orgRepo := repository.NewOrgRepository(pool)
	apiKeyRepo := repository.NewAPIKeyRepository(pool)

	uuidGen := &service.DefaultUUIDGenerator{}
	embedder := embedding.NewDegradedEmbedder(testDimensions)

	ingestSvc := service.NewIngestService(chunkRepo, embedder, nil, service.DefaultMaxChunkSize)
	retrievalSvc := service.NewRetrievalService(chunkRepo, embedder, service.DefaultSimilarityThreshold)
	campaignSvc := service.NewCampaignService(campaignRepo, retrievalSvc, llm.NewGenerator(nil))
	authSvc := service.NewAuthService(orgRepo, apiKeyRepo, uuidGen)

	router := server.NewRouter(server.RouterConfig{
		AuthValidator:    authSvc,
		KnowledgeHandler: handlers.NewKnowledgeHandler(ingestSvc, retrievalSvc),
		CampaignHandler:  handlers.NewCampaignHandler(campaignSvc),
		AuthHandler:      handlers.NewAuthHandler(authSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL)

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}

	return serverURL, closer
}

func waitForServer(t *testing.T, serverURL string) {
	client := &http.Client{Timeout: time.Second}
	for i := 0; i < 50; i++ {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("server did not become ready")
}

func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
