package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_SetsAuthHeader(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]string{"status": "ok"}})
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig("cpn_testkey", srv.URL)
	require.NoError(t, err)

	resp, err := api.Get("/health")
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, "Bearer cpn_testkey", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestAPIClient_PostSendsJSONBody(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]string{"id": "123"}})
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig("cpn_testkey", srv.URL)
	require.NoError(t, err)

	resp, err := api.Post("/campaigns", map[string]string{"goal": "Leads"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, "Leads", gotBody["goal"])
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "goal is required"})
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig("cpn_testkey", srv.URL)
	require.NoError(t, err)

	_, err = api.Post("/campaigns", map[string]string{})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "goal is required", apiErr.Message)
}

func TestAPIClient_NonJSONErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig("cpn_testkey", srv.URL)
	require.NoError(t, err)

	_, err = api.Get("/health")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "bad gateway")
}
