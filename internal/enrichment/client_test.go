package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/evalforge/internal/config"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
)

func newTestClient(url string) *Client {
	return NewClient(config.EnrichmentConfig{BaseURL: url, Timeout: 2 * time.Second})
}

func TestPlaceRequestSuccess(t *testing.T) {
	var received Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/enrichments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{Success: true, StatusCode: 200, Message: "enrichment started"})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).PlaceRequest(context.Background(), &Request{
		EvalRunID:              "run-1",
		DataSetID:              "ds-1",
		MetricsConfigurationID: "mc-1",
		AgentID:                "agent-1",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "enrichment started", resp.Message)
	assert.Equal(t, "run-1", received.EvalRunID)
	assert.Equal(t, "ds-1", received.DataSetID)
}

func TestPlaceRequestUpstreamFailureIsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(Response{Success: false, StatusCode: 503, Message: "enrichment backlog full"})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).PlaceRequest(context.Background(), &Request{EvalRunID: "run-1"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, "enrichment backlog full", resp.Message)
}

func TestPlaceRequestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).PlaceRequest(context.Background(), &Request{EvalRunID: "run-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInfrastructure(err))
}

func TestPlaceRequestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).PlaceRequest(context.Background(), &Request{EvalRunID: "run-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInfrastructure(err))
}
