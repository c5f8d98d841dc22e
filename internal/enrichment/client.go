// Package enrichment calls the external dataset-enrichment API that
// post-processes an eval run's dataset before scoring starts.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evalforge/evalforge/internal/config"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
	"github.com/evalforge/evalforge/internal/pkg/metrics"
)

// Request is the enrichment API request payload.
type Request struct {
	EvalRunID              string `json:"evalRunId"`
	DataSetID              string `json:"dataSetId"`
	MetricsConfigurationID string `json:"metricsConfigurationId"`
	AgentID                string `json:"agentId"`
	AgentName              string `json:"agentName,omitempty"`
}

// Response is the enrichment API response payload. A non-success response
// is ordinary data, not an error: callers inspect Success and StatusCode.
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Client issues enrichment requests over HTTPS. One attempt per call; the
// only retry policy is whatever the caller layers on top.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an enrichment API client
func NewClient(cfg config.EnrichmentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PlaceRequest submits an enrichment request. Transport and serialization
// faults return an infrastructure error; everything the upstream said,
// including failures, comes back as the Response.
func (c *Client) PlaceRequest(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Infrastructure("failed to serialize enrichment request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/enrichments", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Infrastructure("failed to build enrichment request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordEnrichmentRequest("transport_error")
		return nil, apperrors.Infrastructure("enrichment request failed", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		metrics.RecordEnrichmentRequest("transport_error")
		return nil, apperrors.Infrastructure("failed to read enrichment response", err)
	}

	resp := Response{StatusCode: httpResp.StatusCode}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			metrics.RecordEnrichmentRequest("transport_error")
			return nil, apperrors.Infrastructure(
				fmt.Sprintf("enrichment response is not valid JSON (status %d)", httpResp.StatusCode), err)
		}
	}

	if resp.Success {
		metrics.RecordEnrichmentRequest("success")
	} else {
		metrics.RecordEnrichmentRequest("upstream_error")
	}
	return &resp, nil
}
