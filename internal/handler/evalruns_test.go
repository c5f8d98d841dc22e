package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/cache"
	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/enrichment"
	"github.com/evalforge/evalforge/internal/identity"
	"github.com/evalforge/evalforge/internal/repository"
	"github.com/evalforge/evalforge/internal/service"
	"github.com/evalforge/evalforge/internal/storage"
)

type fakeEnrichmentClient struct {
	resp *enrichment.Response
	err  error
}

func (f *fakeEnrichmentClient) PlaceRequest(ctx context.Context, req *enrichment.Request) (*enrichment.Response, error) {
	return f.resp, f.err
}

type evalRunApp struct {
	app       *fiber.App
	dataSetID string
	metricsID string
}

func newEvalRunApp(t *testing.T, enrichClient service.EnrichmentClient) *evalRunApp {
	t.Helper()
	ctx := context.Background()
	tables := storage.NewMemoryTableStore()
	blobs := storage.NewMemoryBlobStore()
	mgr := cache.NewManager(cache.NewMemoryStore(64, time.Minute), config.CachePolicyDegrade)

	datasets := repository.NewRecordRepository(domain.RecordKindDataSet, tables, blobs, mgr)
	metricsConfigs := repository.NewRecordRepository(domain.RecordKindMetricsConfiguration, tables, blobs, mgr)
	evalRuns := repository.NewRecordRepository(domain.RecordKindEvalRun, tables, blobs, mgr)

	ds, err := datasets.Save(ctx, &domain.MetadataRecord{AgentID: "agent-1", Name: "golden"}, []domain.DatasetRow{}, "seed")
	require.NoError(t, err)
	mc, err := metricsConfigs.Save(ctx, &domain.MetadataRecord{AgentID: "agent-1", Name: "default-metrics"}, []domain.MetricSelection{}, "seed")
	require.NoError(t, err)

	resolver := identity.NewResolver()
	svc := service.NewEvalRunService(evalRuns, service.NewReferenceValidator(datasets, metricsConfigs), enrichClient, resolver, false)
	h := NewEvalRunsHandler(svc, zap.NewNop())

	app := fiber.New()
	app.Post("/v1/agents/:agentId/eval-runs", h.CreateEvalRun)
	app.Get("/v1/agents/:agentId/eval-runs/:evalRunId", h.GetEvalRun)
	app.Patch("/v1/agents/:agentId/eval-runs/:evalRunId/status", h.UpdateEvalRunStatus)
	app.Post("/v1/agents/:agentId/eval-runs/:evalRunId/enrichment", h.PlaceEnrichment)

	return &evalRunApp{app: app, dataSetID: ds.ID, metricsID: mc.ID}
}

func (a *evalRunApp) createRun(t *testing.T) domain.MetadataRecord {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/v1/agents/agent-1/eval-runs", fiber.Map{
		"name":                   "nightly-run",
		"dataSetId":              a.dataSetID,
		"metricsConfigurationId": a.metricsID,
	})
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rec domain.MetadataRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	return rec
}

func TestCreateEvalRunEndpoint(t *testing.T) {
	a := newEvalRunApp(t, &fakeEnrichmentClient{resp: &enrichment.Response{Success: true, StatusCode: 200}})

	rec := a.createRun(t)
	assert.Equal(t, domain.StatusRequestSubmitted, rec.Status)
	assert.Equal(t, identity.SystemIdentity, rec.CreatedBy)
}

func TestCreateEvalRunEndpointInvalidReference(t *testing.T) {
	a := newEvalRunApp(t, &fakeEnrichmentClient{resp: &enrichment.Response{Success: true, StatusCode: 200}})

	req := jsonRequest(t, http.MethodPost, "/v1/agents/agent-1/eval-runs", fiber.Map{
		"name":                   "nightly-run",
		"dataSetId":              "no-such-dataset",
		"metricsConfigurationId": a.metricsID,
	})
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateEvalRunStatusEndpoint(t *testing.T) {
	a := newEvalRunApp(t, &fakeEnrichmentClient{resp: &enrichment.Response{Success: true, StatusCode: 200}})
	rec := a.createRun(t)

	req := jsonRequest(t, http.MethodPatch, "/v1/agents/agent-1/eval-runs/"+rec.ID+"/status", fiber.Map{
		"status": "evalruncompleted",
	})
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated domain.MetadataRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, domain.StatusEvalRunCompleted, updated.Status)
}

func TestUpdateEvalRunStatusEndpointRejectsUnknownStatus(t *testing.T) {
	a := newEvalRunApp(t, &fakeEnrichmentClient{resp: &enrichment.Response{Success: true, StatusCode: 200}})
	rec := a.createRun(t)

	req := jsonRequest(t, http.MethodPatch, "/v1/agents/agent-1/eval-runs/"+rec.ID+"/status", fiber.Map{
		"status": "Running",
	})
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaceEnrichmentEndpointUpstreamFailure(t *testing.T) {
	a := newEvalRunApp(t, &fakeEnrichmentClient{resp: &enrichment.Response{Success: false, StatusCode: 429, Message: "throttled"}})
	rec := a.createRun(t)

	resp, err := a.app.Test(httptest.NewRequest(http.MethodPost, "/v1/agents/agent-1/eval-runs/"+rec.ID+"/enrichment", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body enrichment.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "throttled", body.Message)
}
