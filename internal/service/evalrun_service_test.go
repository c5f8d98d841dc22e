package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/evalforge/internal/cache"
	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/enrichment"
	"github.com/evalforge/evalforge/internal/identity"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
	"github.com/evalforge/evalforge/internal/repository"
	"github.com/evalforge/evalforge/internal/storage"
)

// MockEnrichmentClient is a mock implementation of EnrichmentClient
type MockEnrichmentClient struct {
	mock.Mock
}

func (m *MockEnrichmentClient) PlaceRequest(ctx context.Context, req *enrichment.Request) (*enrichment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrichment.Response), args.Error(1)
}

type userCaller struct {
	email string
}

func (u userCaller) IsServicePrincipal() (bool, error)      { return false, nil }
func (u userCaller) HasDelegatedUserContext() (bool, error) { return false, nil }
func (u userCaller) CurrentUserEmail() (string, error)      { return u.email, nil }
func (u userCaller) CurrentUserID() (string, error)         { return "", nil }
func (u userCaller) CallingApplicationName() (string, error) {
	return "", nil
}

type evalRunFixture struct {
	svc          *EvalRunService
	evalRuns     *repository.RecordRepository
	enrichClient *MockEnrichmentClient
	dataSetID    string
	metricsID    string
}

func newEvalRunFixture(t *testing.T) *evalRunFixture {
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

	enrichClient := new(MockEnrichmentClient)
	resolver := identity.NewResolver()
	refValidator := NewReferenceValidator(datasets, metricsConfigs)

	return &evalRunFixture{
		svc:          NewEvalRunService(evalRuns, refValidator, enrichClient, resolver, false),
		evalRuns:     evalRuns,
		enrichClient: enrichClient,
		dataSetID:    ds.ID,
		metricsID:    mc.ID,
	}
}

func (f *evalRunFixture) input() *EvalRunInput {
	return &EvalRunInput{
		AgentID:                "agent-1",
		AgentName:              "Agent One",
		Name:                   "nightly-run",
		DataSetID:              f.dataSetID,
		MetricsConfigurationID: f.metricsID,
	}
}

func TestCreateEvalRun(t *testing.T) {
	ctx := context.Background()
	f := newEvalRunFixture(t)

	f.enrichClient.On("PlaceRequest", mock.Anything, mock.Anything).
		Return(&enrichment.Response{Success: true, StatusCode: 200}, nil)

	rec, err := f.svc.CreateEvalRun(ctx, userCaller{email: "ana@example.com"}, f.input())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRequestSubmitted, rec.Status)
	assert.Equal(t, "ana@example.com", rec.CreatedBy)
	assert.Equal(t, f.dataSetID, rec.DataSetID)
	assert.Equal(t, f.metricsID, rec.MetricsConfigurationID)

	f.enrichClient.AssertCalled(t, "PlaceRequest", mock.Anything, mock.MatchedBy(func(req *enrichment.Request) bool {
		return req.EvalRunID == rec.ID && req.DataSetID == f.dataSetID && req.AgentID == "agent-1"
	}))
}

func TestCreateEvalRunInvalidReferencePersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newEvalRunFixture(t)

	input := f.input()
	input.DataSetID = "no-such-dataset"

	_, err := f.svc.CreateEvalRun(ctx, userCaller{email: "ana@example.com"}, input)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	runs, err := f.evalRuns.List(ctx, "agent-1")
	require.NoError(t, err)
	assert.Empty(t, runs)
	f.enrichClient.AssertNotCalled(t, "PlaceRequest", mock.Anything, mock.Anything)
}

func TestCreateEvalRunEnrichmentFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	f := newEvalRunFixture(t)

	f.enrichClient.On("PlaceRequest", mock.Anything, mock.Anything).
		Return(&enrichment.Response{Success: false, StatusCode: 503, Message: "backlog full"}, nil)

	rec, err := f.svc.CreateEvalRun(ctx, userCaller{email: "ana@example.com"}, f.input())
	require.NoError(t, err)

	stored, err := f.evalRuns.GetByID(ctx, "agent-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequestSubmitted, stored.Status)
}

func TestUpdateStatusNormalizesCase(t *testing.T) {
	ctx := context.Background()
	f := newEvalRunFixture(t)

	f.enrichClient.On("PlaceRequest", mock.Anything, mock.Anything).
		Return(&enrichment.Response{Success: true, StatusCode: 200}, nil)

	rec, err := f.svc.CreateEvalRun(ctx, userCaller{email: "ana@example.com"}, f.input())
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, userCaller{email: "bob@example.com"}, "agent-1", rec.ID, "evalrunstarted")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusEvalRunStarted, updated.Status)
	assert.Equal(t, "ana@example.com", updated.CreatedBy)
	assert.Equal(t, "bob@example.com", updated.LastUpdatedBy)
	assert.Equal(t, rec.CreatedOn, updated.CreatedOn)

	stored, err := f.evalRuns.GetByID(ctx, "agent-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEvalRunStarted, stored.Status)
}

func TestUpdateStatusRejectsUnrecognizedText(t *testing.T) {
	ctx := context.Background()
	f := newEvalRunFixture(t)

	_, err := f.svc.UpdateStatus(ctx, userCaller{email: "ana@example.com"}, "agent-1", "run-1", "Running")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateStatusMissingRun(t *testing.T) {
	ctx := context.Background()
	f := newEvalRunFixture(t)

	_, err := f.svc.UpdateStatus(ctx, userCaller{email: "ana@example.com"}, "agent-1", "no-such-run", "EvalRunStarted")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPlaceEnrichmentRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("missing run is not found", func(t *testing.T) {
		f := newEvalRunFixture(t)
		_, err := f.svc.PlaceEnrichmentRequest(ctx, "agent-1", "no-such-run")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
		f.enrichClient.AssertNotCalled(t, "PlaceRequest", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure comes back as response plus upstream error", func(t *testing.T) {
		f := newEvalRunFixture(t)
		f.enrichClient.On("PlaceRequest", mock.Anything, mock.Anything).
			Return(&enrichment.Response{Success: true, StatusCode: 200}, nil).Once()

		rec, err := f.svc.CreateEvalRun(ctx, userCaller{email: "ana@example.com"}, f.input())
		require.NoError(t, err)

		f.enrichClient.On("PlaceRequest", mock.Anything, mock.Anything).
			Return(&enrichment.Response{Success: false, StatusCode: 429, Message: "throttled"}, nil).Once()

		resp, err := f.svc.PlaceEnrichmentRequest(ctx, "agent-1", rec.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsUpstream(err))
		require.NotNil(t, resp)
		assert.Equal(t, 429, resp.StatusCode)
		assert.Equal(t, "throttled", resp.Message)
	})

	t.Run("success returns the upstream response", func(t *testing.T) {
		f := newEvalRunFixture(t)
		f.enrichClient.On("PlaceRequest", mock.Anything, mock.Anything).
			Return(&enrichment.Response{Success: true, StatusCode: 200, Message: "started"}, nil)

		rec, err := f.svc.CreateEvalRun(ctx, userCaller{email: "ana@example.com"}, f.input())
		require.NoError(t, err)

		resp, err := f.svc.PlaceEnrichmentRequest(ctx, "agent-1", rec.ID)
		require.NoError(t, err)
		assert.True(t, resp.Success)
	})
}
