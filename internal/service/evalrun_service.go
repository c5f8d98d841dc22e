package service

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/enrichment"
	"github.com/evalforge/evalforge/internal/identity"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
	"github.com/evalforge/evalforge/internal/pkg/logger"
)

// EnrichmentClient defines the outbound enrichment API operations
type EnrichmentClient interface {
	PlaceRequest(ctx context.Context, req *enrichment.Request) (*enrichment.Response, error)
}

// EvalRunInput represents input for creating an eval run
type EvalRunInput struct {
	AgentID                string `json:"agentId" validate:"required"`
	AgentName              string `json:"agentName,omitempty"`
	Name                   string `json:"name" validate:"required"`
	DataSetID              string `json:"dataSetId" validate:"required"`
	MetricsConfigurationID string `json:"metricsConfigurationId" validate:"required"`
}

// EvalRunService drives the eval run lifecycle. It persists status
// transitions but does not police their ordering; orchestrators are trusted
// to move runs forward.
type EvalRunService struct {
	repo          RecordStore
	refValidator  *ReferenceValidator
	enrichClient  EnrichmentClient
	resolver      *identity.Resolver
	sentryEnabled bool
}

// NewEvalRunService creates a new eval run service
func NewEvalRunService(repo RecordStore, refValidator *ReferenceValidator, enrichClient EnrichmentClient, resolver *identity.Resolver, sentryEnabled bool) *EvalRunService {
	return &EvalRunService{
		repo:          repo,
		refValidator:  refValidator,
		enrichClient:  enrichClient,
		resolver:      resolver,
		sentryEnabled: sentryEnabled,
	}
}

// CreateEvalRun validates both entity references, persists the run with
// status RequestSubmitted, then places a best-effort enrichment request.
// Enrichment failure is reported through the error side channel but never
// rolls back the persisted run.
func (s *EvalRunService) CreateEvalRun(ctx context.Context, cc identity.CallerContext, input *EvalRunInput) (*domain.MetadataRecord, error) {
	if err := s.refValidator.ValidateReferences(ctx, input.AgentID, input.DataSetID, input.MetricsConfigurationID); err != nil {
		return nil, err
	}

	draft := &domain.MetadataRecord{
		AgentID:                input.AgentID,
		Name:                   input.Name,
		Status:                 domain.StatusRequestSubmitted,
		DataSetID:              input.DataSetID,
		MetricsConfigurationID: input.MetricsConfigurationID,
	}

	rec, err := s.repo.Save(ctx, draft, []domain.RunResult{}, s.resolver.Resolve(cc))
	if err != nil {
		return nil, err
	}

	resp, err := s.enrichClient.PlaceRequest(ctx, &enrichment.Request{
		EvalRunID:              rec.ID,
		DataSetID:              rec.DataSetID,
		MetricsConfigurationID: rec.MetricsConfigurationID,
		AgentID:                rec.AgentID,
		AgentName:              input.AgentName,
	})
	switch {
	case err != nil:
		s.reportEnrichmentFailure(rec.ID, err)
	case !resp.Success:
		s.reportEnrichmentFailure(rec.ID, apperrors.Upstream(resp.Message, resp.StatusCode))
	}

	return rec, nil
}

// UpdateStatus normalizes the status text case-insensitively and persists
// the new status together with a refreshed update stamp in one write.
// Creation audit fields are never touched.
func (s *EvalRunService) UpdateStatus(ctx context.Context, cc identity.CallerContext, agentID, evalRunID, statusText string) (*domain.MetadataRecord, error) {
	status, err := domain.ParseEvalRunStatus(statusText)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	rec, err := s.repo.GetByID(ctx, agentID, evalRunID)
	if err != nil {
		return nil, err
	}

	rec.Status = status
	rec.LastUpdatedBy = s.resolver.Resolve(cc)
	rec.LastUpdatedOn = time.Now().UTC()

	if err := s.repo.UpdateRow(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// PlaceEnrichmentRequest re-issues the enrichment call for an existing run.
// An upstream-declared failure comes back as an upstream error alongside the
// response; transport faults propagate as infrastructure errors.
func (s *EvalRunService) PlaceEnrichmentRequest(ctx context.Context, agentID, evalRunID string) (*enrichment.Response, error) {
	rec, err := s.repo.GetByID(ctx, agentID, evalRunID)
	if err != nil {
		return nil, err
	}

	resp, err := s.enrichClient.PlaceRequest(ctx, &enrichment.Request{
		EvalRunID:              rec.ID,
		DataSetID:              rec.DataSetID,
		MetricsConfigurationID: rec.MetricsConfigurationID,
		AgentID:                rec.AgentID,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return resp, apperrors.Upstream(resp.Message, resp.StatusCode)
	}
	return resp, nil
}

// Get returns an eval run's metadata record
func (s *EvalRunService) Get(ctx context.Context, agentID, evalRunID string) (*domain.MetadataRecord, error) {
	return s.repo.GetByID(ctx, agentID, evalRunID)
}

// List returns all eval run metadata records for an agent
func (s *EvalRunService) List(ctx context.Context, agentID string) ([]domain.MetadataRecord, error) {
	return s.repo.List(ctx, agentID)
}

// GetResults returns an eval run's content payload
func (s *EvalRunService) GetResults(ctx context.Context, agentID, evalRunID string) ([]domain.RunResult, error) {
	var results []domain.RunResult
	if err := s.repo.GetContent(ctx, agentID, evalRunID, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes an eval run, reporting whether it existed
func (s *EvalRunService) Delete(ctx context.Context, agentID, evalRunID string) (bool, error) {
	return s.repo.Delete(ctx, agentID, evalRunID)
}

func (s *EvalRunService) reportEnrichmentFailure(evalRunID string, err error) {
	logger.WithEvalRunID(evalRunID).Error("enrichment request failed", zap.Error(err))
	if s.sentryEnabled {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("eval_run_id", evalRunID)
			sentry.CaptureException(fmt.Errorf("enrichment request for run %s failed: %w", evalRunID, err))
		})
	}
}
