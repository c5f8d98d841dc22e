package service

import (
	"context"

	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/identity"
)

// MetricsConfigInput represents input for saving a metrics configuration
type MetricsConfigInput struct {
	AgentID    string                   `json:"agentId" validate:"required"`
	Name       string                   `json:"name" validate:"required"`
	Type       *string                  `json:"type,omitempty"`
	Selections []domain.MetricSelection `json:"selections" validate:"required,dive"`
}

// MetricsConfigService handles metrics configuration artifacts
type MetricsConfigService struct {
	repo     RecordStore
	resolver *identity.Resolver
}

// NewMetricsConfigService creates a new metrics configuration service
func NewMetricsConfigService(repo RecordStore, resolver *identity.Resolver) *MetricsConfigService {
	return &MetricsConfigService{repo: repo, resolver: resolver}
}

// Save upserts a metrics configuration by natural key
func (s *MetricsConfigService) Save(ctx context.Context, cc identity.CallerContext, input *MetricsConfigInput) (*domain.MetadataRecord, error) {
	draft := &domain.MetadataRecord{
		AgentID: input.AgentID,
		Name:    input.Name,
		Type:    input.Type,
	}
	return s.repo.Save(ctx, draft, input.Selections, s.resolver.Resolve(cc))
}

// Get returns a metrics configuration's metadata record
func (s *MetricsConfigService) Get(ctx context.Context, agentID, configID string) (*domain.MetadataRecord, error) {
	return s.repo.GetByID(ctx, agentID, configID)
}

// List returns all metrics configuration metadata records for an agent
func (s *MetricsConfigService) List(ctx context.Context, agentID string) ([]domain.MetadataRecord, error) {
	return s.repo.List(ctx, agentID)
}

// GetSelections returns a metrics configuration's content payload
func (s *MetricsConfigService) GetSelections(ctx context.Context, agentID, configID string) ([]domain.MetricSelection, error) {
	var selections []domain.MetricSelection
	if err := s.repo.GetContent(ctx, agentID, configID, &selections); err != nil {
		return nil, err
	}
	return selections, nil
}

// Delete removes a metrics configuration, reporting whether it existed
func (s *MetricsConfigService) Delete(ctx context.Context, agentID, configID string) (bool, error) {
	return s.repo.Delete(ctx, agentID, configID)
}
