package service

import (
	"context"

	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/identity"
)

// RecordStore defines the dual-store repository operations the services
// depend on.
type RecordStore interface {
	FindByNaturalKey(ctx context.Context, agentID, name string, typ *string) (*domain.MetadataRecord, error)
	Save(ctx context.Context, draft *domain.MetadataRecord, content any, auditUser string) (*domain.MetadataRecord, error)
	UpdateRow(ctx context.Context, rec *domain.MetadataRecord) error
	GetByID(ctx context.Context, agentID, recordID string) (*domain.MetadataRecord, error)
	List(ctx context.Context, agentID string) ([]domain.MetadataRecord, error)
	GetContent(ctx context.Context, agentID, recordID string, out any) error
	Exists(ctx context.Context, agentID, recordID string) (bool, error)
	Delete(ctx context.Context, agentID, recordID string) (bool, error)
}

// DatasetInput represents input for saving a dataset
type DatasetInput struct {
	AgentID string              `json:"agentId" validate:"required"`
	Name    string              `json:"name" validate:"required"`
	Type    *string             `json:"type,omitempty"`
	Rows    []domain.DatasetRow `json:"rows" validate:"required"`
}

// DatasetService handles dataset artifacts
type DatasetService struct {
	repo     RecordStore
	resolver *identity.Resolver
}

// NewDatasetService creates a new dataset service
func NewDatasetService(repo RecordStore, resolver *identity.Resolver) *DatasetService {
	return &DatasetService{repo: repo, resolver: resolver}
}

// Save upserts a dataset by natural key. Rows are reordered by conversation
// before they are persisted, so stored content is always normalized.
func (s *DatasetService) Save(ctx context.Context, cc identity.CallerContext, input *DatasetInput) (*domain.MetadataRecord, error) {
	draft := &domain.MetadataRecord{
		AgentID: input.AgentID,
		Name:    input.Name,
		Type:    input.Type,
	}
	rows := NormalizeDatasetOrder(input.Rows)
	return s.repo.Save(ctx, draft, rows, s.resolver.Resolve(cc))
}

// Get returns a dataset's metadata record
func (s *DatasetService) Get(ctx context.Context, agentID, datasetID string) (*domain.MetadataRecord, error) {
	return s.repo.GetByID(ctx, agentID, datasetID)
}

// List returns all dataset metadata records for an agent
func (s *DatasetService) List(ctx context.Context, agentID string) ([]domain.MetadataRecord, error) {
	return s.repo.List(ctx, agentID)
}

// GetRows returns a dataset's content payload
func (s *DatasetService) GetRows(ctx context.Context, agentID, datasetID string) ([]domain.DatasetRow, error) {
	var rows []domain.DatasetRow
	if err := s.repo.GetContent(ctx, agentID, datasetID, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a dataset, reporting whether it existed
func (s *DatasetService) Delete(ctx context.Context, agentID, datasetID string) (bool, error) {
	return s.repo.Delete(ctx, agentID, datasetID)
}
