package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/evalforge/internal/cache"
	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/identity"
	"github.com/evalforge/evalforge/internal/repository"
	"github.com/evalforge/evalforge/internal/storage"
)

func newDatasetService(t *testing.T) *DatasetService {
	t.Helper()
	tables := storage.NewMemoryTableStore()
	blobs := storage.NewMemoryBlobStore()
	mgr := cache.NewManager(cache.NewMemoryStore(64, time.Minute), config.CachePolicyDegrade)
	repo := repository.NewRecordRepository(domain.RecordKindDataSet, tables, blobs, mgr)
	return NewDatasetService(repo, identity.NewResolver())
}

func TestDatasetSaveNormalizesRowOrder(t *testing.T) {
	ctx := context.Background()
	svc := newDatasetService(t)

	c1 := "c1"
	input := &DatasetInput{
		AgentID: "agent-1",
		Name:    "golden",
		Rows: []domain.DatasetRow{
			{Prompt: "turn-1", ConversationID: &c1, TurnIndex: intPtr(1)},
			{Prompt: "standalone"},
			{Prompt: "turn-0", ConversationID: &c1, TurnIndex: intPtr(0)},
		},
	}

	rec, err := svc.Save(ctx, userCaller{email: "ana@example.com"}, input)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", rec.CreatedBy)

	rows, err := svc.GetRows(ctx, "agent-1", rec.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "standalone", rows[0].Prompt)
	assert.Equal(t, "turn-0", rows[1].Prompt)
	assert.Equal(t, "turn-1", rows[2].Prompt)
}

func TestDatasetSaveStampsSystemForUnresolvableCaller(t *testing.T) {
	ctx := context.Background()
	svc := newDatasetService(t)

	rec, err := svc.Save(ctx, nil, &DatasetInput{
		AgentID: "agent-1",
		Name:    "golden",
		Rows:    []domain.DatasetRow{},
	})
	require.NoError(t, err)
	assert.Equal(t, identity.SystemIdentity, rec.CreatedBy)
}

func TestDatasetDelete(t *testing.T) {
	ctx := context.Background()
	svc := newDatasetService(t)

	rec, err := svc.Save(ctx, nil, &DatasetInput{
		AgentID: "agent-1",
		Name:    "golden",
		Rows:    []domain.DatasetRow{},
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "agent-1", rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, "agent-1", rec.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
