package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/domain"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
	"github.com/evalforge/evalforge/internal/pkg/logger"
	"github.com/evalforge/evalforge/internal/pkg/metrics"
)

// Manager fronts a Store with record serialization and a failure policy.
// Under the "fail" policy a broken backend surfaces as an infrastructure
// error; under "degrade" it is logged and treated as a miss, letting reads
// fall through to the table store.
type Manager struct {
	store  Store
	policy string
}

// NewManager wraps a backend store with the configured failure policy
func NewManager(store Store, policy string) *Manager {
	return &Manager{store: store, policy: policy}
}

func recordKey(agentID, id string) string {
	return "record:" + agentID + ":" + id
}

// GetRecord returns a cached metadata row, if present
func (m *Manager) GetRecord(ctx context.Context, agentID, id string) (*domain.MetadataRecord, bool, error) {
	data, ok, err := m.store.Get(ctx, recordKey(agentID, id))
	if err != nil {
		return nil, false, m.handleFailure("get", err)
	}
	if !ok {
		return nil, false, nil
	}

	var rec domain.MetadataRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt entry is dropped so the next read repopulates it.
		logger.Warn("dropping corrupt cache entry", zap.String("key", recordKey(agentID, id)), zap.Error(err))
		_ = m.store.Delete(ctx, recordKey(agentID, id))
		return nil, false, nil
	}

	metrics.RecordCacheHit(string(rec.Kind))
	return &rec, true, nil
}

// SetRecord populates the cache after a successful table-store read
func (m *Manager) SetRecord(ctx context.Context, rec *domain.MetadataRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record for cache: %w", err)
	}

	if err := m.store.Set(ctx, recordKey(rec.AgentID, rec.ID), data); err != nil {
		return m.handleFailure("set", err)
	}
	return nil
}

// Invalidate removes a row from the cache. Callers invoke it synchronously
// after every table-store write or delete.
func (m *Manager) Invalidate(ctx context.Context, agentID, id string) error {
	if err := m.store.Delete(ctx, recordKey(agentID, id)); err != nil {
		return m.handleFailure("invalidate", err)
	}
	return nil
}

// RecordMiss counts a read that fell through to the table store
func (m *Manager) RecordMiss(kind domain.RecordKind) {
	metrics.RecordCacheMiss(string(kind))
}

func (m *Manager) handleFailure(op string, err error) error {
	if m.policy == config.CachePolicyFail {
		return apperrors.Infrastructure(fmt.Sprintf("cache %s failed", op), err)
	}
	logger.Warn("cache backend degraded", zap.String("operation", op), zap.Error(err))
	return nil
}
