// Package repository coordinates the metadata table store and the content
// blob store so each artifact behaves as one logical record. One repository
// instance is created per record kind.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/cache"
	"github.com/evalforge/evalforge/internal/domain"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
	"github.com/evalforge/evalforge/internal/pkg/id"
	"github.com/evalforge/evalforge/internal/pkg/logger"
	"github.com/evalforge/evalforge/internal/storage"
)

// RecordRepository persists one kind of artifact across the table store
// (metadata row) and the blob store (content payload).
type RecordRepository struct {
	kind   domain.RecordKind
	tables storage.TableStore
	blobs  storage.BlobStore
	cache  *cache.Manager
}

// NewRecordRepository creates a repository for one record kind
func NewRecordRepository(kind domain.RecordKind, tables storage.TableStore, blobs storage.BlobStore, cacheMgr *cache.Manager) *RecordRepository {
	return &RecordRepository{
		kind:   kind,
		tables: tables,
		blobs:  blobs,
		cache:  cacheMgr,
	}
}

// Kind returns the record kind this repository persists
func (r *RecordRepository) Kind() domain.RecordKind {
	return r.kind
}

// FindByNaturalKey returns the record matching (agentID, name, type), with
// type compared case-insensitively, or nil if no record matches.
func (r *RecordRepository) FindByNaturalKey(ctx context.Context, agentID, name string, typ *string) (*domain.MetadataRecord, error) {
	records, err := r.tables.ListByPartition(ctx, agentID, r.kind)
	if err != nil {
		return nil, apperrors.Infrastructure("failed to query records", err)
	}

	for i := range records {
		if records[i].MatchesNaturalKey(name, typ) {
			return &records[i], nil
		}
	}
	return nil, nil
}

// Save upserts a record by natural key. An existing record keeps its id,
// blob path, and creation audit fields; content is overwritten either way.
// The upsert is read-then-write, not transactional: two concurrent Saves
// for the same natural key can race and create duplicate records.
// TODO: guard the upsert with a conditional write once the table store
// exposes one.
func (r *RecordRepository) Save(ctx context.Context, draft *domain.MetadataRecord, content any, auditUser string) (*domain.MetadataRecord, error) {
	if strings.TrimSpace(draft.AgentID) == "" {
		return nil, apperrors.Validation("agentId is required")
	}
	if strings.TrimSpace(draft.Name) == "" {
		return nil, apperrors.Validation("name is required")
	}

	existing, err := r.FindByNaturalKey(ctx, draft.AgentID, draft.Name, draft.Type)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := *draft
	rec.Kind = r.kind
	rec.LastUpdatedBy = auditUser
	rec.LastUpdatedOn = now

	if existing != nil {
		rec.ID = existing.ID
		rec.ContainerName = existing.ContainerName
		rec.BlobPath = existing.BlobPath
		rec.CreatedBy = existing.CreatedBy
		rec.CreatedOn = existing.CreatedOn
	} else {
		container, err := storage.SanitizeContainerName(draft.AgentID)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		rec.ID = id.NewUUID()
		rec.ContainerName = container
		rec.BlobPath = blobPath(r.kind, draft.Type, draft.Name, rec.ID)
		rec.CreatedBy = auditUser
		rec.CreatedOn = now
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, apperrors.Internal("failed to serialize content").WithError(err)
	}

	if err := r.blobs.Write(ctx, rec.ContainerName, rec.BlobPath, data); err != nil {
		return nil, apperrors.Infrastructure("failed to write content blob", err)
	}
	if err := r.tables.InsertOrReplace(ctx, &rec); err != nil {
		return nil, apperrors.Infrastructure("failed to write metadata row", err)
	}

	if err := r.cache.Invalidate(ctx, rec.AgentID, rec.ID); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateRow replaces a metadata row without touching the content blob.
// The caller is responsible for audit-field hygiene.
func (r *RecordRepository) UpdateRow(ctx context.Context, rec *domain.MetadataRecord) error {
	if err := r.tables.InsertOrReplace(ctx, rec); err != nil {
		return apperrors.Infrastructure("failed to write metadata row", err)
	}
	return r.cache.Invalidate(ctx, rec.AgentID, rec.ID)
}

// GetByID returns the metadata row, reading through the cache
func (r *RecordRepository) GetByID(ctx context.Context, agentID, recordID string) (*domain.MetadataRecord, error) {
	if cached, ok, err := r.cache.GetRecord(ctx, agentID, recordID); err != nil {
		return nil, err
	} else if ok {
		return cached, nil
	}
	r.cache.RecordMiss(r.kind)

	rec, err := r.tables.Get(ctx, agentID, recordID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, apperrors.NotFound(string(r.kind))
		}
		return nil, apperrors.Infrastructure("failed to read metadata row", err)
	}

	if err := r.cache.SetRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all metadata rows for an agent
func (r *RecordRepository) List(ctx context.Context, agentID string) ([]domain.MetadataRecord, error) {
	records, err := r.tables.ListByPartition(ctx, agentID, r.kind)
	if err != nil {
		return nil, apperrors.Infrastructure("failed to query records", err)
	}
	return records, nil
}

// GetContent loads and deserializes the content payload into out. A missing
// row is NotFound; a missing or empty blob behind a live row is a data
// integrity failure; malformed JSON is a deserialization failure wrapping
// the parse error.
func (r *RecordRepository) GetContent(ctx context.Context, agentID, recordID string, out any) error {
	rec, err := r.GetByID(ctx, agentID, recordID)
	if err != nil {
		return err
	}

	data, err := r.blobs.Read(ctx, rec.ContainerName, rec.BlobPath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return apperrors.DataIntegrity(fmt.Sprintf("%s %s has no content blob at %s", r.kind, recordID, rec.BlobPath))
		}
		return apperrors.Infrastructure("failed to read content blob", err)
	}
	if len(data) == 0 {
		return apperrors.DataIntegrity(fmt.Sprintf("%s %s has an empty content blob at %s", r.kind, recordID, rec.BlobPath))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Deserialization(fmt.Sprintf("%s %s content is not valid JSON", r.kind, recordID), err)
	}
	return nil
}

// Exists reports whether a metadata row exists for the id
func (r *RecordRepository) Exists(ctx context.Context, agentID, recordID string) (bool, error) {
	_, err := r.GetByID(ctx, agentID, recordID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the metadata row and then the blob. Row deletion is
// authoritative: blob-deletion failures are logged and swallowed. A missing
// id returns false without touching the blob store.
func (r *RecordRepository) Delete(ctx context.Context, agentID, recordID string) (bool, error) {
	rec, err := r.tables.Get(ctx, agentID, recordID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Infrastructure("failed to read metadata row", err)
	}

	deleted, err := r.tables.Delete(ctx, agentID, recordID)
	if err != nil {
		return false, apperrors.Infrastructure("failed to delete metadata row", err)
	}
	if !deleted {
		return false, nil
	}

	if err := r.cache.Invalidate(ctx, agentID, recordID); err != nil {
		return false, err
	}

	if err := r.blobs.Delete(ctx, rec.ContainerName, rec.BlobPath); err != nil {
		logger.Warn("failed to delete content blob",
			zap.String("kind", string(r.kind)),
			zap.String("record_id", recordID),
			zap.String("blob_path", rec.BlobPath),
			zap.Error(err),
		)
	}
	return true, nil
}

func blobPath(kind domain.RecordKind, typ *string, name, recordID string) string {
	segment := kind.Segment()
	if typ != nil && strings.TrimSpace(*typ) != "" {
		segment += "/" + strings.ToLower(strings.TrimSpace(*typ))
	}
	return fmt.Sprintf("%s/%s-%s.json", segment, name, recordID)
}
