// Package storage defines the two persistence collaborators behind the
// dual-store repositories: a table store holding metadata rows addressed by
// (agentID, id), and a blob store holding content payloads addressed by
// container and path.
package storage

import (
	"context"
	"errors"

	"github.com/evalforge/evalforge/internal/domain"
)

// ErrRecordNotFound is returned by TableStore.Get when no row exists for the key.
var ErrRecordNotFound = errors.New("storage: record not found")

// ErrBlobNotFound is returned by BlobStore.Read when no blob exists at the path.
var ErrBlobNotFound = errors.New("storage: blob not found")

// TableStore is a key-value entity store addressed by (partitionKey = agentID,
// rowKey = id).
type TableStore interface {
	// Get retrieves a single row by key, or ErrRecordNotFound.
	Get(ctx context.Context, agentID, id string) (*domain.MetadataRecord, error)

	// ListByPartition retrieves all rows of one kind within an agent
	// partition. Secondary filtering (name, type) is the caller's job.
	ListByPartition(ctx context.Context, agentID string, kind domain.RecordKind) ([]domain.MetadataRecord, error)

	// InsertOrReplace writes a row, replacing any existing row with the same key.
	InsertOrReplace(ctx context.Context, rec *domain.MetadataRecord) error

	// Delete removes a row, reporting whether a row existed.
	Delete(ctx context.Context, agentID, id string) (bool, error)
}

// BlobStore is a container+path-addressed byte store.
type BlobStore interface {
	// Read returns the blob contents, or ErrBlobNotFound.
	Read(ctx context.Context, container, path string) ([]byte, error)

	// Write stores the blob, overwriting any existing content.
	Write(ctx context.Context, container, path string, data []byte) error

	// Exists reports whether a blob is present at the path.
	Exists(ctx context.Context, container, path string) (bool, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, container, path string) error
}
