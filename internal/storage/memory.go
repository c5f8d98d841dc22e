package storage

import (
	"context"
	"sync"

	"github.com/evalforge/evalforge/internal/domain"
)

// MemoryTableStore is an in-process TableStore used in tests and local runs.
type MemoryTableStore struct {
	mu   sync.RWMutex
	rows map[string]map[string]domain.MetadataRecord // agentID -> id -> row
}

// NewMemoryTableStore creates an empty in-memory table store
func NewMemoryTableStore() *MemoryTableStore {
	return &MemoryTableStore{rows: make(map[string]map[string]domain.MetadataRecord)}
}

// Get retrieves a single row by key
func (s *MemoryTableStore) Get(ctx context.Context, agentID, id string) (*domain.MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rows[agentID][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := rec
	return &out, nil
}

// ListByPartition retrieves all rows of one kind within an agent partition
func (s *MemoryTableStore) ListByPartition(ctx context.Context, agentID string, kind domain.RecordKind) ([]domain.MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.MetadataRecord
	for _, rec := range s.rows[agentID] {
		if rec.Kind == kind {
			records = append(records, rec)
		}
	}
	return records, nil
}

// InsertOrReplace writes a row, replacing any existing row with the same key
func (s *MemoryTableStore) InsertOrReplace(ctx context.Context, rec *domain.MetadataRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rows[rec.AgentID] == nil {
		s.rows[rec.AgentID] = make(map[string]domain.MetadataRecord)
	}
	s.rows[rec.AgentID][rec.ID] = *rec
	return nil
}

// Delete removes a row, reporting whether a row existed
func (s *MemoryTableStore) Delete(ctx context.Context, agentID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[agentID][id]; !ok {
		return false, nil
	}
	delete(s.rows[agentID], id)
	return true, nil
}

// MemoryBlobStore is an in-process BlobStore used in tests and local runs.
// Call counters are exposed so tests can assert on collaborator traffic.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	ReadCalls   int
	WriteCalls  int
	DeleteCalls int
}

// NewMemoryBlobStore creates an empty in-memory blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Read returns the blob contents, or ErrBlobNotFound
func (s *MemoryBlobStore) Read(ctx context.Context, container, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ReadCalls++
	data, ok := s.blobs[objectKey(container, path)]
	if !ok {
		return nil, ErrBlobNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores the blob, overwriting any existing content
func (s *MemoryBlobStore) Write(ctx context.Context, container, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WriteCalls++
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[objectKey(container, path)] = stored
	return nil
}

// Exists reports whether a blob is present at the path
func (s *MemoryBlobStore) Exists(ctx context.Context, container, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.blobs[objectKey(container, path)]
	return ok, nil
}

// Delete removes the blob
func (s *MemoryBlobStore) Delete(ctx context.Context, container, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.DeleteCalls++
	delete(s.blobs, objectKey(container, path))
	return nil
}

// Put seeds a blob directly, bypassing call counters.
func (s *MemoryBlobStore) Put(container, path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[objectKey(container, path)] = data
}
