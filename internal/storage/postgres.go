package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/pkg/database"
	"github.com/evalforge/evalforge/internal/pkg/metrics"
)

// PostgresTableStore implements TableStore on a PostgreSQL records table
// keyed by (agent_id, id).
type PostgresTableStore struct {
	db *database.PostgresDB
}

// NewPostgresTableStore creates a new Postgres-backed table store
func NewPostgresTableStore(db *database.PostgresDB) *PostgresTableStore {
	return &PostgresTableStore{db: db}
}

const recordColumns = `agent_id, id, kind, name, type, container_name, blob_path,
		created_by, created_on, last_updated_by, last_updated_on,
		status, dataset_id, metrics_configuration_id`

// Get retrieves a single row by key
func (s *PostgresTableStore) Get(ctx context.Context, agentID, id string) (*domain.MetadataRecord, error) {
	start := time.Now()
	query := `SELECT ` + recordColumns + ` FROM records WHERE agent_id = $1 AND id = $2`

	rec, err := scanRecord(s.db.Pool.QueryRow(ctx, query, agentID, id))
	metrics.RecordStorageOp("table", "get", time.Since(start), err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// ListByPartition retrieves all rows of one kind within an agent partition
func (s *PostgresTableStore) ListByPartition(ctx context.Context, agentID string, kind domain.RecordKind) ([]domain.MetadataRecord, error) {
	start := time.Now()
	query := `SELECT ` + recordColumns + ` FROM records WHERE agent_id = $1 AND kind = $2`

	rows, err := s.db.Pool.Query(ctx, query, agentID, string(kind))
	metrics.RecordStorageOp("table", "list", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []domain.MetadataRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return records, nil
}

// InsertOrReplace writes a row, replacing any existing row with the same key
func (s *PostgresTableStore) InsertOrReplace(ctx context.Context, rec *domain.MetadataRecord) error {
	start := time.Now()
	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (agent_id, id) DO UPDATE SET
			kind = EXCLUDED.kind,
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			container_name = EXCLUDED.container_name,
			blob_path = EXCLUDED.blob_path,
			created_by = EXCLUDED.created_by,
			created_on = EXCLUDED.created_on,
			last_updated_by = EXCLUDED.last_updated_by,
			last_updated_on = EXCLUDED.last_updated_on,
			status = EXCLUDED.status,
			dataset_id = EXCLUDED.dataset_id,
			metrics_configuration_id = EXCLUDED.metrics_configuration_id
	`

	_, err := s.db.Pool.Exec(ctx, query,
		rec.AgentID,
		rec.ID,
		string(rec.Kind),
		rec.Name,
		rec.Type,
		rec.ContainerName,
		rec.BlobPath,
		rec.CreatedBy,
		rec.CreatedOn,
		rec.LastUpdatedBy,
		rec.LastUpdatedOn,
		string(rec.Status),
		rec.DataSetID,
		rec.MetricsConfigurationID,
	)
	metrics.RecordStorageOp("table", "upsert", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}

	return nil
}

// Delete removes a row, reporting whether a row existed
func (s *PostgresTableStore) Delete(ctx context.Context, agentID, id string) (bool, error) {
	start := time.Now()
	query := `DELETE FROM records WHERE agent_id = $1 AND id = $2`

	tag, err := s.db.Pool.Exec(ctx, query, agentID, id)
	metrics.RecordStorageOp("table", "delete", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.MetadataRecord, error) {
	var rec domain.MetadataRecord
	var kind, status string

	err := row.Scan(
		&rec.AgentID,
		&rec.ID,
		&kind,
		&rec.Name,
		&rec.Type,
		&rec.ContainerName,
		&rec.BlobPath,
		&rec.CreatedBy,
		&rec.CreatedOn,
		&rec.LastUpdatedBy,
		&rec.LastUpdatedOn,
		&status,
		&rec.DataSetID,
		&rec.MetricsConfigurationID,
	)
	if err != nil {
		return nil, err
	}

	rec.Kind = domain.RecordKind(kind)
	rec.Status = domain.EvalRunStatus(status)
	return &rec, nil
}
