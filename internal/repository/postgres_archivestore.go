package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// PostgresArchiveStore is a PostgreSQL implementation of the ArchiveStore
// interface. The full workflow document is stored as JSONB next to a few
// queryable summary columns.
type PostgresArchiveStore struct {
	db *pgxpool.Pool
}

// NewPostgresArchiveStore creates a new PostgresArchiveStore.
func NewPostgresArchiveStore(db *pgxpool.Pool) *PostgresArchiveStore {
	return &PostgresArchiveStore{db: db}
}

// Save stores a terminated workflow as an immutable audit record.
func (s *PostgresArchiveStore) Save(ctx context.Context, workflow *models.WorkflowInstance) error {
	document, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("marshaling workflow %s: %w", workflow.ID, err)
	}

	_, err = s.db.Exec(ctx,
		"INSERT INTO workflow_archive (id, name, status, priority, document, created_at, archived_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		workflow.ID, workflow.Name, string(workflow.Status), string(workflow.Priority), document, workflow.CreatedAt, time.Now().UTC(),
	)
	return err
}

// Get retrieves an archived workflow by its id.
func (s *PostgresArchiveStore) Get(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	var document []byte
	err := s.db.QueryRow(ctx, "SELECT document FROM workflow_archive WHERE id = $1", workflowID).Scan(&document)
	if err != nil {
		return nil, err
	}

	var workflow models.WorkflowInstance
	if err := json.Unmarshal(document, &workflow); err != nil {
		return nil, fmt.Errorf("unmarshaling workflow %s: %w", workflowID, err)
	}
	return &workflow, nil
}

// List returns summary rows for every archived workflow, newest first.
func (s *PostgresArchiveStore) List(ctx context.Context) ([]*ArchiveRecord, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, status, priority FROM workflow_archive ORDER BY archived_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*ArchiveRecord
	for rows.Next() {
		var record ArchiveRecord
		if err := rows.Scan(&record.WorkflowID, &record.Name, &record.Status, &record.Priority); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
