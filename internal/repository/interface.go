package repository

import (
	"context"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// ArchiveRecord is a summary row for a terminated workflow.
type ArchiveRecord struct {
	WorkflowID string
	Name       string
	Status     string
	Priority   string
}

// ArchiveStore persists workflows that reached a terminal status as
// immutable audit records. Live scheduling state never depends on it; the
// archive is write-through audit, not recovery.
type ArchiveStore interface {
	// Save stores a terminated workflow. Saving the same id twice is an error.
	Save(ctx context.Context, workflow *models.WorkflowInstance) error
	// Get retrieves an archived workflow by its id.
	Get(ctx context.Context, workflowID string) (*models.WorkflowInstance, error)
	// List returns summary rows for every archived workflow.
	List(ctx context.Context) ([]*ArchiveRecord, error)
}
