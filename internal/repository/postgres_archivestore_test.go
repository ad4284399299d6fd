package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

func TestPostgresArchiveStore(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	store := NewPostgresArchiveStore(pool)

	_, err = pool.Exec(ctx, `CREATE TABLE workflow_archive (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		document JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		archived_at TIMESTAMPTZ NOT NULL
	);`)
	if err != nil {
		t.Fatal(err)
	}

	newWorkflow := func(status models.TaskStatus) *models.WorkflowInstance {
		id := uuid.New().String()
		task := models.NewWorkflowTask(id+"_task_0", id, models.CapabilityContentProducer, "research_and_draft", nil, models.PriorityMedium, nil)
		task.Status = status
		wf := models.NewWorkflowInstance(id, "Content Creation Pipeline", "test workflow", []*models.WorkflowTask{task}, models.PriorityMedium)
		wf.Status = status
		wf.AppendAudit("Workflow execution completed")
		return wf
	}

	t.Run("Save and Get", func(t *testing.T) {
		wf := newWorkflow(models.StatusCompleted)

		err := store.Save(ctx, wf)
		assert.NoError(t, err)

		retrieved, err := store.Get(ctx, wf.ID)
		assert.NoError(t, err)
		assert.Equal(t, wf.ID, retrieved.ID)
		assert.Equal(t, wf.Name, retrieved.Name)
		assert.Equal(t, models.StatusCompleted, retrieved.Status)
		assert.Len(t, retrieved.Tasks, 1)
		assert.Equal(t, wf.Tasks[0].ID, retrieved.Tasks[0].ID)
		assert.Equal(t, wf.AuditTrail, retrieved.AuditTrail)
	})

	t.Run("Save is not idempotent", func(t *testing.T) {
		wf := newWorkflow(models.StatusFailed)

		assert.NoError(t, store.Save(ctx, wf))
		assert.Error(t, store.Save(ctx, wf))
	})

	t.Run("List", func(t *testing.T) {
		records, err := store.List(ctx)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, len(records), 2)
		for _, record := range records {
			assert.NotEmpty(t, record.WorkflowID)
			assert.NotEmpty(t, record.Status)
		}
	})
}
