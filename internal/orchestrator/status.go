package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// Progress summarizes task completion counts for a workflow.
type Progress struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	FailedTasks          int     `json:"failed_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// TaskDetail is the per-task view in a status document.
type TaskDetail struct {
	TaskID              string   `json:"task_id"`
	Capability          string   `json:"capability"`
	Status              string   `json:"status"`
	Description         string   `json:"description"`
	ErrorCount          int      `json:"error_count"`
	QualityGateFailures []string `json:"quality_gate_failures,omitempty"`
}

// WorkflowStatus is the full polling document for one workflow.
type WorkflowStatus struct {
	WorkflowID string       `json:"workflow_id"`
	Name       string       `json:"name"`
	Status     string       `json:"status"`
	Progress   Progress     `json:"progress"`
	Tasks      []TaskDetail `json:"tasks"`
	AuditTrail []string     `json:"audit_trail"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// WorkflowStatus computes the status document on demand. It only reads
// workflow state, so it is safe to call while the scheduler is running;
// with no intervening scheduler activity two calls return identical
// progress numbers.
func (o *Orchestrator) WorkflowStatus(ctx context.Context, workflowID string) (*WorkflowStatus, error) {
	o.mu.RLock()
	workflow, ok := o.workflows[workflowID]
	if ok {
		defer o.mu.RUnlock()
		return buildStatus(workflow), nil
	}
	o.mu.RUnlock()

	if o.archive != nil {
		archived, err := o.archive.Get(ctx, workflowID)
		if err == nil && archived != nil {
			return buildStatus(archived), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
}

// WorkflowDAG regenerates the diagnostic DAG from current task state.
func (o *Orchestrator) WorkflowDAG(ctx context.Context, workflowID string) (*models.DAG, error) {
	o.mu.RLock()
	workflow, ok := o.workflows[workflowID]
	if ok {
		defer o.mu.RUnlock()
		return workflow.BuildDAG(), nil
	}
	o.mu.RUnlock()

	if o.archive != nil {
		archived, err := o.archive.Get(ctx, workflowID)
		if err == nil && archived != nil {
			return archived.BuildDAG(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
}

func buildStatus(workflow *models.WorkflowInstance) *WorkflowStatus {
	total := len(workflow.Tasks)
	completedCount := 0
	failedCount := 0
	updatedAt := workflow.CreatedAt
	tasks := make([]TaskDetail, 0, total)

	for _, task := range workflow.Tasks {
		switch task.Status {
		case models.StatusCompleted:
			completedCount++
		case models.StatusFailed:
			failedCount++
		}
		if task.UpdatedAt.After(updatedAt) {
			updatedAt = task.UpdatedAt
		}
		tasks = append(tasks, TaskDetail{
			TaskID:              task.ID,
			Capability:          string(task.Capability),
			Status:              string(task.Status),
			Description:         task.Description,
			ErrorCount:          len(task.ErrorLog),
			QualityGateFailures: task.QualityGateFailures,
		})
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(completedCount) / float64(total) * 100
	}

	audit := make([]string, len(workflow.AuditTrail))
	copy(audit, workflow.AuditTrail)

	return &WorkflowStatus{
		WorkflowID: workflow.ID,
		Name:       workflow.Name,
		Status:     string(workflow.Status),
		Progress: Progress{
			TotalTasks:           total,
			CompletedTasks:       completedCount,
			FailedTasks:          failedCount,
			CompletionPercentage: percentage,
		},
		Tasks:      tasks,
		AuditTrail: audit,
		CreatedAt:  workflow.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
