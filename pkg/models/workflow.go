package models

import (
	"time"
)

// WorkflowTask is a single unit of delegated work inside a workflow.
type WorkflowTask struct {
	ID                  string         `json:"task_id"`
	WorkflowID          string         `json:"workflow_id"`
	Capability          Capability     `json:"capability"`
	Description         string         `json:"description"`
	Inputs              map[string]any `json:"inputs"`
	Outputs             map[string]any `json:"outputs,omitempty"`
	Status              TaskStatus     `json:"status"`
	Priority            Priority       `json:"priority"`
	Dependencies        []string       `json:"dependencies"`
	ErrorLog            []string       `json:"error_log,omitempty"`
	VerificationSources []string       `json:"verification_sources,omitempty"`
	ComplianceNotes     string         `json:"compliance_notes,omitempty"`
	QualityGateFailures []string       `json:"quality_gate_failures,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NewWorkflowTask creates a pending task with timestamps set explicitly.
// The scheduler owns all subsequent mutation.
func NewWorkflowTask(id, workflowID string, capability Capability, description string, inputs map[string]any, priority Priority, dependencies []string) *WorkflowTask {
	if inputs == nil {
		inputs = map[string]any{}
	}
	if dependencies == nil {
		dependencies = []string{}
	}
	now := time.Now().UTC()
	return &WorkflowTask{
		ID:           id,
		WorkflowID:   workflowID,
		Capability:   capability,
		Description:  description,
		Inputs:       inputs,
		Status:       StatusPending,
		Priority:     priority,
		Dependencies: dependencies,
		ErrorLog:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Touch advances the task's updated timestamp, never moving it backwards.
func (t *WorkflowTask) Touch() {
	if now := time.Now().UTC(); now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
}

// WorkflowInstance is one execution of a template against a concrete intent.
// It owns its tasks exclusively; nothing is shared across workflows.
type WorkflowInstance struct {
	ID                  string          `json:"workflow_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Tasks               []*WorkflowTask `json:"tasks"`
	Status              TaskStatus      `json:"status"`
	Priority            Priority        `json:"priority"`
	CreatedAt           time.Time       `json:"created_at"`
	Deadline            *time.Time      `json:"deadline,omitempty"`
	BrandGuidelines     map[string]any  `json:"brand_guidelines,omitempty"`
	ResourceConstraints map[string]any  `json:"resource_constraints,omitempty"`
	AuditTrail          []string        `json:"audit_trail"`
}

// NewWorkflowInstance creates a pending workflow owning the given tasks.
func NewWorkflowInstance(id, name, description string, tasks []*WorkflowTask, priority Priority) *WorkflowInstance {
	return &WorkflowInstance{
		ID:          id,
		Name:        name,
		Description: description,
		Tasks:       tasks,
		Status:      StatusPending,
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
		AuditTrail:  []string{},
	}
}

// Task returns the task with the given id, or nil.
func (w *WorkflowInstance) Task(id string) *WorkflowTask {
	for _, t := range w.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AppendAudit records a timestamped human-readable event.
func (w *WorkflowInstance) AppendAudit(event string) {
	w.AuditTrail = append(w.AuditTrail, event+" at "+time.Now().UTC().Format(time.RFC3339))
}

// DAGNode is one task in the diagnostic DAG representation.
type DAGNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// DAG is a plain adjacency-list view of a workflow, regenerable at any
// time from current task state.
type DAG struct {
	Nodes []DAGNode   `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

// BuildDAG generates the DAG representation for a workflow.
func (w *WorkflowInstance) BuildDAG() *DAG {
	dag := &DAG{Nodes: make([]DAGNode, 0, len(w.Tasks)), Edges: [][2]string{}}
	for _, task := range w.Tasks {
		dag.Nodes = append(dag.Nodes, DAGNode{
			ID:          task.ID,
			Label:       string(task.Capability),
			Description: task.Description,
			Status:      string(task.Status),
		})
		for _, dep := range task.Dependencies {
			dag.Edges = append(dag.Edges, [2]string{dep, task.ID})
		}
	}
	return dag
}
