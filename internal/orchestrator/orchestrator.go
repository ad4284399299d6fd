// Package orchestrator contains the workflow orchestration engine: intent
// routing, graph validation, wave-based scheduling, quality gating and
// status reporting for campaign automation workflows.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/troymork/Unburden-America-sub000/internal/agents"
	"github.com/troymork/Unburden-America-sub000/internal/logging"
	"github.com/troymork/Unburden-America-sub000/internal/repository"
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

const (
	defaultTaskTimeout = 2 * time.Minute

	// Advisory completion estimate input, matching the status reporter's
	// per-task planning figure.
	estimatedTaskDuration = 5 * time.Minute
)

// Orchestrator coordinates workflow execution. Construct one explicitly and
// pass it around; there is no process-wide instance, so tests can run
// isolated registries in parallel.
type Orchestrator struct {
	log         *logging.Logger
	executors   map[models.Capability]agents.Executor
	templates   map[string]Template
	taskTimeout time.Duration
	archive     repository.ArchiveStore

	mu        sync.RWMutex
	workflows map[string]*models.WorkflowInstance
	done      map[string]chan struct{}

	workflowsRouted    metric.Int64Counter
	workflowsCompleted metric.Int64Counter
	workflowsFailed    metric.Int64Counter
	tasksExecuted      metric.Int64Counter
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithExecutors replaces the default capability registry.
func WithExecutors(executors map[models.Capability]agents.Executor) Option {
	return func(o *Orchestrator) { o.executors = executors }
}

// WithTemplates replaces the default workflow templates.
func WithTemplates(templates map[string]Template) Option {
	return func(o *Orchestrator) { o.templates = templates }
}

// WithTaskTimeout bounds each dispatched task execution.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.taskTimeout = d }
}

// WithArchiveStore persists terminated workflows as audit records.
func WithArchiveStore(store repository.ArchiveStore) Option {
	return func(o *Orchestrator) { o.archive = store }
}

// New creates an orchestrator with the built-in agents and templates unless
// overridden by options.
func New(log *logging.Logger, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		log:         log,
		executors:   agents.DefaultRegistry(),
		templates:   DefaultTemplates(),
		taskTimeout: defaultTaskTimeout,
		workflows:   make(map[string]*models.WorkflowInstance),
		done:        make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	meter := otel.Meter("github.com/troymork/Unburden-America-sub000/internal/orchestrator")
	var err error
	if o.workflowsRouted, err = meter.Int64Counter("workflows.routed"); err != nil {
		return nil, fmt.Errorf("creating routed counter: %w", err)
	}
	if o.workflowsCompleted, err = meter.Int64Counter("workflows.completed"); err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}
	if o.workflowsFailed, err = meter.Int64Counter("workflows.failed"); err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	if o.tasksExecuted, err = meter.Int64Counter("tasks.executed"); err != nil {
		return nil, fmt.Errorf("creating tasks counter: %w", err)
	}

	return o, nil
}

// RouteResult is the synchronous response to an accepted intent. Execution
// proceeds in the background; callers poll WorkflowStatus afterwards.
type RouteResult struct {
	WorkflowID          string            `json:"workflow_id"`
	Status              string            `json:"status"`
	DAG                 *models.DAG       `json:"workflow_dag"`
	EstimatedCompletion time.Time         `json:"estimated_completion"`
	ResourceAllocation  map[string]any    `json:"resource_allocation"`
	SuccessMetrics      map[string]string `json:"success_metrics"`
	Timestamp           time.Time         `json:"timestamp"`
}

// RouteIntent classifies an intent, instantiates and validates the matching
// workflow template, stores the instance and starts background execution.
// Admission errors are returned synchronously; the workflow is not stored
// when one occurs.
func (o *Orchestrator) RouteIntent(ctx context.Context, intent string, payload map[string]any, priority models.Priority, deadline *time.Time) (*RouteResult, error) {
	workflowID := uuid.New().String()
	o.log.Info("Routing intent %q as workflow %s", intent, workflowID)

	templateName, err := classifyIntent(intent)
	if err != nil {
		return nil, err
	}

	workflow := buildWorkflow(workflowID, o.templates[templateName], intent, payload, priority)
	workflow.Deadline = deadline

	validation, err := o.validateWorkflow(workflow)
	if err != nil {
		o.log.Error("Workflow %s failed validation: %v", workflowID, validation.Errors)
		return nil, err
	}

	o.mu.Lock()
	o.workflows[workflowID] = workflow
	o.done[workflowID] = make(chan struct{})
	o.mu.Unlock()

	o.workflowsRouted.Add(ctx, 1)

	go o.executeWorkflow(workflow)

	return &RouteResult{
		WorkflowID:          workflowID,
		Status:              "accepted",
		DAG:                 workflow.BuildDAG(),
		EstimatedCompletion: o.estimateCompletion(workflow),
		ResourceAllocation:  validation.Resources,
		SuccessMetrics:      successMetrics(),
		Timestamp:           time.Now().UTC(),
	}, nil
}

// Wait blocks until the workflow reaches a terminal status or the context
// is cancelled.
func (o *Orchestrator) Wait(ctx context.Context, workflowID string) error {
	o.mu.RLock()
	ch, ok := o.done[workflowID]
	o.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// estimateCompletion projects a finish time from the number of sequential
// waves the dependency graph implies.
func (o *Orchestrator) estimateCompletion(workflow *models.WorkflowInstance) time.Time {
	waves := dependencyDepth(workflow.Tasks)
	return time.Now().UTC().Add(time.Duration(waves) * estimatedTaskDuration)
}

// dependencyDepth returns the length of the longest dependency chain, which
// equals the number of scheduler waves for a healthy graph.
func dependencyDepth(tasks []*models.WorkflowTask) int {
	byID := make(map[string]*models.WorkflowTask, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	memo := make(map[string]int, len(tasks))
	var depth func(id string) int
	depth = func(id string) int {
		if d, ok := memo[id]; ok {
			return d
		}
		task, ok := byID[id]
		if !ok {
			return 0
		}
		memo[id] = 1 // guards against revisits; graph is validated acyclic
		max := 0
		for _, dep := range task.Dependencies {
			if d := depth(dep); d > max {
				max = d
			}
		}
		memo[id] = max + 1
		return memo[id]
	}

	max := 0
	for _, t := range tasks {
		if d := depth(t.ID); d > max {
			max = d
		}
	}
	return max
}

func successMetrics() map[string]string {
	return map[string]string{
		"completion_rate":          "percentage of tasks completed successfully",
		"quality_score":            "average quality gate scores",
		"compliance_rate":          "percentage of tasks passing compliance review",
		"source_verification_rate": "percentage of content with verified sources",
		"time_to_completion":       "actual vs estimated completion time",
	}
}
