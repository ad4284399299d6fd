package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troymork/Unburden-America-sub000/internal/agents"
	"github.com/troymork/Unburden-America-sub000/internal/logging"
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

func succeedingExecutor() agents.Executor {
	return agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
		return &models.AgentResult{
			AgentID:       "stub",
			Status:        models.AgentStatusCompleted,
			PrimaryOutput: map[string]any{"ok": true},
			QualityScores: map[string]float64{"quality": 0.9},
			SourcesUsed: []models.Source{
				{URL: "https://one.example.gov", ReliabilityScore: 0.9},
				{URL: "https://two.example.org", ReliabilityScore: 0.8},
			},
			CreatedAt: time.Now().UTC(),
		}, nil
	})
}

// stubRegistry maps every capability to the same executor.
func stubRegistry(exec agents.Executor) map[models.Capability]agents.Executor {
	registry := make(map[models.Capability]agents.Executor)
	for _, c := range models.AllCapabilities() {
		registry[c] = exec
	}
	return registry
}

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{WithTaskTimeout(5 * time.Second)}, opts...)
	orch, err := New(logging.NewLogger(), opts...)
	require.NoError(t, err)
	return orch
}

// registerChain builds a linear workflow of n tasks and registers it
// directly with the orchestrator, bypassing intent routing.
func registerChain(orch *Orchestrator, workflowID string, n int, priority models.Priority) *models.WorkflowInstance {
	tasks := make([]*models.WorkflowTask, 0, n)
	for i := 0; i < n; i++ {
		var deps []string
		if i > 0 {
			deps = []string{taskID(workflowID, i-1)}
		}
		tasks = append(tasks, models.NewWorkflowTask(
			taskID(workflowID, i), workflowID,
			models.CapabilityContentProducer,
			fmt.Sprintf("step %d", i), nil, priority, deps,
		))
	}
	wf := models.NewWorkflowInstance(workflowID, "test", "test workflow", tasks, priority)
	orch.mu.Lock()
	orch.workflows[workflowID] = wf
	orch.done[workflowID] = make(chan struct{})
	orch.mu.Unlock()
	return wf
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		intent   string
		template string
	}{
		{"please write an article about X", TemplateContentCreation},
		{"Create content about monetary flow tax", TemplateContentCreation},
		{"Launch social media campaign", TemplateSocialMediaCampaign},
		{"collect petition signatures", TemplatePetitionOptimization},
		{"set up a donation page", TemplateFundraisingCampaign},
		{"plan", TemplateContentCreation},
		{"strategy", TemplateContentCreation},
	}
	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			got, err := classifyIntent(tt.intent)
			require.NoError(t, err)
			assert.Equal(t, tt.template, got)
		})
	}

	_, err := classifyIntent("order a pizza")
	assert.ErrorIs(t, err, ErrUnroutableIntent)
}

func TestRouteIntentAcceptsAndCompletes(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))
	ctx := context.Background()

	result, err := orch.RouteIntent(ctx, "write an article about the monetary flow tax", map[string]any{"topic": "flow tax"}, models.PriorityHigh, nil)
	require.NoError(t, err)
	assert.Equal(t, "accepted", result.Status)
	assert.NotEmpty(t, result.WorkflowID)
	require.NotNil(t, result.DAG)

	// content_creation has six linearly chained phases
	assert.Len(t, result.DAG.Nodes, 6)
	assert.Len(t, result.DAG.Edges, 5)
	assert.True(t, result.EstimatedCompletion.After(time.Now()))

	require.NoError(t, orch.Wait(ctx, result.WorkflowID))

	status, err := orch.WorkflowStatus(ctx, result.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCompleted), status.Status)
	assert.Equal(t, 100.0, status.Progress.CompletionPercentage)
	assert.Equal(t, 6, status.Progress.CompletedTasks)
}

func TestRouteIntentUnroutable(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))

	_, err := orch.RouteIntent(context.Background(), "order a pizza", nil, models.PriorityMedium, nil)
	assert.ErrorIs(t, err, ErrUnroutableIntent)

	// Nothing was stored.
	orch.mu.RLock()
	assert.Empty(t, orch.workflows)
	orch.mu.RUnlock()
}

func TestRouteIntentExpiredDeadline(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))

	past := time.Now().Add(-time.Hour)
	_, err := orch.RouteIntent(context.Background(), "write an article", nil, models.PriorityMedium, &past)
	assert.ErrorIs(t, err, ErrExpiredDeadline)

	orch.mu.RLock()
	assert.Empty(t, orch.workflows)
	orch.mu.RUnlock()
}

func TestLinearWorkflowCompletes(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))
	wf := registerChain(orch, "wf-linear", 3, models.PriorityMedium)

	orch.executeWorkflow(wf)

	assert.Equal(t, models.StatusCompleted, wf.Status)
	for _, task := range wf.Tasks {
		assert.Equal(t, models.StatusCompleted, task.Status)
		assert.NotEmpty(t, task.Outputs)
	}

	// Audit trail records completions in dependency order.
	var completions []string
	for _, entry := range wf.AuditTrail {
		for _, task := range wf.Tasks {
			if strings.HasPrefix(entry, "Task "+task.ID+" completed") {
				completions = append(completions, task.ID)
			}
		}
	}
	require.Len(t, completions, 3)
	assert.Equal(t, []string{taskID("wf-linear", 0), taskID("wf-linear", 1), taskID("wf-linear", 2)}, completions)
}

func TestHighPriorityFailureAbortsWorkflow(t *testing.T) {
	calls := make(map[string]int)
	var mu sync.Mutex
	exec := agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
		step, _ := inputs["step"].(string)
		mu.Lock()
		calls[step]++
		mu.Unlock()
		if step == "b" {
			return nil, errors.New("upstream service exploded")
		}
		return succeedingExecutor().Execute(ctx, inputs)
	})

	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(exec)))
	wf := registerChain(orch, "wf-abort", 3, models.PriorityHigh)
	wf.Tasks[0].Inputs["step"] = "a"
	wf.Tasks[1].Inputs["step"] = "b"
	wf.Tasks[2].Inputs["step"] = "c"

	orch.executeWorkflow(wf)

	assert.Equal(t, models.StatusFailed, wf.Status)
	assert.Equal(t, models.StatusCompleted, wf.Tasks[0].Status)
	assert.Equal(t, models.StatusFailed, wf.Tasks[1].Status)
	assert.NotEmpty(t, wf.Tasks[1].ErrorLog)

	// The downstream task never left pending and was never dispatched.
	assert.Equal(t, models.StatusPending, wf.Tasks[2].Status)
	mu.Lock()
	assert.Zero(t, calls["c"])
	mu.Unlock()
}

func TestLowPriorityFailureBlocksDependents(t *testing.T) {
	exec := agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
		if fail, _ := inputs["fail"].(bool); fail {
			return nil, errors.New("transient failure")
		}
		return succeedingExecutor().Execute(ctx, inputs)
	})

	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(exec)))
	wf := registerChain(orch, "wf-block", 2, models.PriorityLow)
	wf.Tasks[0].Inputs["fail"] = true

	orch.executeWorkflow(wf)

	// A low priority failure does not abort the workflow, but its dependent
	// can never become ready, so the workflow stalls into blocked.
	assert.Equal(t, models.StatusBlocked, wf.Status)
	assert.Equal(t, models.StatusFailed, wf.Tasks[0].Status)
	assert.Equal(t, models.StatusPending, wf.Tasks[1].Status)
}

func TestLowPriorityFailureWithoutDependentsFails(t *testing.T) {
	exec := agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
		if fail, _ := inputs["fail"].(bool); fail {
			return nil, errors.New("transient failure")
		}
		return succeedingExecutor().Execute(ctx, inputs)
	})

	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(exec)))

	// Two independent tasks; one fails at low priority.
	workflowID := "wf-soft-fail"
	tasks := []*models.WorkflowTask{
		models.NewWorkflowTask(taskID(workflowID, 0), workflowID, models.CapabilityContentProducer, "a", map[string]any{"fail": true}, models.PriorityLow, nil),
		models.NewWorkflowTask(taskID(workflowID, 1), workflowID, models.CapabilityContentProducer, "b", nil, models.PriorityLow, nil),
	}
	wf := models.NewWorkflowInstance(workflowID, "test", "test", tasks, models.PriorityLow)
	orch.mu.Lock()
	orch.workflows[workflowID] = wf
	orch.done[workflowID] = make(chan struct{})
	orch.mu.Unlock()

	orch.executeWorkflow(wf)

	// All tasks terminal, not all completed: failed, not blocked.
	assert.Equal(t, models.StatusFailed, wf.Status)
	assert.Equal(t, models.StatusFailed, wf.Tasks[0].Status)
	assert.Equal(t, models.StatusCompleted, wf.Tasks[1].Status)
}

func TestIndependentTasksShareAWave(t *testing.T) {
	// Both executors block until the other has started, which only
	// resolves if the scheduler dispatched them in the same wave.
	arrivals := make(chan struct{}, 2)
	release := make(chan struct{})
	var once sync.Once

	exec := agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
		arrivals <- struct{}{}
		if len(arrivals) == 2 {
			once.Do(func() { close(release) })
		}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return succeedingExecutor().Execute(ctx, inputs)
	})

	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(exec)))

	workflowID := "wf-wave"
	tasks := []*models.WorkflowTask{
		models.NewWorkflowTask(taskID(workflowID, 0), workflowID, models.CapabilityContentProducer, "a", nil, models.PriorityMedium, nil),
		models.NewWorkflowTask(taskID(workflowID, 1), workflowID, models.CapabilityContentProducer, "b", nil, models.PriorityMedium, nil),
	}
	wf := models.NewWorkflowInstance(workflowID, "test", "test", tasks, models.PriorityMedium)
	orch.mu.Lock()
	orch.workflows[workflowID] = wf
	orch.done[workflowID] = make(chan struct{})
	orch.mu.Unlock()

	orch.executeWorkflow(wf)

	assert.Equal(t, models.StatusCompleted, wf.Status)
	assert.Equal(t, models.StatusCompleted, wf.Tasks[0].Status)
	assert.Equal(t, models.StatusCompleted, wf.Tasks[1].Status)
}

func TestUnknownDependencyBlocksWorkflow(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))

	workflowID := "wf-ghost-dep"
	task := models.NewWorkflowTask(taskID(workflowID, 0), workflowID, models.CapabilityContentProducer, "a", nil, models.PriorityMedium, []string{"no-such-task"})
	wf := models.NewWorkflowInstance(workflowID, "test", "test", []*models.WorkflowTask{task}, models.PriorityMedium)
	orch.mu.Lock()
	orch.workflows[workflowID] = wf
	orch.done[workflowID] = make(chan struct{})
	orch.mu.Unlock()

	orch.executeWorkflow(wf)

	assert.Equal(t, models.StatusBlocked, wf.Status)
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestStatusQueriesAreIdempotent(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))
	ctx := context.Background()

	result, err := orch.RouteIntent(ctx, "write a blog post", nil, models.PriorityMedium, nil)
	require.NoError(t, err)
	require.NoError(t, orch.Wait(ctx, result.WorkflowID))

	first, err := orch.WorkflowStatus(ctx, result.WorkflowID)
	require.NoError(t, err)
	second, err := orch.WorkflowStatus(ctx, result.WorkflowID)
	require.NoError(t, err)

	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.AuditTrail, second.AuditTrail)
}

func TestWorkflowStatusNotFound(t *testing.T) {
	orch := newTestOrchestrator(t)

	_, err := orch.WorkflowStatus(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)

	_, err = orch.WorkflowDAG(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestQualityGateFailureIsAdvisory(t *testing.T) {
	exec := agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
		return &models.AgentResult{
			AgentID:       "weak",
			Status:        models.AgentStatusCompleted,
			PrimaryOutput: map[string]any{"content": "draft"},
			QualityScores: map[string]float64{"readability": 0.4},
			SourcesUsed:   []models.Source{{URL: "https://only-one.example.org"}},
			CreatedAt:     time.Now().UTC(),
		}, nil
	})

	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(exec)))
	wf := registerChain(orch, "wf-gates", 1, models.PriorityHigh)

	orch.executeWorkflow(wf)

	task := wf.Tasks[0]
	assert.Equal(t, models.StatusCompleted, task.Status)
	assert.NotEmpty(t, task.Outputs)
	assert.NotEmpty(t, task.QualityGateFailures)
	assert.Equal(t, "needs_review", task.Outputs["status"])
	assert.Equal(t, models.StatusCompleted, wf.Status)
}

func TestWorkflowsRunIndependently(t *testing.T) {
	orch := newTestOrchestrator(t, WithExecutors(stubRegistry(succeedingExecutor())))
	ctx := context.Background()

	first, err := orch.RouteIntent(ctx, "write an article", nil, models.PriorityMedium, nil)
	require.NoError(t, err)
	second, err := orch.RouteIntent(ctx, "launch social campaign", nil, models.PriorityMedium, nil)
	require.NoError(t, err)

	require.NoError(t, orch.Wait(ctx, first.WorkflowID))
	require.NoError(t, orch.Wait(ctx, second.WorkflowID))

	s1, err := orch.WorkflowStatus(ctx, first.WorkflowID)
	require.NoError(t, err)
	s2, err := orch.WorkflowStatus(ctx, second.WorkflowID)
	require.NoError(t, err)

	assert.Equal(t, string(models.StatusCompleted), s1.Status)
	assert.Equal(t, string(models.StatusCompleted), s2.Status)
	assert.NotEqual(t, s1.WorkflowID, s2.WorkflowID)
}

func TestDependencyDepth(t *testing.T) {
	workflowID := "wf-depth"
	a := models.NewWorkflowTask("a", workflowID, models.CapabilityContentProducer, "", nil, models.PriorityMedium, nil)
	b := models.NewWorkflowTask("b", workflowID, models.CapabilityContentProducer, "", nil, models.PriorityMedium, []string{"a"})
	c := models.NewWorkflowTask("c", workflowID, models.CapabilityContentProducer, "", nil, models.PriorityMedium, []string{"a"})
	d := models.NewWorkflowTask("d", workflowID, models.CapabilityContentProducer, "", nil, models.PriorityMedium, []string{"b", "c"})

	assert.Equal(t, 3, dependencyDepth([]*models.WorkflowTask{a, b, c, d}))
	assert.Equal(t, 1, dependencyDepth([]*models.WorkflowTask{a}))
	assert.Equal(t, 0, dependencyDepth(nil))
}
