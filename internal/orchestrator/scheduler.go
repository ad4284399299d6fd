package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// executeWorkflow drives one workflow to a terminal status. It is the only
// goroutine that mutates the instance; the orchestrator mutex exists so
// status queries can read concurrently, not to coordinate writers.
//
// Scheduling is wave-based: each iteration computes the ready set, fans it
// out concurrently and joins before the next readiness computation. A task
// finishing mid-wave therefore cannot unlock its dependents until the wave
// barrier resolves. Workflows here are short and shallow, so the simpler
// bookkeeping wins over an event-driven scheduler.
func (o *Orchestrator) executeWorkflow(workflow *models.WorkflowInstance) {
	o.log.Info("Starting execution of workflow %s", workflow.ID)

	o.mu.Lock()
	workflow.Status = models.StatusInProgress
	workflow.AppendAudit("Workflow execution started")
	o.mu.Unlock()

	completed := make(map[string]bool, len(workflow.Tasks))

	for {
		o.mu.Lock()
		ready := readyTasks(workflow, completed)

		if len(ready) == 0 {
			remaining := 0
			for _, task := range workflow.Tasks {
				if task.Status != models.StatusCompleted && task.Status != models.StatusFailed {
					remaining++
				}
			}
			if remaining > 0 {
				// No task can make progress but work remains: a dependency
				// points at a failed or nonexistent task.
				o.log.Error("Workflow %s is blocked with %d unrunnable tasks", workflow.ID, remaining)
				workflow.Status = models.StatusBlocked
				workflow.AppendAudit("Workflow blocked: no runnable tasks remain")
				o.mu.Unlock()
				break
			}

			allCompleted := true
			for _, task := range workflow.Tasks {
				if task.Status != models.StatusCompleted {
					allCompleted = false
					break
				}
			}
			if allCompleted {
				workflow.Status = models.StatusCompleted
			} else {
				workflow.Status = models.StatusFailed
			}
			workflow.AppendAudit(fmt.Sprintf("Workflow execution completed with status %s", workflow.Status))
			o.mu.Unlock()
			break
		}

		for _, task := range ready {
			task.Status = models.StatusInProgress
			task.Touch()
		}
		o.mu.Unlock()

		// Fan out the wave and wait for every dispatched task before the
		// next readiness computation.
		outcomes := make([]taskOutcome, len(ready))
		var wg sync.WaitGroup
		for i, task := range ready {
			wg.Add(1)
			go func(i int, task *models.WorkflowTask) {
				defer wg.Done()
				outcomes[i] = o.executeTask(task)
			}(i, task)
		}
		wg.Wait()

		o.mu.Lock()
		abort := false
		for i, task := range ready {
			outcome := outcomes[i]
			if outcome.err != nil {
				o.log.Error("Task %s failed: %v", task.ID, outcome.err)
				task.Status = models.StatusFailed
				task.ErrorLog = append(task.ErrorLog, fmt.Sprintf("execution error: %v", outcome.err))
				workflow.AppendAudit(fmt.Sprintf("Task %s failed", task.ID))
				if task.Priority == models.PriorityHigh || task.Priority == models.PriorityCritical {
					abort = true
				}
			} else {
				gate := evaluateQualityGates(task, outcome.result)
				if !gate.Passed {
					o.log.Warn("Task %s completed with quality gate failures: %v", task.ID, gate.Failures)
				}
				applyResult(task, outcome.result, gate)
				completed[task.ID] = true
				workflow.AppendAudit(fmt.Sprintf("Task %s completed", task.ID))
			}
			task.Touch()
		}

		if abort {
			// Remaining never-started tasks stay pending; nothing was
			// dispatched for them, so there is nothing to cancel.
			o.log.Error("Critical task failure aborts workflow %s", workflow.ID)
			workflow.Status = models.StatusFailed
			workflow.AppendAudit("Workflow aborted after high priority task failure")
			o.mu.Unlock()
			break
		}
		o.mu.Unlock()
	}

	o.finishWorkflow(workflow)
}

// readyTasks returns every pending task whose dependencies are all
// completed. Caller holds the orchestrator mutex.
func readyTasks(workflow *models.WorkflowInstance, completed map[string]bool) []*models.WorkflowTask {
	var ready []*models.WorkflowTask
	for _, task := range workflow.Tasks {
		if task.Status != models.StatusPending {
			continue
		}
		satisfied := true
		for _, dep := range task.Dependencies {
			if !completed[dep] {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, task)
		}
	}
	return ready
}

type taskOutcome struct {
	result *models.AgentResult
	err    error
}

// executeTask invokes the task's capability executor with a bounded
// context. Any error is recorded by the caller as task failure.
func (o *Orchestrator) executeTask(task *models.WorkflowTask) taskOutcome {
	o.log.Info("Executing task %s with capability %s", task.ID, task.Capability)

	executor, ok := o.executors[task.Capability]
	if !ok {
		// Unreachable for validated workflows; kept for direct callers.
		return taskOutcome{err: fmt.Errorf("%w: %s", ErrUnknownCapability, task.Capability)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.taskTimeout)
	defer cancel()

	result, err := executor.Execute(ctx, task.Inputs)
	o.tasksExecuted.Add(ctx, 1)
	if err != nil {
		return taskOutcome{err: err}
	}
	if result == nil {
		return taskOutcome{err: fmt.Errorf("capability %s returned no result", task.Capability)}
	}
	return taskOutcome{result: result}
}

// applyResult marks the task completed and copies the agent result into the
// task's outputs and provenance fields. Content is stored even when gates
// fail; the failures only downgrade the stored status flag.
func applyResult(task *models.WorkflowTask, result *models.AgentResult, gate GateResult) {
	status := "success"
	if !gate.Passed {
		status = "needs_review"
	}

	task.VerificationSources = result.SourceURLs()
	task.ComplianceNotes = fmt.Sprintf("Compliance checks: %d", len(result.ComplianceChecks))
	task.QualityGateFailures = gate.Failures
	task.Outputs = map[string]any{
		"status":                  status,
		"agent_id":                result.AgentID,
		"capability":              string(result.Capability),
		"processed_at":            result.CreatedAt.Format(time.RFC3339),
		"execution_time_ms":       result.ExecutionTime.Milliseconds(),
		"quality_scores":          result.QualityScores,
		"quality_score_overall":   gate.Score,
		"primary_output":          result.PrimaryOutput,
		"metadata":                result.Metadata,
		"fact_checks_count":       len(result.FactChecks),
		"compliance_checks_count": len(result.ComplianceChecks),
		"sources_count":           len(result.SourcesUsed),
		"verification_sources":    task.VerificationSources,
		"compliance_notes":        task.ComplianceNotes,
		"quality_gate_failures":   gate.Failures,
	}
	task.Status = models.StatusCompleted
}

// finishWorkflow records metrics, archives the terminal instance and
// releases anyone waiting on it.
func (o *Orchestrator) finishWorkflow(workflow *models.WorkflowInstance) {
	ctx := context.Background()

	o.mu.RLock()
	status := workflow.Status
	ch := o.done[workflow.ID]
	o.mu.RUnlock()

	if status == models.StatusCompleted {
		o.workflowsCompleted.Add(ctx, 1)
	} else {
		o.workflowsFailed.Add(ctx, 1)
	}
	o.log.Info("Workflow %s finished with status %s", workflow.ID, status)

	if o.archive != nil {
		if err := o.archive.Save(ctx, workflow); err != nil {
			o.log.Error("Failed to archive workflow %s: %v", workflow.ID, err)
		}
	}

	if ch != nil {
		close(ch)
	}
}
