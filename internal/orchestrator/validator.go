package orchestrator

import (
	"fmt"
	"time"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// ValidationResult reports whether a workflow may be admitted for execution.
type ValidationResult struct {
	Valid     bool           `json:"valid"`
	Errors    []string       `json:"errors"`
	Warnings  []string       `json:"warnings"`
	Resources map[string]any `json:"resources"`
}

// validateWorkflow checks the constructed graph before admission: dependency
// cycles, unknown capabilities and expired deadlines are hard errors. The
// resource estimate is advisory only and never blocks admission.
func (o *Orchestrator) validateWorkflow(workflow *models.WorkflowInstance) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
		Resources: map[string]any{
			"estimated_agents": len(workflow.Tasks),
		},
	}
	var cause error

	if cycle := findCycle(workflow.Tasks); cycle != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cyclic dependency: %v", cycle))
		cause = ErrCyclicDependency
	}

	for _, task := range workflow.Tasks {
		if _, ok := o.executors[task.Capability]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown capability %q on task %s", task.Capability, task.ID))
			if cause == nil {
				cause = ErrUnknownCapability
			}
		}
	}

	if workflow.Deadline != nil && workflow.Deadline.Before(time.Now()) {
		result.Errors = append(result.Errors, "deadline is in the past")
		if cause == nil {
			cause = ErrExpiredDeadline
		}
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		return result, &ValidationError{WorkflowID: workflow.ID, Errors: result.Errors, cause: cause}
	}
	return result, nil
}

// findCycle returns one dependency cycle as a task id path, or nil if the
// graph is acyclic. Dependencies pointing at unknown task ids are not
// cycles; they surface later as a blocked workflow.
func findCycle(tasks []*models.WorkflowTask) []string {
	deps := make(map[string][]string, len(tasks))
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if known[dep] {
				deps[t.ID] = append(deps[t.ID], dep)
			}
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(tasks))
	parent := make(map[string]string, len(tasks))

	var cycle []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, dep := range deps[id] {
			switch color[dep] {
			case white:
				parent[dep] = id
				if dfs(dep) {
					return true
				}
			case gray:
				// Back edge id -> dep closes a cycle.
				cycle = append(cycle, dep)
				for cur := id; cur != dep; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, dep)
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, t := range tasks {
		if color[t.ID] == white && dfs(t.ID) {
			// Reverse into forward dependency order for the error message.
			for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
				cycle[i], cycle[j] = cycle[j], cycle[i]
			}
			return cycle
		}
	}
	return nil
}
