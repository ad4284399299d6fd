package orchestrator

import (
	"errors"
	"fmt"
)

// Admission errors are surfaced synchronously before any task runs; the
// workflow is never stored when one occurs. Execution and quality problems
// are absorbed into workflow state instead and exposed through status
// queries only.
var (
	// ErrUnroutableIntent means no template keyword list matched the intent.
	ErrUnroutableIntent = errors.New("intent does not match any workflow template")

	// ErrCyclicDependency means a task depends, directly or transitively, on itself.
	ErrCyclicDependency = errors.New("cyclic dependency detected in workflow")

	// ErrUnknownCapability means a task references a capability with no registered executor.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrExpiredDeadline means the workflow deadline is already in the past.
	ErrExpiredDeadline = errors.New("workflow deadline is in the past")

	// ErrWorkflowNotFound means no live or archived workflow has the requested id.
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// ValidationError wraps one or more admission failures for a workflow.
type ValidationError struct {
	WorkflowID string
	Errors     []string
	cause      error
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow %s failed validation: %v", e.WorkflowID, e.Errors)
}

// Unwrap exposes the first admission error for errors.Is checks.
func (e *ValidationError) Unwrap() error {
	return e.cause
}
