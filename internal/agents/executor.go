// Package agents contains the capability executors the scheduler delegates
// workflow tasks to. Each executor implements the same contract; the
// orchestrator never cares which concrete agent is behind a capability.
package agents

import (
	"context"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// Executor is the uniform contract every agent capability implements.
// A returned error marks the task failed; quality problems are reported
// inside the AgentResult instead.
type Executor interface {
	Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	return f(ctx, inputs)
}

// DefaultRegistry returns the full capability set backed by the built-in
// simulated agents.
func DefaultRegistry() map[models.Capability]Executor {
	return map[models.Capability]Executor{
		models.CapabilityContentProducer:    NewContentProducer(),
		models.CapabilityFactChecker:        NewFactChecker(),
		models.CapabilityComplianceReviewer: NewComplianceReviewer(),
		models.CapabilitySocialMedia:        NewSocialMediaAgent(),
		models.CapabilityAnalytics:          NewAnalyticsAgent(),
		models.CapabilityPetitionOptimizer:  NewPetitionOptimizer(),
		models.CapabilityFundraising:        NewFundraisingAgent(),
		models.CapabilityNarrativeDeveloper: NewNarrativeDeveloper(),
		models.CapabilityVisualDesigner:     NewVisualDesigner(),
	}
}
