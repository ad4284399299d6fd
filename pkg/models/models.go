// Package models defines the domain models for the campaign orchestration service
package models

// Priority ranks how important a task or workflow is. Failures of high and
// critical priority tasks abort the owning workflow.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority maps a string to a Priority, defaulting to medium for
// anything unrecognized.
func ParsePriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p
	default:
		return PriorityMedium
	}
}

// TaskStatus represents the lifecycle state of a task or workflow
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
	StatusBlocked    TaskStatus = "blocked"
)

// IsTerminal reports whether this status will never change again.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusBlocked
}

// Capability names the agent-delegated function a task performs
type Capability string

const (
	CapabilityContentProducer    Capability = "content_producer"
	CapabilityFactChecker        Capability = "fact_checker"
	CapabilityComplianceReviewer Capability = "compliance_reviewer"
	CapabilitySocialMedia        Capability = "social_media"
	CapabilityAnalytics          Capability = "analytics"
	CapabilityPetitionOptimizer  Capability = "petition_optimizer"
	CapabilityFundraising        Capability = "fundraising"
	CapabilityNarrativeDeveloper Capability = "narrative_developer"
	CapabilityVisualDesigner     Capability = "visual_designer"
)

// AllCapabilities returns every registered capability name.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityContentProducer,
		CapabilityFactChecker,
		CapabilityComplianceReviewer,
		CapabilitySocialMedia,
		CapabilityAnalytics,
		CapabilityPetitionOptimizer,
		CapabilityFundraising,
		CapabilityNarrativeDeveloper,
		CapabilityVisualDesigner,
	}
}

// ProblemDetails represents RFC 7807 Problem Details
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
