package models

import (
	"time"
)

// AgentStatus is the outcome reported by an agent execution.
type AgentStatus string

const (
	AgentStatusCompleted AgentStatus = "completed"
	AgentStatusError     AgentStatus = "error"
)

// Source is a citation used for fact-checking and verification.
type Source struct {
	URL              string  `json:"url"`
	Title            string  `json:"title"`
	SourceType       string  `json:"source_type"` // government, academic, news, primary, secondary
	ReliabilityScore float64 `json:"reliability_score"`
	DateAccessed     string  `json:"date_accessed"`
}

// FactCheck is a single verified claim with supporting sources.
type FactCheck struct {
	Claim              string   `json:"claim"`
	VerificationStatus string   `json:"verification_status"` // verified, disputed, uncertain, false
	Sources            []Source `json:"sources"`
	ConfidenceLevel    float64  `json:"confidence_level"`
	Notes              string   `json:"notes,omitempty"`
}

// ComplianceCheck is one compliance review finding.
type ComplianceCheck struct {
	Category        string   `json:"category"` // legal, platform, accessibility, privacy
	Status          string   `json:"status"`   // compliant, non_compliant, needs_review
	Details         string   `json:"details"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// AgentResult is the uniform result every capability executor returns to
// the scheduler.
type AgentResult struct {
	AgentID          string             `json:"agent_id"`
	Capability       Capability         `json:"capability"`
	Status           AgentStatus        `json:"status"`
	PrimaryOutput    map[string]any     `json:"primary_output"`
	Metadata         map[string]any     `json:"metadata,omitempty"`
	QualityScores    map[string]float64 `json:"quality_scores,omitempty"`
	FactChecks       []FactCheck        `json:"fact_checks,omitempty"`
	ComplianceChecks []ComplianceCheck  `json:"compliance_checks,omitempty"`
	SourcesUsed      []Source           `json:"sources_used,omitempty"`
	ExecutionTime    time.Duration      `json:"execution_time_ms"`
	CreatedAt        time.Time          `json:"created_at"`
}

// SourceURLs returns the locators of every source the agent cited.
func (r *AgentResult) SourceURLs() []string {
	urls := make([]string, 0, len(r.SourcesUsed))
	for _, s := range r.SourcesUsed {
		urls = append(urls, s.URL)
	}
	return urls
}
