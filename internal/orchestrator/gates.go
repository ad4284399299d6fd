package orchestrator

import (
	"fmt"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// Quality thresholds applied after a task completes. Gate failures are
// advisory: they flag the result for review but never fail the task.
const (
	minIndependentSources  = 2
	minQualityScore        = 0.7
	minFactCheckConfidence = 0.8
)

// GateResult is the outcome of evaluating a completed task's agent result
// against its capability's quality gates.
type GateResult struct {
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures"`
	Score    float64  `json:"score"`
}

// gateCheck inspects one aspect of an agent result.
type gateCheck func(result *models.AgentResult) []string

// capabilityGates keys the gate table by capability. Every capability gets
// the score-floor gate; source and confidence gates apply where the
// capability is expected to produce citations or fact checks.
var capabilityGates = map[models.Capability][]gateCheck{
	models.CapabilityContentProducer:    {checkQualityScores, checkSourceCount},
	models.CapabilityFactChecker:        {checkQualityScores, checkSourceCount, checkFactCheckConfidence},
	models.CapabilityComplianceReviewer: {checkQualityScores, checkCompliance},
	models.CapabilitySocialMedia:        {checkQualityScores, checkCompliance},
	models.CapabilityAnalytics:          {checkQualityScores},
	models.CapabilityPetitionOptimizer:  {checkQualityScores},
	models.CapabilityFundraising:        {checkQualityScores, checkCompliance},
	models.CapabilityNarrativeDeveloper: {checkQualityScores},
	models.CapabilityVisualDesigner:     {checkQualityScores, checkCompliance},
}

// evaluateQualityGates runs the gate table for the task's capability.
// The overall score is the mean of the reported quality sub-scores,
// defaulting to a neutral 1.0 when the agent reports none.
func evaluateQualityGates(task *models.WorkflowTask, result *models.AgentResult) GateResult {
	var failures []string

	if result.Status != models.AgentStatusCompleted {
		failures = append(failures, fmt.Sprintf("agent execution status: %s", result.Status))
	}

	for _, check := range capabilityGates[task.Capability] {
		failures = append(failures, check(result)...)
	}

	score := 1.0
	if len(result.QualityScores) > 0 {
		var sum float64
		for _, s := range result.QualityScores {
			sum += s
		}
		score = sum / float64(len(result.QualityScores))
	}

	if failures == nil {
		failures = []string{}
	}
	return GateResult{
		Passed:   len(failures) == 0,
		Failures: failures,
		Score:    score,
	}
}

func checkQualityScores(result *models.AgentResult) []string {
	var failures []string
	for metric, score := range result.QualityScores {
		if score < minQualityScore {
			failures = append(failures, fmt.Sprintf("low quality score for %s: %.2f", metric, score))
		}
	}
	return failures
}

func checkSourceCount(result *models.AgentResult) []string {
	if len(result.SourcesUsed) < minIndependentSources {
		return []string{fmt.Sprintf("insufficient source verification (minimum %d required)", minIndependentSources)}
	}
	return nil
}

func checkCompliance(result *models.AgentResult) []string {
	nonCompliant := 0
	for _, c := range result.ComplianceChecks {
		if c.Status == "non_compliant" {
			nonCompliant++
		}
	}
	if nonCompliant > 0 {
		return []string{fmt.Sprintf("compliance violations: %d issues found", nonCompliant)}
	}
	return nil
}

func checkFactCheckConfidence(result *models.AgentResult) []string {
	lowConfidence := 0
	for _, fc := range result.FactChecks {
		if fc.ConfidenceLevel < minFactCheckConfidence {
			lowConfidence++
		}
	}
	if lowConfidence > 0 {
		return []string{fmt.Sprintf("low-confidence fact checks: %d", lowConfidence)}
	}
	return nil
}
