package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// simulatedAgent carries the plumbing shared by the built-in agents: id,
// capability tag and result assembly. The per-capability structs only
// provide the domain output shape.
type simulatedAgent struct {
	id         string
	capability models.Capability
}

func newSimulatedAgent(capability models.Capability) simulatedAgent {
	return simulatedAgent{id: uuid.New().String(), capability: capability}
}

func (a simulatedAgent) newResult(start time.Time) *models.AgentResult {
	return &models.AgentResult{
		AgentID:       a.id,
		Capability:    a.capability,
		Status:        models.AgentStatusCompleted,
		PrimaryOutput: map[string]any{},
		Metadata:      map[string]any{"simulated": true},
		QualityScores: map[string]float64{},
		ExecutionTime: time.Since(start),
		CreatedAt:     time.Now().UTC(),
	}
}

func inputString(inputs map[string]any, key, fallback string) string {
	if v, ok := inputs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func defaultSources() []models.Source {
	accessed := time.Now().UTC().Format("2006-01-02")
	return []models.Source{
		{URL: "https://fiscal.treasury.gov/reports-statements", Title: "Treasury Fiscal Data", SourceType: "government", ReliabilityScore: 0.95, DateAccessed: accessed},
		{URL: "https://www.bis.org/statistics", Title: "BIS Payment Statistics", SourceType: "primary", ReliabilityScore: 0.9, DateAccessed: accessed},
	}
}

// ContentProducer generates research-driven content with source citations.
type ContentProducer struct {
	simulatedAgent
}

// NewContentProducer returns the built-in content production agent.
func NewContentProducer() *ContentProducer {
	return &ContentProducer{newSimulatedAgent(models.CapabilityContentProducer)}
}

// Execute implements Executor.
func (a *ContentProducer) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	topic := inputString(inputs, "topic", "monetary flow tax")
	audience := inputString(inputs, "target_audience", "general_public")

	res := a.newResult(start)
	res.SourcesUsed = defaultSources()
	res.PrimaryOutput = map[string]any{
		"content":      fmt.Sprintf("Draft article on %s for %s readers.", topic, audience),
		"content_type": inputString(inputs, "content_type", "educational_article"),
		"word_count":   500,
	}
	res.QualityScores = map[string]float64{
		"readability":     0.85,
		"source_coverage": 0.9,
	}
	return res, nil
}

// FactChecker verifies claims against multiple independent sources.
type FactChecker struct {
	simulatedAgent
}

// NewFactChecker returns the built-in fact-checking agent.
func NewFactChecker() *FactChecker {
	return &FactChecker{newSimulatedAgent(models.CapabilityFactChecker)}
}

// Execute implements Executor.
func (a *FactChecker) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	sources := defaultSources()

	res := a.newResult(start)
	res.SourcesUsed = sources
	res.FactChecks = []models.FactCheck{
		{
			Claim:              inputString(inputs, "claim", "annual financial flows dwarf GDP"),
			VerificationStatus: "verified",
			Sources:            sources,
			ConfidenceLevel:    0.85,
			Notes:              "cross-verified against two independent datasets",
		},
	}
	res.PrimaryOutput = map[string]any{
		"verification_status": "verified",
		"source_count":        len(sources),
	}
	res.QualityScores = map[string]float64{"verification_confidence": 0.85}
	return res, nil
}

// ComplianceReviewer checks content for legal, platform and accessibility issues.
type ComplianceReviewer struct {
	simulatedAgent
}

// NewComplianceReviewer returns the built-in compliance review agent.
func NewComplianceReviewer() *ComplianceReviewer {
	return &ComplianceReviewer{newSimulatedAgent(models.CapabilityComplianceReviewer)}
}

// Execute implements Executor.
func (a *ComplianceReviewer) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := a.newResult(start)
	res.ComplianceChecks = []models.ComplianceCheck{
		{Category: "legal", Status: "compliant", Details: "no regulated claims detected"},
		{Category: "platform", Status: "compliant", Details: "meets platform content policies"},
		{Category: "accessibility", Status: "compliant", Details: "plain-language summary present"},
	}
	res.PrimaryOutput = map[string]any{
		"compliance_status": "approved",
		"checks_run":        len(res.ComplianceChecks),
	}
	res.QualityScores = map[string]float64{"compliance_coverage": 0.92}
	return res, nil
}

// SocialMediaAgent adapts and schedules content across platforms.
type SocialMediaAgent struct {
	simulatedAgent
}

// NewSocialMediaAgent returns the built-in social media agent.
func NewSocialMediaAgent() *SocialMediaAgent {
	return &SocialMediaAgent{newSimulatedAgent(models.CapabilitySocialMedia)}
}

// Execute implements Executor.
func (a *SocialMediaAgent) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	platforms, _ := inputs["platforms"].([]string)
	if len(platforms) == 0 {
		platforms = []string{"twitter", "facebook", "instagram"}
	}

	res := a.newResult(start)
	res.PrimaryOutput = map[string]any{
		"scheduled_posts": len(platforms) * 3,
		"platforms":       platforms,
		"campaign_theme":  inputString(inputs, "campaign_theme", "Tax the System, Not the People"),
	}
	res.QualityScores = map[string]float64{"brand_consistency": 0.88}
	return res, nil
}

// AnalyticsAgent tracks campaign performance metrics.
type AnalyticsAgent struct {
	simulatedAgent
}

// NewAnalyticsAgent returns the built-in analytics agent.
func NewAnalyticsAgent() *AnalyticsAgent {
	return &AnalyticsAgent{newSimulatedAgent(models.CapabilityAnalytics)}
}

// Execute implements Executor.
func (a *AnalyticsAgent) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := a.newResult(start)
	res.PrimaryOutput = map[string]any{
		"dashboard":       "campaign-performance",
		"tracked_metrics": []string{"reach", "engagement_rate", "conversion_rate"},
	}
	res.QualityScores = map[string]float64{"data_accuracy": 0.9, "attribution_confidence": 0.8}
	return res, nil
}

// PetitionOptimizer tunes petition funnels for conversion.
type PetitionOptimizer struct {
	simulatedAgent
}

// NewPetitionOptimizer returns the built-in petition optimization agent.
func NewPetitionOptimizer() *PetitionOptimizer {
	return &PetitionOptimizer{newSimulatedAgent(models.CapabilityPetitionOptimizer)}
}

// Execute implements Executor.
func (a *PetitionOptimizer) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := a.newResult(start)
	res.PrimaryOutput = map[string]any{
		"funnel_steps":          []string{"landing", "sign", "share"},
		"ab_variants":           2,
		"consent_flow_verified": true,
	}
	res.QualityScores = map[string]float64{"funnel_clarity": 0.87}
	return res, nil
}

// FundraisingAgent designs ethical donation journeys.
type FundraisingAgent struct {
	simulatedAgent
}

// NewFundraisingAgent returns the built-in fundraising agent.
func NewFundraisingAgent() *FundraisingAgent {
	return &FundraisingAgent{newSimulatedAgent(models.CapabilityFundraising)}
}

// Execute implements Executor.
func (a *FundraisingAgent) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := a.newResult(start)
	res.ComplianceChecks = []models.ComplianceCheck{
		{Category: "legal", Status: "compliant", Details: "donation flow meets disclosure requirements"},
	}
	res.PrimaryOutput = map[string]any{
		"donor_journey_stages": []string{"awareness", "first_gift", "retention"},
		"suggested_ask_levels": []int{10, 25, 50},
	}
	res.QualityScores = map[string]float64{"ethical_ask_score": 0.91}
	return res, nil
}

// NarrativeDeveloper builds the strategic story arc for a campaign.
type NarrativeDeveloper struct {
	simulatedAgent
}

// NewNarrativeDeveloper returns the built-in narrative development agent.
func NewNarrativeDeveloper() *NarrativeDeveloper {
	return &NarrativeDeveloper{newSimulatedAgent(models.CapabilityNarrativeDeveloper)}
}

// Execute implements Executor.
func (a *NarrativeDeveloper) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := a.newResult(start)
	res.PrimaryOutput = map[string]any{
		"framework":     "heros_journey",
		"acts":          3,
		"emotional_arc": []string{"tension", "insight", "resolve"},
	}
	res.QualityScores = map[string]float64{"narrative_coherence": 0.86}
	return res, nil
}

// VisualDesigner produces accessibility-first design assets.
type VisualDesigner struct {
	simulatedAgent
}

// NewVisualDesigner returns the built-in visual design agent.
func NewVisualDesigner() *VisualDesigner {
	return &VisualDesigner{newSimulatedAgent(models.CapabilityVisualDesigner)}
}

// Execute implements Executor.
func (a *VisualDesigner) Execute(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res := a.newResult(start)
	res.ComplianceChecks = []models.ComplianceCheck{
		{Category: "accessibility", Status: "compliant", Details: "contrast ratios meet WCAG AA"},
	}
	res.PrimaryOutput = map[string]any{
		"assets":        []string{"hero_banner", "share_card", "infographic"},
		"palette":       "movement-standard",
		"alt_text_done": true,
	}
	res.QualityScores = map[string]float64{"accessibility_score": 0.93, "brand_consistency": 0.9}
	return res, nil
}
