package orchestrator

import (
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// TemplateStep is one (capability, phase) pair in a workflow template.
type TemplateStep struct {
	Capability models.Capability
	Phase      string
}

// Template maps a symbolic workflow name to an ordered task sequence.
// Templates are static configuration; nothing mutates them at runtime.
type Template struct {
	Name        string
	DisplayName string
	Description string
	Steps       []TemplateStep
}

// Template names understood by the intent router.
const (
	TemplateContentCreation      = "content_creation"
	TemplateSocialMediaCampaign  = "social_media_campaign"
	TemplatePetitionOptimization = "petition_optimization"
	TemplateFundraisingCampaign  = "fundraising_campaign"
)

// DefaultTemplates returns the built-in campaign workflow templates.
func DefaultTemplates() map[string]Template {
	return map[string]Template{
		TemplateContentCreation: {
			Name:        TemplateContentCreation,
			DisplayName: "Content Creation Pipeline",
			Description: "Full content creation with dual verification gates",
			Steps: []TemplateStep{
				{models.CapabilityContentProducer, "research_and_draft"},
				{models.CapabilityFactChecker, "primary_fact_check"},
				{models.CapabilityComplianceReviewer, "compliance_review"},
				{models.CapabilityFactChecker, "secondary_fact_check"},
				{models.CapabilityNarrativeDeveloper, "narrative_enhancement"},
				{models.CapabilityVisualDesigner, "visual_design"},
			},
		},
		TemplateSocialMediaCampaign: {
			Name:        TemplateSocialMediaCampaign,
			DisplayName: "Social Media Campaign Launch",
			Description: "Multi-platform social media campaign deployment",
			Steps: []TemplateStep{
				{models.CapabilityContentProducer, "content_adaptation"},
				{models.CapabilityComplianceReviewer, "platform_compliance_check"},
				{models.CapabilitySocialMedia, "campaign_deployment"},
				{models.CapabilityAnalytics, "performance_tracking"},
			},
		},
		TemplatePetitionOptimization: {
			Name:        TemplatePetitionOptimization,
			DisplayName: "Petition Launch and Optimization",
			Description: "Petition deployment with conversion optimization",
			Steps: []TemplateStep{
				{models.CapabilityContentProducer, "petition_content"},
				{models.CapabilityComplianceReviewer, "legal_review"},
				{models.CapabilityPetitionOptimizer, "funnel_setup"},
				{models.CapabilityAnalytics, "conversion_tracking"},
			},
		},
		TemplateFundraisingCampaign: {
			Name:        TemplateFundraisingCampaign,
			DisplayName: "Ethical Fundraising Campaign",
			Description: "Donor-centric fundraising with ethical optimization",
			Steps: []TemplateStep{
				{models.CapabilityFundraising, "donor_journey_design"},
				{models.CapabilityContentProducer, "fundraising_content"},
				{models.CapabilityComplianceReviewer, "ethical_review"},
				{models.CapabilityAnalytics, "donor_analytics"},
			},
		},
	}
}
