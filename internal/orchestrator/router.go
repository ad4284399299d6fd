package orchestrator

import (
	"fmt"
	"strings"

	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// intentRule maps a keyword list to a template. Rules are evaluated in
// slice order; the first match wins, so ties are impossible.
type intentRule struct {
	template string
	keywords []string
}

var intentRules = []intentRule{
	{TemplateContentCreation, []string{"content", "article", "blog", "write"}},
	{TemplateSocialMediaCampaign, []string{"social", "twitter", "facebook", "instagram"}},
	{TemplatePetitionOptimization, []string{"petition", "sign", "signature"}},
	{TemplateFundraisingCampaign, []string{"fundraise", "donate", "donation", "fund"}},
}

// planningIntents fall back to the content creation pipeline when the
// whole intent is a bare planning keyword.
var planningIntents = map[string]bool{
	"plan":     true,
	"strategy": true,
	"campaign": true,
}

// classifyIntent resolves a free-text intent to a template name.
func classifyIntent(intent string) (string, error) {
	lower := strings.ToLower(intent)

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.template, nil
			}
		}
	}

	if planningIntents[strings.TrimSpace(lower)] {
		return TemplateContentCreation, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnroutableIntent, intent)
}

// buildWorkflow instantiates a WorkflowInstance from a template. Tasks are
// created in template order with a linear dependency chain; the scheduler
// itself supports arbitrary DAGs.
func buildWorkflow(workflowID string, tmpl Template, intent string, payload map[string]any, priority models.Priority) *models.WorkflowInstance {
	tasks := make([]*models.WorkflowTask, 0, len(tmpl.Steps))
	for i, step := range tmpl.Steps {
		var deps []string
		if i > 0 {
			deps = []string{taskID(workflowID, i-1)}
		}
		tasks = append(tasks, models.NewWorkflowTask(
			taskID(workflowID, i),
			workflowID,
			step.Capability,
			fmt.Sprintf("%s for %s", step.Phase, intent),
			payload,
			priority,
			deps,
		))
	}

	return models.NewWorkflowInstance(
		workflowID,
		tmpl.DisplayName,
		fmt.Sprintf("%s - %s", tmpl.Description, intent),
		tasks,
		priority,
	)
}

func taskID(workflowID string, index int) string {
	return fmt.Sprintf("%s_task_%d", workflowID, index)
}
