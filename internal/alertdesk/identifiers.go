package alertdesk

import (
	"go-pm/pkg/pmclient"
)

// CompletionRequest is everything needed to complete an alert's workflow
// step. Build it with NewCompletionRequest.
type CompletionRequest struct {
	AlertID    string
	WorkflowID string
	StepID     string
	ProjectID  string
	StepName   string
	Notes      string
}

// ResolveIdentifiers finds the workflow and step ids of an alert. Each id is
// looked up in metadata, then in the data bag, then on the alert itself.
func ResolveIdentifiers(a pmclient.Alert) (workflowID, stepID string, ok bool) {
	workflowID = firstNonEmpty(a.MetadataString("workflowId"), a.DataString("workflowId"), a.WorkflowID)
	stepID = firstNonEmpty(a.MetadataString("stepId"), a.DataString("stepId"), a.StepID)
	return workflowID, stepID, workflowID != "" && stepID != ""
}

// NewCompletionRequest reports false when the alert cannot go through the
// workflow completion path.
func NewCompletionRequest(a pmclient.Alert, notes string) (CompletionRequest, bool) {
	workflowID, stepID, ok := ResolveIdentifiers(a)
	if !ok {
		return CompletionRequest{}, false
	}
	return CompletionRequest{
		AlertID:    a.ID,
		WorkflowID: workflowID,
		StepID:     stepID,
		ProjectID:  firstNonEmpty(a.ProjectID, a.MetadataString("projectId"), a.DataString("projectId")),
		StepName:   a.StepName,
		Notes:      notes,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
