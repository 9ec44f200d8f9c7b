package pmclient

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Alert is a workflow alert as returned by GET /api/alerts. Section, LineItem
// and ResponsibleRole are filled in by the server from the taxonomy.
type Alert struct {
	ID           string         `json:"id"`
	Phase        string         `json:"phase"`
	StepName     string         `json:"stepName"`
	ProjectID    string         `json:"projectId,omitempty"`
	Priority     Priority       `json:"priority"`
	Message      string         `json:"message"`
	CreatedAt    time.Time      `json:"createdAt"`
	Acknowledged bool           `json:"acknowledged"`
	AssignedTo   string         `json:"assignedTo,omitempty"`
	Status       string         `json:"status,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	WorkflowID   string         `json:"workflowId,omitempty"`
	StepID       string         `json:"stepId,omitempty"`

	Section         string `json:"section,omitempty"`
	LineItem        string `json:"lineItem,omitempty"`
	ResponsibleRole string `json:"responsibleRole,omitempty"`
}

// MetadataString returns metadata[key] when it is a non-empty string.
func (a Alert) MetadataString(key string) string {
	return stringField(a.Metadata, key)
}

// DataString returns data[key] when it is a non-empty string.
func (a Alert) DataString(key string) string {
	return stringField(a.Data, key)
}

// ProjectName is the display name of the alert's project: metadata
// projectName, then customerName, then projectNumber, then the raw id.
func (a Alert) ProjectName() string {
	for _, key := range []string{"projectName", "customerName", "projectNumber"} {
		if v := a.MetadataString(key); v != "" {
			return v
		}
	}
	return a.ProjectID
}

func stringField(bag map[string]any, key string) string {
	if bag == nil {
		return ""
	}
	s, _ := bag[key].(string)
	return s
}

// Alert statuses.
const (
	StatusActive    = "active"
	StatusDismissed = "dismissed"
	StatusCompleted = "completed"
)

// CompleteAlertInput is the body of POST /api/alerts/:id/complete.
type CompleteAlertInput struct {
	ProjectID  string `json:"projectId"`
	LineItemID string `json:"lineItemId"`
	Notes      string `json:"notes,omitempty"`
}

// StepCompletion is the body of POST /api/workflows/:workflowId/steps/:stepId/complete.
type StepCompletion struct {
	Notes   string `json:"notes"`
	AlertID string `json:"alertId,omitempty"`
}

type StepCompletionResult struct {
	WorkflowID       string    `json:"workflowId"`
	StepID           string    `json:"stepId"`
	ProjectID        string    `json:"projectId"`
	StepName         string    `json:"stepName"`
	AlertID          string    `json:"alertId,omitempty"`
	CompletedBy      string    `json:"completedBy"`
	CompletedAt      time.Time `json:"completedAt"`
	AlreadyCompleted bool      `json:"alreadyCompleted"`
	Broadcast        bool      `json:"broadcast"`
}

type WorkflowStep struct {
	ID          string     `json:"id"`
	StepName    string     `json:"stepName"`
	Phase       string     `json:"phase"`
	Section     string     `json:"section,omitempty"`
	LineItem    string     `json:"lineItem,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy string     `json:"completedBy,omitempty"`
}

type ProjectWorkflow struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"projectId"`
	Steps     []WorkflowStep `json:"steps"`
}
