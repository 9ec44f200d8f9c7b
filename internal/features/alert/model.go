package alert

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AlertStatus string

const (
	AlertStatusActive    AlertStatus = "active"
	AlertStatusDismissed AlertStatus = "dismissed"
	AlertStatusCompleted AlertStatus = "completed"
)

type AlertPriority string

const (
	AlertPriorityLow    AlertPriority = "low"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityHigh   AlertPriority = "high"
)

func (p AlertPriority) Valid() bool {
	switch p {
	case AlertPriorityLow, AlertPriorityMedium, AlertPriorityHigh:
		return true
	}
	return false
}

// WorkflowAlert is an actionable step raised by the workflow engine. The
// section, line item and responsible role are resolved from the taxonomy on
// read and never stored.
type WorkflowAlert struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Phase        string                 `bson:"phase" json:"phase"`
	StepName     string                 `bson:"step_name" json:"stepName"`
	ProjectID    string                 `bson:"project_id,omitempty" json:"projectId,omitempty"`
	Priority     AlertPriority          `bson:"priority" json:"priority"`
	Message      string                 `bson:"message" json:"message"`
	Status       AlertStatus            `bson:"status" json:"status"`
	Acknowledged bool                   `bson:"acknowledged" json:"acknowledged"`
	AssignedTo   string                 `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	WorkflowID   string                 `bson:"workflow_id,omitempty" json:"workflowId,omitempty"`
	StepID       string                 `bson:"step_id,omitempty" json:"stepId,omitempty"`
	Metadata     map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Data         map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt    time.Time              `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time              `bson:"updated_at" json:"updatedAt"`
	CompletedAt  *time.Time             `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CompletedBy  string                 `bson:"completed_by,omitempty" json:"completedBy,omitempty"`

	Section         string `bson:"-" json:"section,omitempty"`
	LineItem        string `bson:"-" json:"lineItem,omitempty"`
	ResponsibleRole string `bson:"-" json:"responsibleRole,omitempty"`
}

// AlertFilter narrows GET /api/alerts. Empty fields are ignored.
type AlertFilter struct {
	Status    string
	UserID    string
	ProjectID string
	Priority  string
}

type AssignInput struct {
	AssignedTo string `json:"assignedTo"`
}

type CompleteInput struct {
	ProjectID  string `json:"projectId"`
	LineItemID string `json:"lineItemId"`
	Notes      string `json:"notes"`
}

// AssignedEvent is pushed to realtime clients when an alert changes hands.
type AssignedEvent struct {
	AlertID    string    `json:"alertId"`
	AssignedTo string    `json:"assignedTo"`
	AssignedBy string    `json:"assignedBy"`
	StepName   string    `json:"stepName"`
	ProjectID  string    `json:"projectId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

const EventAlertAssigned = "alert_assigned"
