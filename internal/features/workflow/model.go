package workflow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectWorkflow is the checklist of one project: its steps across all
// phases, each with a completion flag.
type ProjectWorkflow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID string             `bson:"project_id" json:"projectId"`
	Steps     []WorkflowStep     `bson:"steps" json:"steps"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

type WorkflowStep struct {
	ID              string     `bson:"id" json:"id"`
	StepName        string     `bson:"step_name" json:"stepName"`
	Phase           string     `bson:"phase" json:"phase"`
	Section         string     `bson:"section,omitempty" json:"section,omitempty"`
	LineItem        string     `bson:"line_item,omitempty" json:"lineItem,omitempty"`
	ResponsibleRole string     `bson:"responsible_role,omitempty" json:"responsibleRole,omitempty"`
	Completed       bool       `bson:"completed" json:"completed"`
	CompletedAt     *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CompletedBy     string     `bson:"completed_by,omitempty" json:"completedBy,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (w *ProjectWorkflow) Step(id string) (int, *WorkflowStep) {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return i, &w.Steps[i]
		}
	}
	return -1, nil
}

type StepCompletionInput struct {
	Notes   string `json:"notes"`
	AlertID string `json:"alertId"`
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
	AlertsClosed     int64     `json:"alertsClosed"`
	// Broadcast reports that workflow_step_completed was already pushed to
	// realtime clients.
	Broadcast        bool      `json:"broadcast"`
}

type StepUpdateInput struct {
	Completed bool `json:"completed"`
}

// StepCompletedEvent is pushed to realtime clients after a step completes.
type StepCompletedEvent struct {
	WorkflowID  string    `json:"workflowId"`
	StepID      string    `json:"stepId"`
	ProjectID   string    `json:"projectId"`
	StepName    string    `json:"stepName"`
	CompletedBy string    `json:"completedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

const EventWorkflowStepCompleted = "workflow_step_completed"
