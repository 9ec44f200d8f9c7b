package alertdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-pm/internal/features/taxonomy"
	"go-pm/pkg/pmclient"

	"go.uber.org/zap"
)

// WorkflowAPI is the part of the API client used to complete steps.
type WorkflowAPI interface {
	CompleteWorkflowStep(ctx context.Context, workflowID, stepID string, in pmclient.StepCompletion) (*pmclient.StepCompletionResult, error)
	GetProjectWorkflow(ctx context.Context, projectID string) (*pmclient.ProjectWorkflow, error)
	UpdateProjectWorkflowStep(ctx context.Context, projectID, stepID string, completed bool) error
}

// Emitter is an optional realtime channel.
type Emitter interface {
	Connected() bool
	Emit(event string, payload any) error
}

// NavigationTarget tells the host which project view to open and which step
// to highlight.
type NavigationTarget struct {
	ProjectID     string
	WorkflowID    string
	StepID        string
	StepName      string
	HighlightStep bool
}

type Navigator interface {
	NavigateToProject(ctx context.Context, target NavigationTarget) error
}

// AlertCache is notified when an alert leaves the active list.
type AlertCache interface {
	Forget(id string)
}

// User is the signed-in person completing work.
type User struct {
	ID   string
	Name string
	Role taxonomy.Role
}

type Outcome int

const (
	// Failed means the step was not completed on the server.
	Failed Outcome = iota
	Completed
	// Skipped means the alert has no workflow identifiers; callers fall back
	// to marking it read.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

type Policy int

const (
	Required Policy = iota
	BestEffort
)

// StageReport records what one pipeline stage did.
type StageReport struct {
	Stage string
	Err   error
}

type Result struct {
	Outcome Outcome
	Request CompletionRequest
	// Message is shown to the user when Outcome is Failed.
	Message string
	Err     error
	Stages  []StageReport
}

// StepCompletedEvent is broadcast after a step is completed.
type StepCompletedEvent struct {
	WorkflowID  string    `json:"workflowId"`
	StepID      string    `json:"stepId"`
	ProjectID   string    `json:"projectId"`
	StepName    string    `json:"stepName"`
	CompletedBy string    `json:"completedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

const genericCompletionError = "Failed to complete workflow step"

var errUnresolved = errors.New("alert has no workflow or step id")

type stage struct {
	name   string
	policy Policy
	run    func(ctx context.Context, c *completion) error
}

// completion is the state carried through one pipeline run.
type completion struct {
	alert   pmclient.Alert
	user    User
	notes   string
	request CompletionRequest
	result  *pmclient.StepCompletionResult
}

// Orchestrator completes an alert's workflow step and runs the follow-up
// side effects. Only the identifier and completion stages decide the outcome.
type Orchestrator struct {
	api       WorkflowAPI
	cache     AlertCache
	emitter   Emitter
	navigator Navigator
	log       *zap.Logger

	NavigationDelay time.Duration
	now             func() time.Time
	after           func(time.Duration, func())
	stages          []stage
}

type OrchestratorOption func(*Orchestrator)

func WithEmitter(e Emitter) OrchestratorOption {
	return func(o *Orchestrator) { o.emitter = e }
}

func WithNavigator(n Navigator) OrchestratorOption {
	return func(o *Orchestrator) { o.navigator = n }
}

func WithNavigationDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.NavigationDelay = d }
}

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(api WorkflowAPI, cache AlertCache, log *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		api:             api,
		cache:           cache,
		log:             log,
		NavigationDelay: 500 * time.Millisecond,
		now:             time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.stages = []stage{
		{name: "resolve", policy: Required, run: o.resolve},
		{name: "complete", policy: Required, run: o.completeStep},
		{name: "checklist", policy: BestEffort, run: o.syncChecklist},
		{name: "broadcast", policy: BestEffort, run: o.broadcast},
		{name: "navigate", policy: BestEffort, run: o.navigate},
	}
	return o
}

// Complete runs the pipeline for alert on behalf of user.
func (o *Orchestrator) Complete(ctx context.Context, alert pmclient.Alert, user User, notes string) Result {
	c := &completion{alert: alert, user: user, notes: notes}
	res := Result{Outcome: Completed}

	for _, st := range o.stages {
		err := st.run(ctx, c)
		res.Stages = append(res.Stages, StageReport{Stage: st.name, Err: err})
		if err == nil {
			continue
		}

		if st.policy == BestEffort {
			o.log.Warn("Completion side effect failed",
				zap.String("stage", st.name),
				zap.String("alertId", alert.ID),
				zap.Error(err))
			continue
		}

		res.Request = c.request
		res.Err = err
		if errors.Is(err, errUnresolved) {
			o.log.Info("Alert has no workflow identifiers, skipping completion", zap.String("alertId", alert.ID))
			res.Outcome = Skipped
			return res
		}
		res.Outcome = Failed
		res.Message = pmclient.ServerMessage(err)
		if res.Message == "" {
			res.Message = genericCompletionError
		}
		return res
	}

	res.Request = c.request
	if o.cache != nil {
		o.cache.Forget(alert.ID)
	}
	return res
}

func (o *Orchestrator) resolve(_ context.Context, c *completion) error {
	req, ok := NewCompletionRequest(c.alert, c.notes)
	if !ok {
		return errUnresolved
	}
	c.request = req
	return nil
}

func (o *Orchestrator) completeStep(ctx context.Context, c *completion) error {
	res, err := o.api.CompleteWorkflowStep(ctx, c.request.WorkflowID, c.request.StepID, pmclient.StepCompletion{
		Notes:   c.request.Notes,
		AlertID: c.request.AlertID,
	})
	if err != nil {
		return err
	}
	c.result = res
	if c.request.ProjectID == "" && res != nil {
		c.request.ProjectID = res.ProjectID
	}
	return nil
}

// syncChecklist marks the matching step of the project's checklist complete,
// matching by step id first and then by name.
func (o *Orchestrator) syncChecklist(ctx context.Context, c *completion) error {
	if c.request.ProjectID == "" {
		return errors.New("no project id to sync checklist")
	}
	wf, err := o.api.GetProjectWorkflow(ctx, c.request.ProjectID)
	if err != nil {
		return err
	}

	step, ok := matchChecklistStep(wf.Steps, c.request)
	if !ok {
		return fmt.Errorf("no checklist step matches %q", c.request.StepName)
	}
	if step.Completed {
		return nil
	}
	return o.api.UpdateProjectWorkflowStep(ctx, c.request.ProjectID, step.ID, true)
}

func matchChecklistStep(steps []pmclient.WorkflowStep, req CompletionRequest) (pmclient.WorkflowStep, bool) {
	for _, s := range steps {
		if s.ID == req.StepID {
			return s, true
		}
	}
	for _, s := range steps {
		if taxonomy.FuzzyMatch(req.StepName, s.StepName) {
			return s, true
		}
	}
	return pmclient.WorkflowStep{}, false
}

func (o *Orchestrator) broadcast(_ context.Context, c *completion) error {
	if o.emitter == nil || !o.emitter.Connected() {
		return nil
	}
	// The server already pushed the event; emitting again would reach
	// every other desk twice.
	if c.result != nil && c.result.Broadcast {
		return nil
	}
	completedBy := c.user.ID
	if c.result != nil && c.result.CompletedBy != "" {
		completedBy = c.result.CompletedBy
	}
	return o.emitter.Emit(pmclient.EventWorkflowStepCompleted, StepCompletedEvent{
		WorkflowID:  c.request.WorkflowID,
		StepID:      c.request.StepID,
		ProjectID:   c.request.ProjectID,
		StepName:    c.request.StepName,
		CompletedBy: completedBy,
		Timestamp:   o.now().UTC(),
	})
}

// navigate schedules the hand-off to the host after NavigationDelay so the
// earlier stages have settled on the server.
func (o *Orchestrator) navigate(ctx context.Context, c *completion) error {
	if o.navigator == nil || c.request.ProjectID == "" {
		return nil
	}
	target := NavigationTarget{
		ProjectID:     c.request.ProjectID,
		WorkflowID:    c.request.WorkflowID,
		StepID:        c.request.StepID,
		StepName:      c.request.StepName,
		HighlightStep: true,
	}
	navCtx := context.WithoutCancel(ctx)
	o.after(o.NavigationDelay, func() {
		if err := o.navigator.NavigateToProject(navCtx, target); err != nil {
			o.log.Warn("Navigation after completion failed", zap.String("projectId", target.ProjectID), zap.Error(err))
		}
	})
	return nil
}
