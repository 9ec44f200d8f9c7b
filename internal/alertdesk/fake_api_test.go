package alertdesk

import (
	"context"
	"net/url"
	"sync"

	"go-pm/pkg/pmclient"
)

// fakeAPI records calls and serves canned responses.
type fakeAPI struct {
	mu sync.Mutex

	alerts   map[string][]pmclient.Alert
	listErr  error
	block    map[string]chan struct{}
	listHits int

	actionErr error
	actions   []string

	completeErr    error
	completeResult *pmclient.StepCompletionResult
	completeCalls  int
	workflow       *pmclient.ProjectWorkflow
	workflowErr    error
	updated        []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{alerts: map[string][]pmclient.Alert{}, block: map[string]chan struct{}{}}
}

func (f *fakeAPI) ListAlerts(ctx context.Context, query url.Values) ([]pmclient.Alert, error) {
	key := query.Encode()
	f.mu.Lock()
	f.listHits++
	wait := f.block[key]
	f.mu.Unlock()

	if wait != nil {
		<-wait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]pmclient.Alert(nil), f.alerts[key]...), nil
}

func (f *fakeAPI) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return f.actionErr
}

func (f *fakeAPI) AcknowledgeAlert(ctx context.Context, id string) error {
	return f.record("ack:" + id)
}

func (f *fakeAPI) DismissAlert(ctx context.Context, id string) error {
	return f.record("dismiss:" + id)
}

func (f *fakeAPI) AssignAlert(ctx context.Context, id, userID string) error {
	return f.record("assign:" + id + ":" + userID)
}

func (f *fakeAPI) CompleteAlert(ctx context.Context, id string, in pmclient.CompleteAlertInput) error {
	return f.record("complete:" + id + ":" + in.LineItemID)
}

func (f *fakeAPI) CompleteWorkflowStep(ctx context.Context, workflowID, stepID string, in pmclient.StepCompletion) (*pmclient.StepCompletionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	if f.completeResult != nil {
		return f.completeResult, nil
	}
	return &pmclient.StepCompletionResult{WorkflowID: workflowID, StepID: stepID, AlertID: in.AlertID}, nil
}

func (f *fakeAPI) GetProjectWorkflow(ctx context.Context, projectID string) (*pmclient.ProjectWorkflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.workflowErr != nil {
		return nil, f.workflowErr
	}
	if f.workflow == nil {
		return &pmclient.ProjectWorkflow{ProjectID: projectID}, nil
	}
	return f.workflow, nil
}

func (f *fakeAPI) UpdateProjectWorkflowStep(ctx context.Context, projectID, stepID string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, projectID+"/"+stepID)
	return nil
}

func (f *fakeAPI) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls + len(f.actions) + len(f.updated)
}

func activeKey() string {
	return Filter{}.Key()
}
