package alertdesk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-pm/internal/features/taxonomy"
	"go-pm/pkg/pmclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeEmitter struct {
	mu        sync.Mutex
	connected bool
	err       error
	events    []any
}

func (e *fakeEmitter) Connected() bool { return e.connected }

func (e *fakeEmitter) Emit(event string, payload any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, payload)
	return nil
}

type fakeNavigator struct {
	targets chan NavigationTarget
}

func (n *fakeNavigator) NavigateToProject(ctx context.Context, target NavigationTarget) error {
	n.targets <- target
	return nil
}

var fixedNow = time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)

func newTestOrchestrator(t *testing.T, api *fakeAPI, cache AlertCache, opts ...OrchestratorOption) *Orchestrator {
	opts = append([]OrchestratorOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	o := NewOrchestrator(api, cache, zaptest.NewLogger(t), opts...)
	o.after = func(_ time.Duration, f func()) { f() }
	return o
}

func leadAlert() pmclient.Alert {
	return pmclient.Alert{
		ID:        "a1",
		Phase:     "LEAD",
		StepName:  "Input Customer Information",
		ProjectID: "p1",
		Metadata:  map[string]any{"workflowId": "w1", "stepId": "s1"},
	}
}

func TestComplete_ExampleScenario(t *testing.T) {
	res := taxonomy.Default().Resolve("Input Customer Information", "LEAD")
	assert.Equal(t, "Input Customer Information", res.Section)
	assert.Equal(t, taxonomy.RoleOffice, res.ResponsibleRole)

	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{leadAlert(), {ID: "a2"}}
	fetcher := NewFetcher(api, nil)
	fetcher.Load(context.Background(), Filter{})

	o := newTestOrchestrator(t, api, fetcher)
	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")

	assert.Equal(t, Completed, result.Outcome)
	assert.Equal(t, 1, api.completeCalls)
	_, stillListed := fetcher.Get("a1")
	assert.False(t, stillListed)
	assert.Len(t, fetcher.Alerts(), 1)
}

func TestComplete_SkipsWithoutIdentifiers(t *testing.T) {
	api := newFakeAPI()
	emitter := &fakeEmitter{connected: true}
	nav := &fakeNavigator{targets: make(chan NavigationTarget, 1)}
	o := newTestOrchestrator(t, api, nil, WithEmitter(emitter), WithNavigator(nav))

	alert := pmclient.Alert{
		ID:       "a1",
		Metadata: map[string]any{"projectName": "Smith"},
		Data:     map[string]any{"note": "x"},
	}
	result := o.Complete(context.Background(), alert, User{ID: "u1"}, "")

	assert.Equal(t, Skipped, result.Outcome)
	assert.Zero(t, api.remoteCalls())
	assert.Empty(t, emitter.events)
	assert.Empty(t, nav.targets)
}

func TestComplete_FailureUsesServerMessage(t *testing.T) {
	api := newFakeAPI()
	api.completeErr = &pmclient.APIError{StatusCode: 409, Message: "Step is locked"}
	o := newTestOrchestrator(t, api, nil)

	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")
	assert.Equal(t, Failed, result.Outcome)
	assert.Equal(t, "Step is locked", result.Message)
	assert.Equal(t, 1, api.completeCalls)
	assert.Empty(t, api.updated)

	api.completeErr = errors.New("dial tcp: connection refused")
	result = o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")
	assert.Equal(t, Failed, result.Outcome)
	assert.Equal(t, genericCompletionError, result.Message)
}

func TestComplete_BestEffortStagesDoNotDecideOutcome(t *testing.T) {
	api := newFakeAPI()
	api.workflowErr = errors.New("workflow service down")
	emitter := &fakeEmitter{connected: true, err: errors.New("socket closed")}
	o := newTestOrchestrator(t, api, nil, WithEmitter(emitter))

	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")
	assert.Equal(t, Completed, result.Outcome)

	failed := map[string]bool{}
	for _, st := range result.Stages {
		if st.Err != nil {
			failed[st.Stage] = true
		}
	}
	assert.Equal(t, map[string]bool{"checklist": true, "broadcast": true}, failed)
}

func TestComplete_SideEffects(t *testing.T) {
	api := newFakeAPI()
	api.workflow = &pmclient.ProjectWorkflow{
		ProjectID: "p1",
		Steps: []pmclient.WorkflowStep{
			{ID: "other", StepName: "Assign A Project Manager"},
			{ID: "chk-7", StepName: "input customer information"},
		},
	}
	emitter := &fakeEmitter{connected: true}
	nav := &fakeNavigator{targets: make(chan NavigationTarget, 1)}
	o := newTestOrchestrator(t, api, nil, WithEmitter(emitter), WithNavigator(nav))

	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1", Name: "Dana"}, "called")
	require.Equal(t, Completed, result.Outcome)

	assert.Equal(t, []string{"p1/chk-7"}, api.updated)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, StepCompletedEvent{
		WorkflowID:  "w1",
		StepID:      "s1",
		ProjectID:   "p1",
		StepName:    "Input Customer Information",
		CompletedBy: "u1",
		Timestamp:   fixedNow,
	}, emitter.events[0])

	select {
	case target := <-nav.targets:
		assert.Equal(t, "p1", target.ProjectID)
		assert.Equal(t, "s1", target.StepID)
		assert.True(t, target.HighlightStep)
	default:
		t.Fatal("navigator was not called")
	}
}

func TestComplete_DisconnectedEmitterIsSkipped(t *testing.T) {
	api := newFakeAPI()
	emitter := &fakeEmitter{connected: false}
	o := newTestOrchestrator(t, api, nil, WithEmitter(emitter))

	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")
	assert.Equal(t, Completed, result.Outcome)
	assert.Empty(t, emitter.events)
}

func TestComplete_NoEmitWhenServerBroadcast(t *testing.T) {
	api := newFakeAPI()
	api.completeResult = &pmclient.StepCompletionResult{WorkflowID: "w1", StepID: "s1", ProjectID: "p1", Broadcast: true}
	emitter := &fakeEmitter{connected: true}
	o := newTestOrchestrator(t, api, nil, WithEmitter(emitter))

	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")
	assert.Equal(t, Completed, result.Outcome)
	assert.Empty(t, emitter.events)
}

func TestComplete_NavigationIsDelayed(t *testing.T) {
	api := newFakeAPI()
	nav := &fakeNavigator{targets: make(chan NavigationTarget, 1)}
	o := NewOrchestrator(api, nil, zaptest.NewLogger(t), WithNavigator(nav), WithNavigationDelay(20*time.Millisecond))
	assert.Equal(t, 20*time.Millisecond, o.NavigationDelay)

	start := time.Now()
	result := o.Complete(context.Background(), leadAlert(), User{ID: "u1"}, "")
	require.Equal(t, Completed, result.Outcome)

	select {
	case <-nav.targets:
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("navigator was not called")
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "failed", Failed.String())
}
