package alertdesk

import (
	"context"
	"errors"
	"testing"

	"go-pm/internal/features/taxonomy"
	"go-pm/pkg/pmclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"
)

func newTestDesk(t *testing.T, api *fakeAPI) *Desk {
	log := zaptest.NewLogger(t)
	fetcher := NewFetcher(api, log)
	o := newTestOrchestrator(t, api, fetcher)
	return NewDesk(fetcher, NewPresenter(taxonomy.Default(), language.English), o,
		User{ID: "u1", Role: taxonomy.RoleOffice}, log)
}

func TestDesk_CompleteFallsBackToMarkRead(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{leadAlert(), {ID: "plain", Phase: "LEAD", StepName: "Call back"}}
	desk := newTestDesk(t, api)

	view, err := desk.View(context.Background(), Filter{}, Query{Role: RoleMine})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(view))

	res, err := desk.Complete(context.Background(), "plain", "")
	require.NoError(t, err)
	assert.Equal(t, Skipped, res.Outcome)
	assert.Equal(t, []string{"ack:plain"}, api.actions)
	plain, ok := desk.Fetcher.Get("plain")
	require.True(t, ok)
	assert.True(t, plain.Acknowledged)

	res, err = desk.Complete(context.Background(), "a1", "")
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Outcome)
	_, ok = desk.Fetcher.Get("a1")
	assert.False(t, ok)
}

func TestDesk_CompleteFailure(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{leadAlert()}
	api.completeErr = &pmclient.APIError{StatusCode: 400, Message: "Workflow not found"}
	desk := newTestDesk(t, api)
	desk.View(context.Background(), Filter{}, Query{})

	res, err := desk.Complete(context.Background(), "a1", "")
	assert.EqualError(t, err, "Workflow not found")
	assert.Equal(t, Failed, res.Outcome)
	_, ok := desk.Fetcher.Get("a1")
	assert.True(t, ok)

	_, err = desk.Complete(context.Background(), "missing", "")
	assert.Error(t, err)
}

func TestDesk_ViewSurfacesLoadError(t *testing.T) {
	api := newFakeAPI()
	api.listErr = errors.New("503 Service Unavailable")
	desk := newTestDesk(t, api)

	_, err := desk.View(context.Background(), Filter{}, Query{})
	assert.ErrorContains(t, err, "503")
}

func TestDesk_AssignAndRefresh(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{leadAlert()}
	desk := newTestDesk(t, api)
	desk.View(context.Background(), Filter{}, Query{})
	desk.Expanded.Toggle("a1")

	assert.ErrorIs(t, desk.Assign(context.Background(), "a1", ""), ErrNoAssignee)
	require.NoError(t, desk.Assign(context.Background(), "a1", "u7"))
	assert.Empty(t, desk.Fetcher.Alerts())

	refreshed := desk.Refresh(context.Background())
	assert.Len(t, refreshed, 1)
	assert.Zero(t, desk.Expanded.Len())
}
