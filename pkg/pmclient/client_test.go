package pmclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "tok")
	require.NoError(t, err)
	return c
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New("http://localhost", "  ")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestListAlerts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/alerts", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":"a1","phase":"LEAD","stepName":"Input Customer Information",
			"priority":"high","metadata":{"workflowId":"w1","stepId":"s1","projectName":"Smith Roof"}}]`))
	})

	alerts, err := c.ListAlerts(context.Background(), url.Values{"status": {"active"}})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "a1", alerts[0].ID)
	assert.Equal(t, PriorityHigh, alerts[0].Priority)
	assert.Equal(t, "w1", alerts[0].MetadataString("workflowId"))
	assert.Equal(t, "Smith Roof", alerts[0].ProjectName())
}

func TestAssignAlert(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/alerts/a1/assign", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u2", body["assignedTo"])
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.AssignAlert(context.Background(), "a1", "u2"))
}

func TestCompleteWorkflowStep_ServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/workflows/w1/steps/s1/complete", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"workflow locked","message":"workflow locked"}`))
	})

	_, err := c.CompleteWorkflowStep(context.Background(), "w1", "s1", StepCompletion{Notes: "done", AlertID: "a1"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "workflow locked", ServerMessage(err))
}

func TestCompleteWorkflowStep_Result(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body StepCompletion
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a1", body.AlertID)
		w.Write([]byte(`{"workflowId":"w1","stepId":"s1","projectId":"p1","completedBy":"u1"}`))
	})

	res, err := c.CompleteWorkflowStep(context.Background(), "w1", "s1", StepCompletion{AlertID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", res.ProjectID)
	assert.False(t, res.AlreadyCompleted)
}

func TestProjectWorkflow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/workflows/project/p1", r.URL.Path)
			w.Write([]byte(`{"projectId":"p1","steps":[{"id":"s1","stepName":"Site Inspection"}]}`))
		case http.MethodPut:
			assert.Equal(t, "/api/workflows/project/p1/workflow/s1", r.URL.Path)
			var body map[string]bool
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.True(t, body["completed"])
		}
	})

	wf, err := c.GetProjectWorkflow(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, wf.Steps, 1)
	require.NoError(t, c.UpdateProjectWorkflowStep(context.Background(), "p1", wf.Steps[0].ID, true))
}

func TestAlertProjectNameFallback(t *testing.T) {
	a := Alert{ProjectID: "p9", Metadata: map[string]any{"customerName": ""}}
	assert.Equal(t, "p9", a.ProjectName())

	a.Metadata["projectNumber"] = "1042"
	assert.Equal(t, "1042", a.ProjectName())
}
