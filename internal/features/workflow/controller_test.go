package workflow

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newControllerApp(f *fixture, noteLimit int) *fiber.App {
	ctrl := &WorkflowController{Service: f.service, NoteLimit: noteLimit}
	app := fiber.New()
	app.Get("/api/workflows/project/:projectId", ctrl.GetProjectWorkflow)
	app.Put("/api/workflows/project/:projectId/workflow/:stepId", ctrl.UpdateProjectStep)
	app.Post("/api/workflows/:workflowId/steps/:stepId/complete", ctrl.CompleteStep)
	return app
}

func TestWorkflowController_CompleteStep(t *testing.T) {
	f := newFixture()
	app := newControllerApp(f, 100)
	path := "/api/workflows/" + f.wf.ID.Hex() + "/steps/s2/complete"

	req := httptest.NewRequest("POST", path, strings.NewReader(`{"notes":"ok","alertId":"a-1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "s2", result["stepId"])
	assert.Equal(t, false, result["alreadyCompleted"])

	// An empty body is accepted.
	resp, err = app.Test(httptest.NewRequest("POST", path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWorkflowController_ErrorsCarryMessage(t *testing.T) {
	f := newFixture()
	app := newControllerApp(f, 5)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/workflows/"+f.wf.ID.Hex()+"/steps/zzz/complete", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, ErrStepNotFound.Error(), body["message"])

	req := httptest.NewRequest("POST", "/api/workflows/"+f.wf.ID.Hex()+"/steps/s1/complete", strings.NewReader(`{"notes":"much too long"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWorkflowController_ProjectChecklist(t *testing.T) {
	f := newFixture()
	app := newControllerApp(f, 0)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/workflows/project/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var wf map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&wf))
	assert.Equal(t, "p1", wf["projectId"])
	assert.Len(t, wf["steps"], 2)

	req := httptest.NewRequest("PUT", "/api/workflows/project/p1/workflow/s1", strings.NewReader(`{"completed":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/workflows/project/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
