package audit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditController_ListLogs(t *testing.T) {
	repo := &MockAuditRepo{}
	app := fiber.New()
	app.Get("/api/audit-logs", NewAuditController(NewAuditService(repo)).ListLogs)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/audit-logs?module=alerts&recordId=a1&actorId=u-5&since=2026-03-01T00:00:00Z&page=2&limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, LogFilter{
		Module:   ModuleAlerts,
		RecordID: "a1",
		ActorID:  "u-5",
		Since:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}, repo.filter)
	assert.Equal(t, int64(5), repo.offset)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/audit-logs?module=contacts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/audit-logs?since=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
