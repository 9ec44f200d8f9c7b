package audit

import (
	"context"
	"testing"
	"time"

	common_models "go-pm/internal/common/models"
	"go-pm/internal/middleware"
	"go-pm/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type MockAuditRepo struct {
	logs          []common_models.AuditLog
	filter        LogFilter
	limit, offset int64
}

func (m *MockAuditRepo) Create(ctx context.Context, log common_models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepo) List(ctx context.Context, filter LogFilter, limit, offset int64) ([]common_models.AuditLog, error) {
	m.filter, m.limit, m.offset = filter, limit, offset
	return m.logs, nil
}

func (m *MockAuditRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func TestLogChange_Actor(t *testing.T) {
	repo := &MockAuditRepo{}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	service := &AuditServiceImpl{Repo: repo, now: func() time.Time { return now }}

	require.NoError(t, service.LogChange(context.Background(), common_models.AuditActionPurge, ModuleAlerts, "", nil))

	ctx := middleware.WithClaims(context.Background(), &utils.UserClaims{UserID: "u-5", Name: "Riley"})
	changes := map[string]common_models.Change{"status": {Old: "active", New: "dismissed"}}
	require.NoError(t, service.LogChange(ctx, common_models.AuditActionDismiss, ModuleAlerts, "a1", changes))

	require.Len(t, repo.logs, 2)
	assert.Equal(t, "system", repo.logs[0].ActorID)
	assert.Equal(t, "System", repo.logs[0].ActorName)
	assert.Equal(t, "u-5", repo.logs[1].ActorID)
	assert.Equal(t, "Riley", repo.logs[1].ActorName)
	assert.Equal(t, "a1", repo.logs[1].RecordID)
	assert.Equal(t, now, repo.logs[1].Timestamp)
	assert.False(t, repo.logs[1].ID.IsZero())
}

func TestListLogs_Paging(t *testing.T) {
	repo := &MockAuditRepo{}
	service := NewAuditService(repo)

	_, err := service.ListLogs(context.Background(), LogFilter{}, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), repo.limit)
	assert.Equal(t, int64(40), repo.offset)

	_, err = service.ListLogs(context.Background(), LogFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), repo.limit)
	assert.Equal(t, int64(0), repo.offset)
}

func TestListLogs_ModuleAndPageCap(t *testing.T) {
	repo := &MockAuditRepo{}
	service := NewAuditService(repo)

	_, err := service.ListLogs(context.Background(), LogFilter{Module: "contacts"}, 1, 20)
	assert.ErrorIs(t, err, ErrUnknownModule)

	_, err = service.ListLogs(context.Background(), LogFilter{Module: ModuleWorkflows, RecordID: "s1"}, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(maxPageSize), repo.limit)
	assert.Equal(t, "s1", repo.filter.RecordID)
}

func TestLogFilter_Query(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	q := LogFilter{Module: ModuleAlerts, RecordID: "a1", Action: common_models.AuditActionAssign, Since: since}.query()

	assert.Equal(t, bson.M{
		"module":    ModuleAlerts,
		"record_id": "a1",
		"action":    common_models.AuditActionAssign,
		"timestamp": bson.M{"$gte": since},
	}, q)
	assert.Empty(t, LogFilter{}.query())
}
