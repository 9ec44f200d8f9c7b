package alertdesk

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-pm/pkg/pmclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_KeyDefaultsToActive(t *testing.T) {
	assert.Equal(t, Filter{}.Key(), Filter{Status: "active"}.Key())
	assert.Equal(t, "priority=high&projectId=p1&status=active",
		Filter{ProjectID: "p1", Priority: "high"}.Key())
}

func TestFetcher_LoadCachesPerFilter(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{{ID: "a1"}, {ID: "a2"}}
	f := NewFetcher(api, nil)

	first := f.Load(context.Background(), Filter{})
	second := f.Load(context.Background(), Filter{Status: "active"})
	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.listHits)

	f.Load(context.Background(), Filter{Priority: "high"})
	assert.Equal(t, 2, api.listHits)

	f.Refresh(context.Background(), Filter{Priority: "high"})
	assert.Equal(t, 3, api.listHits)
}

func TestFetcher_LoadFailureSurfacesError(t *testing.T) {
	api := newFakeAPI()
	api.listErr = errors.New("connection refused")
	f := NewFetcher(api, nil)

	alerts := f.Load(context.Background(), Filter{})
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
	assert.Contains(t, f.Err(), "connection refused")

	api.listErr = nil
	api.alerts[activeKey()] = []pmclient.Alert{{ID: "a1"}}
	assert.Len(t, f.Refresh(context.Background(), Filter{}), 1)
	assert.Empty(t, f.Err())
}

func TestFetcher_SupersededResponseIsDiscarded(t *testing.T) {
	api := newFakeAPI()
	slow := Filter{ProjectID: "slow"}
	fast := Filter{ProjectID: "fast"}
	api.alerts[slow.Key()] = []pmclient.Alert{{ID: "old"}}
	api.alerts[fast.Key()] = []pmclient.Alert{{ID: "new"}}
	release := make(chan struct{})
	api.block[slow.Key()] = release
	f := NewFetcher(api, nil)

	done := make(chan []pmclient.Alert)
	go func() {
		done <- f.Load(context.Background(), slow)
	}()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.listHits == 1
	}, time.Second, 5*time.Millisecond)

	got := f.Load(context.Background(), fast)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)

	close(release)
	stale := <-done
	require.Len(t, stale, 1)
	assert.Equal(t, "new", stale[0].ID)

	current := f.Alerts()
	require.Len(t, current, 1)
	assert.Equal(t, "new", current[0].ID)
}

func TestFetcher_Mutations(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}, {ID: "a4"}}
	f := NewFetcher(api, nil)
	f.Load(context.Background(), Filter{})
	ctx := context.Background()

	require.NoError(t, f.Acknowledge(ctx, "a1"))
	a1, ok := f.Get("a1")
	require.True(t, ok)
	assert.True(t, a1.Acknowledged)

	require.NoError(t, f.Dismiss(ctx, "a2"))
	require.NoError(t, f.Assign(ctx, "a3", "u9"))
	require.NoError(t, f.CompleteStep(ctx, "a4", "p1", "li-1", "done"))

	remaining := f.Alerts()
	require.Len(t, remaining, 1)
	assert.Equal(t, "a1", remaining[0].ID)
	assert.Equal(t, []string{"ack:a1", "dismiss:a2", "assign:a3:u9", "complete:a4:li-1"}, api.actions)
}

func TestFetcher_FailedMutationLeavesCache(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{{ID: "a1"}}
	f := NewFetcher(api, nil)
	f.Load(context.Background(), Filter{})

	api.actionErr = errors.New("forbidden")
	assert.Error(t, f.Acknowledge(context.Background(), "a1"))
	assert.Error(t, f.Dismiss(context.Background(), "a1"))
	assert.Error(t, f.Assign(context.Background(), "a1", "u2"))

	a1, ok := f.Get("a1")
	require.True(t, ok)
	assert.False(t, a1.Acknowledged)
}
