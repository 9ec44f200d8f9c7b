package alertdesk

import (
	"context"
	"errors"
	"testing"

	"go-pm/pkg/pmclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignForm_RequiresUser(t *testing.T) {
	api := newFakeAPI()
	form := NewAssignForm(NewFetcher(api, nil))

	form.Open("a1")
	form.Select("   ")
	assert.ErrorIs(t, form.Submit(context.Background()), ErrNoAssignee)
	assert.True(t, form.IsOpen())
	assert.Empty(t, api.actions)
}

func TestAssignForm_FailureKeepsFormOpen(t *testing.T) {
	api := newFakeAPI()
	api.alerts[activeKey()] = []pmclient.Alert{{ID: "a1"}}
	fetcher := NewFetcher(api, nil)
	fetcher.Load(context.Background(), Filter{})
	api.actionErr = errors.New("forbidden")

	form := NewAssignForm(fetcher)
	form.Open("a1")
	form.Select("u2")
	require.Error(t, form.Submit(context.Background()))

	assert.True(t, form.IsOpen())
	assert.Equal(t, "a1", form.AlertID())
	assert.EqualError(t, form.Err(), "forbidden")
	_, listed := fetcher.Get("a1")
	assert.True(t, listed)

	api.actionErr = nil
	require.NoError(t, form.Submit(context.Background()))
	assert.False(t, form.IsOpen())
	assert.NoError(t, form.Err())
	_, listed = fetcher.Get("a1")
	assert.False(t, listed)
	assert.Equal(t, []string{"assign:a1:u2", "assign:a1:u2"}, api.actions)
}

func TestAssignForm_SubmitWhenClosed(t *testing.T) {
	form := NewAssignForm(NewFetcher(newFakeAPI(), nil))
	assert.Error(t, form.Submit(context.Background()))
}
