// Package alertdesk is the task desk core: it loads workflow alerts, filters
// and sorts them for display, and drives completion and reassignment.
package alertdesk

import (
	"context"
	"net/url"
	"sync"

	"go-pm/pkg/pmclient"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AlertsAPI is the part of the API client the fetcher needs.
type AlertsAPI interface {
	ListAlerts(ctx context.Context, query url.Values) ([]pmclient.Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) error
	DismissAlert(ctx context.Context, id string) error
	AssignAlert(ctx context.Context, id, userID string) error
	CompleteAlert(ctx context.Context, id string, in pmclient.CompleteAlertInput) error
}

// Filter selects alerts on the server. An empty Status means active.
type Filter struct {
	Status    string
	UserID    string
	ProjectID string
	Priority  string
}

func (f Filter) Values() url.Values {
	v := url.Values{}
	status := f.Status
	if status == "" {
		status = pmclient.StatusActive
	}
	v.Set("status", status)
	if f.UserID != "" {
		v.Set("userId", f.UserID)
	}
	if f.ProjectID != "" {
		v.Set("projectId", f.ProjectID)
	}
	if f.Priority != "" {
		v.Set("priority", f.Priority)
	}
	return v
}

// Key identifies the filter independently of field order.
func (f Filter) Key() string {
	return f.Values().Encode()
}

// Fetcher caches the alert list for the current filter. Every load bumps a
// generation counter; a response that comes back after a newer load started
// is dropped.
type Fetcher struct {
	api   AlertsAPI
	log   *zap.Logger
	group singleflight.Group

	mu         sync.Mutex
	key        string
	loaded     bool
	alerts     []pmclient.Alert
	errMsg     string
	generation uint64
}

func NewFetcher(api AlertsAPI, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{api: api, log: log}
}

// Load returns the alerts for f, reading from the server only when the filter
// differs from the cached one.
func (f *Fetcher) Load(ctx context.Context, filter Filter) []pmclient.Alert {
	f.mu.Lock()
	if f.loaded && f.key == filter.Key() {
		out := f.snapshotLocked()
		f.mu.Unlock()
		return out
	}
	f.mu.Unlock()
	return f.fetch(ctx, filter)
}

// Refresh always reads from the server.
func (f *Fetcher) Refresh(ctx context.Context, filter Filter) []pmclient.Alert {
	return f.fetch(ctx, filter)
}

func (f *Fetcher) fetch(ctx context.Context, filter Filter) []pmclient.Alert {
	key := filter.Key()

	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	v, err, _ := f.group.Do(key, func() (any, error) {
		return f.api.ListAlerts(ctx, filter.Values())
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		f.log.Debug("Discarding superseded alert list", zap.String("filter", key))
		return f.snapshotLocked()
	}

	f.key = key
	f.loaded = true
	if err != nil {
		f.log.Warn("Failed to load alerts", zap.String("filter", key), zap.Error(err))
		f.alerts = nil
		f.errMsg = err.Error()
		return []pmclient.Alert{}
	}
	alerts, _ := v.([]pmclient.Alert)
	f.alerts = append([]pmclient.Alert(nil), alerts...)
	f.errMsg = ""
	return f.snapshotLocked()
}

// Alerts returns a copy of the cached list.
func (f *Fetcher) Alerts() []pmclient.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Err is the message of the last failed load, empty after a successful one.
func (f *Fetcher) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Fetcher) Get(id string) (pmclient.Alert, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.alerts {
		if a.ID == id {
			return a, true
		}
	}
	return pmclient.Alert{}, false
}

// Forget drops an alert from the cache without a server call.
func (f *Fetcher) Forget(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(id)
}

func (f *Fetcher) Acknowledge(ctx context.Context, id string) error {
	if err := f.api.AcknowledgeAlert(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.alerts {
		if f.alerts[i].ID == id {
			f.alerts[i].Acknowledged = true
		}
	}
	return nil
}

func (f *Fetcher) Dismiss(ctx context.Context, id string) error {
	if err := f.api.DismissAlert(ctx, id); err != nil {
		return err
	}
	f.Forget(id)
	return nil
}

// Assign hands the alert to userID; it leaves the caller's list on success.
func (f *Fetcher) Assign(ctx context.Context, id, userID string) error {
	if err := f.api.AssignAlert(ctx, id, userID); err != nil {
		return err
	}
	f.Forget(id)
	return nil
}

// CompleteStep completes the project line item behind the alert.
func (f *Fetcher) CompleteStep(ctx context.Context, id, projectID, lineItemID, notes string) error {
	in := pmclient.CompleteAlertInput{ProjectID: projectID, LineItemID: lineItemID, Notes: notes}
	if err := f.api.CompleteAlert(ctx, id, in); err != nil {
		return err
	}
	f.Forget(id)
	return nil
}

func (f *Fetcher) removeLocked(id string) {
	kept := f.alerts[:0]
	for _, a := range f.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	f.alerts = kept
}

func (f *Fetcher) snapshotLocked() []pmclient.Alert {
	out := make([]pmclient.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}
