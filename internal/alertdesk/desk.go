package alertdesk

import (
	"context"
	"errors"
	"fmt"

	"go-pm/pkg/pmclient"

	"go.uber.org/zap"
)

// Desk wires the fetcher, presenter and orchestrator together for one user.
type Desk struct {
	Fetcher      *Fetcher
	Presenter    *Presenter
	Orchestrator *Orchestrator
	Expanded     *ExpandSet
	User         User

	filter Filter
	log    *zap.Logger
}

func NewDesk(fetcher *Fetcher, presenter *Presenter, orchestrator *Orchestrator, user User, log *zap.Logger) *Desk {
	if log == nil {
		log = zap.NewNop()
	}
	return &Desk{
		Fetcher:      fetcher,
		Presenter:    presenter,
		Orchestrator: orchestrator,
		Expanded:     NewExpandSet(),
		User:         user,
		log:          log,
	}
}

// View loads alerts for filter (from cache when unchanged) and applies q.
func (d *Desk) View(ctx context.Context, filter Filter, q Query) ([]pmclient.Alert, error) {
	d.filter = filter
	alerts := d.Fetcher.Load(ctx, filter)
	if msg := d.Fetcher.Err(); msg != "" {
		return nil, fmt.Errorf("load alerts: %s", msg)
	}
	if q.Viewer == "" {
		q.Viewer = d.User.Role
	}
	return d.Presenter.Present(alerts, q), nil
}

// Refresh reloads from the server and collapses all cards except keep.
func (d *Desk) Refresh(ctx context.Context, keep ...string) []pmclient.Alert {
	d.Expanded.Reset(keep...)
	return d.Fetcher.Refresh(ctx, d.filter)
}

// Complete completes the alert's workflow step. Alerts without workflow
// identifiers are marked read instead.
func (d *Desk) Complete(ctx context.Context, alertID, notes string) (Result, error) {
	alert, ok := d.Fetcher.Get(alertID)
	if !ok {
		return Result{}, fmt.Errorf("alert %s is not in the current list", alertID)
	}

	res := d.Orchestrator.Complete(ctx, alert, d.User, notes)
	switch res.Outcome {
	case Skipped:
		if err := d.Fetcher.Acknowledge(ctx, alertID); err != nil {
			return res, fmt.Errorf("mark alert read: %w", err)
		}
		return res, nil
	case Failed:
		return res, errors.New(res.Message)
	}
	d.Expanded.Collapse(alertID)
	return res, nil
}

// Assign opens an assign form for the alert, selects userID and submits it.
func (d *Desk) Assign(ctx context.Context, alertID, userID string) error {
	form := NewAssignForm(d.Fetcher)
	form.Open(alertID)
	form.Select(userID)
	return form.Submit(ctx)
}
