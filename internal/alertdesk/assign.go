package alertdesk

import (
	"context"
	"errors"
	"strings"
)

var ErrNoAssignee = errors.New("select a user to assign the alert to")

// Assigner reassigns an alert on the server; *Fetcher implements it.
type Assigner interface {
	Assign(ctx context.Context, id, userID string) error
}

// AssignForm is the state of the "assign to" dialog for one alert.
type AssignForm struct {
	assigner Assigner
	open     bool
	alertID  string
	userID   string
	err      error
}

func NewAssignForm(a Assigner) *AssignForm {
	return &AssignForm{assigner: a}
}

func (f *AssignForm) Open(alertID string) {
	f.open = true
	f.alertID = alertID
	f.userID = ""
	f.err = nil
}

func (f *AssignForm) Select(userID string) {
	f.userID = strings.TrimSpace(userID)
}

// Submit sends the reassignment. On success the form closes; on failure it
// stays open with the error so the user can retry.
func (f *AssignForm) Submit(ctx context.Context) error {
	if !f.open {
		return errors.New("assign form is not open")
	}
	if f.userID == "" {
		f.err = ErrNoAssignee
		return f.err
	}
	if err := f.assigner.Assign(ctx, f.alertID, f.userID); err != nil {
		f.err = err
		return err
	}
	f.Close()
	return nil
}

func (f *AssignForm) Close() {
	f.open = false
	f.alertID = ""
	f.userID = ""
	f.err = nil
}

func (f *AssignForm) IsOpen() bool    { return f.open }
func (f *AssignForm) AlertID() string { return f.alertID }
func (f *AssignForm) Err() error      { return f.err }
