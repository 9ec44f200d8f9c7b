package audit

import (
	"errors"
	"time"

	common_models "go-pm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Modules that write to the audit trail.
const (
	ModuleAlerts    = "alerts"
	ModuleWorkflows = "workflows"
)

var ErrUnknownModule = errors.New("module must be alerts or workflows")

// LogFilter narrows the audit trail. Empty fields are ignored.
type LogFilter struct {
	Module   string
	RecordID string
	Action   common_models.AuditAction
	ActorID  string
	Since    time.Time
}

func (f LogFilter) validate() error {
	switch f.Module {
	case "", ModuleAlerts, ModuleWorkflows:
		return nil
	}
	return ErrUnknownModule
}

func (f LogFilter) query() bson.M {
	q := bson.M{}
	if f.Module != "" {
		q["module"] = f.Module
	}
	if f.RecordID != "" {
		q["record_id"] = f.RecordID
	}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.ActorID != "" {
		q["actor_id"] = f.ActorID
	}
	if !f.Since.IsZero() {
		q["timestamp"] = bson.M{"$gte": f.Since}
	}
	return q
}
