package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate      AuditAction = "CREATE"
	AuditActionAcknowledge AuditAction = "ACKNOWLEDGE"
	AuditActionDismiss     AuditAction = "DISMISS"
	AuditActionAssign      AuditAction = "ASSIGN"
	AuditActionComplete    AuditAction = "COMPLETE"
	AuditActionSync        AuditAction = "SYNC"
	AuditActionPurge       AuditAction = "PURGE"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`      // alerts, workflows
	RecordID  string             `bson:"record_id" json:"recordId"` // alert or step id
	ActorID   string             `bson:"actor_id" json:"actorId"`
	ActorName string             `bson:"actor_name,omitempty" json:"actorName,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is a single application log line persisted by the logger's DB sink.
type Log struct {
	Message       string    `bson:"message" json:"message"`
	Caller        string    `bson:"caller,omitempty" json:"caller,omitempty"`
	IpAddress     string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserID        string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	AlertID       string    `bson:"alert_id,omitempty" json:"alert_id,omitempty"`
	LogLevelId    int       `bson:"log_level_id" json:"log_level_id"`
	ApplicationId string    `bson:"application_id" json:"application_id"`
	CreatedOnUtc  time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
