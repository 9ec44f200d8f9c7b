package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo       NotificationType = "info"
	NotificationTypeAssignment NotificationType = "assignment"
	NotificationTypeCompletion NotificationType = "completion"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      NotificationType   `bson:"type" json:"type"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	AlertID   string             `bson:"alert_id,omitempty" json:"alertId,omitempty"`
	IsRead    bool               `bson:"is_read" json:"isRead"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`
}
