package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationAlert         NotificationType = "alert"
	NotificationMissedWorkout NotificationType = "missed_workout"
	NotificationPlan          NotificationType = "plan"
)

// Alert is the payload handed to the notification sink.
type Alert struct {
	Type     NotificationType
	Title    string
	Message  string
	Link     string
	SenderID *primitive.ObjectID
}

// Notification is the persisted inbox record for a user.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	SenderID    *primitive.ObjectID `bson:"senderId,omitempty" json:"senderId,omitempty"`
	Type        NotificationType    `bson:"type" json:"type"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	Link        string              `bson:"link,omitempty" json:"link,omitempty"`
	Read        bool                `bson:"read" json:"read"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
